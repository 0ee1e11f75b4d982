package nodes

import (
	"fmt"

	"github.com/aretw0/blocksmith/pkg/graph"
	"github.com/aretw0/blocksmith/pkg/scene"
)

const (
	KindLayerObjects         = "LayerObjects"
	KindSeparateLayerObjects = "SeparateLayerObjects"
)

// LayerSettings configures the layer nodes.
type LayerSettings struct {
	// Layers are 1-based layer numbers.
	Layers []int `mapstructure:"layers" yaml:"layers" validate:"dive,min=1,max=20"`
}

func (s LayerSettings) mask() scene.LayerMask {
	return scene.Layers(s.Layers...)
}

func layerSettings(m scene.LayerMask) map[string]any {
	return map[string]any{"layers": m.Numbers()}
}

// LayerObjects yields the meshes and empties on any of its layers.
type LayerObjects struct {
	Mask scene.LayerMask
}

func (*LayerObjects) Kind() string { return KindLayerObjects }

func (*LayerObjects) Init(b *graph.Sockets) {
	b.Output(graph.KindObjectList, "Objects")
}

func (n *LayerObjects) Objects(g *graph.Graph, socket graph.SocketID) []*scene.Object {
	return g.Scene().ObjectsOn(n.Mask)
}

func (n *LayerObjects) Settings() map[string]any {
	return layerSettings(n.Mask)
}

// SeparateLayerObjects has one output per layer. Outputs of layers in the
// mask are enabled and numbered 1..k in layer order.
type SeparateLayerObjects struct {
	Mask scene.LayerMask
}

func (*SeparateLayerObjects) Kind() string { return KindSeparateLayerObjects }

func (n *SeparateLayerObjects) Init(b *graph.Sockets) {
	outs := make([]*graph.Socket, scene.LayerCount)
	for i := range outs {
		outs[i] = b.Output(graph.KindObjectList, LayerOutput(i))
		outs[i].Layer = i
	}
	applyMask(n.Mask, outs)
}

// SetMask changes the layer selection and renumbers the outputs.
func (n *SeparateLayerObjects) SetMask(g *graph.Graph, self graph.NodeID, mask scene.LayerMask) {
	n.Mask = mask
	outs := make([]*graph.Socket, 0, scene.LayerCount)
	for _, id := range g.Outputs(self) {
		s, _ := g.Socket(id)
		outs = append(outs, s)
	}
	applyMask(mask, outs)
	g.Touch(self)
}

func applyMask(mask scene.LayerMask, outs []*graph.Socket) {
	ordinal := 1
	for _, s := range outs {
		s.Enabled = mask.Has(s.Layer)
		if !s.Enabled {
			s.N, s.Label = -1, ""
			continue
		}
		s.N = ordinal
		s.Label = fmt.Sprintf("%s → %d", s.Name, ordinal)
		ordinal++
	}
}

func (n *SeparateLayerObjects) Objects(g *graph.Graph, socket graph.SocketID) []*scene.Object {
	s, ok := g.Socket(socket)
	if !ok {
		return nil
	}
	return g.Scene().ObjectsOn(scene.LayerBit(s.Layer))
}

func (n *SeparateLayerObjects) Settings() map[string]any {
	return layerSettings(n.Mask)
}

// LayerOutput is the output name of the 0-based layer index i.
func LayerOutput(i int) string {
	return fmt.Sprintf("Layer %02d", i+1)
}
