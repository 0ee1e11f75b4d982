package nodes

import (
	"context"
	"fmt"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/export"
	"github.com/aretw0/blocksmith/pkg/graph"
)

const KindMwmBuilder = "MwmBuilder"

// LodPins is the number of LOD inputs of a MwmBuilder.
const LodPins = 10

// MwmBuilder builds a game model from the objects linked to Objects.
// Havok and the LOD pins are optional.
type MwmBuilder struct{}

func (*MwmBuilder) Kind() string { return KindMwmBuilder }

func (*MwmBuilder) Init(b *graph.Sockets) {
	b.Input(graph.KindTemplateString, "Name")
	b.Input(graph.KindObjectList, "Objects")
	b.Input(graph.KindHktFile, "Havok")
	b.Output(graph.KindMwmFile, "Mwm").NodeInput = "Name"
	for i := 0; i < LodPins; i++ {
		b.Input(graph.KindLodInput, "LOD")
	}
}

func (*MwmBuilder) OnTopologyChanged(g *graph.Graph, self graph.NodeID) {
	enablePins(g, self, "LOD")
}

func (*MwmBuilder) Ready(g *graph.Graph, self graph.NodeID) bool {
	objs, _ := g.Input(self, "Objects")
	name, _ := g.Input(self, "Name")
	return !g.IsEmpty(objs) && g.Text(name, nil) != ""
}

func (n *MwmBuilder) Export(ctx context.Context, g *graph.Graph, self graph.NodeID, ec *export.Context) (string, error) {
	out, _ := g.Output(self, "Mwm")
	name := g.Text(out, nil)
	if ec == nil {
		return name, nil
	}
	node := g.NodeName(self)
	if !n.Ready(g, self) {
		return "", fmt.Errorf("%s %s: %w", KindMwmBuilder, node, domain.ErrNotReady)
	}

	objs, _ := g.Input(self, "Objects")
	job := export.ModelJob{Node: node, Name: name, Objects: g.Objects(objs)}

	havok, _ := g.Input(self, "Havok")
	switch {
	case !g.IsLinked(havok):
	case !g.Compatible(havok) || !g.IsReady(havok):
		ec.Logger().Warn("skipping collision model", "node", node)
	default:
		ref, err := g.Export(ctx, havok, ec)
		if err != nil {
			return "", err
		}
		job.Havok = ref
	}

	for _, pin := range linkedPins(g, self, "LOD") {
		ref, err := g.Export(ctx, pin, ec)
		if err != nil {
			return "", err
		}
		s, _ := g.Socket(pin)
		job.LODs = append(job.LODs, export.LOD{Distance: s.Distance, Model: ref})
	}

	if err := export.ExportModel(ctx, ec, job); err != nil {
		return "", err
	}
	return name, nil
}
