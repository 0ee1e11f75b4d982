package graph

import (
	"context"

	"github.com/aretw0/blocksmith/pkg/export"
	"github.com/aretw0/blocksmith/pkg/scene"
)

type textNode struct{ text string }

func (n *textNode) Kind() string { return "Text" }
func (n *textNode) Init(b *Sockets) {
	b.Output(KindTemplateString, "Text").Text = n.text
}

// layerNode enumerates the objects of one layer and carries an ordinal.
type layerNode struct {
	layer int
	n     int
}

func (n *layerNode) Kind() string { return "Layer" }
func (n *layerNode) Init(b *Sockets) {
	b.Output(KindObjectList, "Objects").N = n.n
}
func (n *layerNode) Objects(g *Graph, socket SocketID) []*scene.Object {
	return g.Scene().ObjectsOn(scene.Layers(n.layer))
}

// fileNode is an exporter with a name input, an objects input and a file output.
type fileNode struct {
	exports int
	ready   *bool
}

func (n *fileNode) Kind() string { return "File" }
func (n *fileNode) Init(b *Sockets) {
	b.Input(KindTemplateString, "Name")
	b.Input(KindObjectList, "Objects")
	b.Input(KindMwmFile, "Upstream")
	b.Output(KindMwmFile, "Mwm").NodeInput = "Name"
}
func (n *fileNode) Ready(g *Graph, self NodeID) bool {
	if n.ready != nil {
		return *n.ready
	}
	objs, _ := g.Input(self, "Objects")
	return !g.IsEmpty(objs)
}
func (n *fileNode) Export(ctx context.Context, g *Graph, self NodeID, ec *export.Context) (string, error) {
	n.exports++
	out, _ := g.Output(self, "Mwm")
	return g.Text(out, nil), nil
}

// propNode resolves its output from a node property.
type propNode struct{ props map[string]string }

func (n *propNode) Kind() string { return "Prop" }
func (n *propNode) Init(b *Sockets) {
	b.Output(KindHktFile, "Havok").NodeProperty = "name"
	b.Output(KindTemplateString, "Custom").NodeProperty = "custom"
}
func (n *propNode) Property(name string) (string, bool) {
	v, ok := n.props[name]
	return v, ok
}

// pinNode counts topology notifications.
type pinNode struct{ notified int }

func (n *pinNode) Kind() string { return "Pins" }
func (n *pinNode) Init(b *Sockets) {
	for i := 0; i < 3; i++ {
		b.Input(KindLodInput, "LOD")
	}
}
func (n *pinNode) OnTopologyChanged(g *Graph, self NodeID) { n.notified++ }

func testScene() *scene.Scene {
	return scene.New("test").Add(
		&scene.Object{Name: "A", Type: scene.TypeMesh, Layers: scene.Layers(1)},
		&scene.Object{Name: "B", Type: scene.TypeMesh, Layers: scene.Layers(1), RigidBody: true},
		&scene.Object{Name: "M", Type: scene.TypeMesh, Layers: scene.Layers(2), Materials: []string{scene.MountPointMaterial}},
	)
}
