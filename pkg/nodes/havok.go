package nodes

import (
	"context"
	"fmt"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/export"
	"github.com/aretw0/blocksmith/pkg/graph"
)

const KindHavokConverter = "HavokConverter"

// HavokConverter builds the collision file from the rigid bodies linked to Objects.
// The file is named after the node.
type HavokConverter struct{}

func (*HavokConverter) Kind() string { return KindHavokConverter }

func (*HavokConverter) Init(b *graph.Sockets) {
	b.Input(graph.KindTemplateString, "Name")
	b.Input(graph.KindRigidBodyObjects, "Objects")
	b.Output(graph.KindHktFile, "Havok").NodeProperty = "name"
}

func (*HavokConverter) Ready(g *graph.Graph, self graph.NodeID) bool {
	objs, _ := g.Input(self, "Objects")
	name, _ := g.Input(self, "Name")
	hasObjects := g.IsReady(objs) && !g.IsEmpty(objs)
	hasName := g.IsReady(name) && g.Text(name, nil) != ""
	return hasObjects && hasName
}

func (n *HavokConverter) Export(ctx context.Context, g *graph.Graph, self graph.NodeID, ec *export.Context) (string, error) {
	out, _ := g.Output(self, "Havok")
	name := g.Text(out, nil)
	if ec == nil {
		return name, nil
	}
	if !n.Ready(g, self) {
		return "", fmt.Errorf("%s %s: %w", KindHavokConverter, g.NodeName(self), domain.ErrNotReady)
	}

	objs, _ := g.Input(self, "Objects")
	job := export.HavokJob{Node: g.NodeName(self), Name: name, Objects: g.Objects(objs)}
	if err := export.ExportHavok(ctx, ec, job); err != nil {
		return "", err
	}
	return name, nil
}
