package nodes

import (
	"context"
	"fmt"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/export"
	"github.com/aretw0/blocksmith/pkg/graph"
	"github.com/aretw0/blocksmith/pkg/scene"
)

const KindBlockDefinition = "BlockDefinition"

// StagePins is the number of construction stage inputs of a BlockDefinition.
const StagePins = 10

// BlockDefinitionRef is what a BlockDefinition export returns.
const BlockDefinitionRef = "blockdef"

// BlockDefinition writes the block definitions that reference the main model,
// the construction stages and the mount points.
type BlockDefinition struct{}

func (*BlockDefinition) Kind() string { return KindBlockDefinition }

func (*BlockDefinition) Init(b *graph.Sockets) {
	b.Input(graph.KindMwmFile, "Main Model")
	b.Input(graph.KindMountPointObjects, "Mount Points")
	for i := 0; i < StagePins; i++ {
		b.Input(graph.KindMwmFile, "Constr. Phase")
	}
}

func (*BlockDefinition) OnTopologyChanged(g *graph.Graph, self graph.NodeID) {
	enablePins(g, self, "Constr. Phase")
}

func (*BlockDefinition) Ready(g *graph.Graph, self graph.NodeID) bool {
	main, _ := g.Input(self, "Main Model")
	return g.IsLinked(main) && g.IsReady(main)
}

func (n *BlockDefinition) Export(ctx context.Context, g *graph.Graph, self graph.NodeID, ec *export.Context) (string, error) {
	if ec == nil {
		return BlockDefinitionRef, nil
	}
	node := g.NodeName(self)
	if !n.Ready(g, self) {
		return "", fmt.Errorf("%s %s: %w", KindBlockDefinition, node, domain.ErrNotReady)
	}

	main, _ := g.Input(self, "Main Model")
	model, err := g.Export(ctx, main, ec)
	if err != nil {
		return "", err
	}

	job := export.BlockJob{Node: node, MainModel: model}
	for _, pin := range linkedPins(g, self, "Constr. Phase") {
		ref, err := g.Export(ctx, pin, ec)
		if err != nil {
			return "", err
		}
		job.Stages = append(job.Stages, ref)
	}
	mounts, _ := g.Input(self, "Mount Points")
	job.MountPoints = scene.Names(g.Objects(mounts))

	if _, err := export.ExportDefinitions(ctx, ec, job); err != nil {
		return "", err
	}
	return BlockDefinitionRef, nil
}
