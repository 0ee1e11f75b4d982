package graph

import (
	"context"

	"github.com/aretw0/blocksmith/pkg/export"
	"github.com/aretw0/blocksmith/pkg/scene"
)

// Node is a typed unit of the graph.
type Node interface {
	// Kind is the registry name of the node type.
	Kind() string
	// Init declares the node's sockets. It runs once, when the node is added.
	Init(b *Sockets)
}

// ObjectProvider nodes enumerate scene objects for their object outputs.
type ObjectProvider interface {
	Objects(g *Graph, socket SocketID) []*scene.Object
}

// Exporter nodes do an export job and return the text that references its output.
type Exporter interface {
	Export(ctx context.Context, g *Graph, self NodeID, ec *export.Context) (string, error)
}

// ReadinessCheck nodes decide whether they have enough input to export.
type ReadinessCheck interface {
	Ready(g *Graph, self NodeID) bool
}

// PropertyProvider nodes expose named properties usable as text sources.
// Every node has the built-in properties "name" and "kind".
type PropertyProvider interface {
	Property(name string) (string, bool)
}

// TopologyListener nodes are told when a link to one of their sockets changed.
// It is the only place sockets may change their Enabled flags.
type TopologyListener interface {
	OnTopologyChanged(g *Graph, self NodeID)
}
