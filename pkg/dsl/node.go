package dsl

import (
	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/schema"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	spec    domain.NodeSpec
	builder *Builder
}

// Set adds a node setting.
func (n *NodeBuilder) Set(key string, value any) *NodeBuilder {
	if n.spec.Settings == nil {
		n.spec.Settings = make(map[string]any)
	}
	n.spec.Settings[key] = value
	return n
}

// Layers selects the 1-based layers of a layer node.
func (n *NodeBuilder) Layers(numbers ...int) *NodeBuilder {
	return n.Set("layers", numbers)
}

// Text sets the literal text of a socket, addressed as "Name" or "LOD[2]".
func (n *NodeBuilder) Text(socket, text string) *NodeBuilder {
	ov := n.override(socket)
	ov.Text = &text
	n.spec.Sockets[socket] = ov
	return n
}

// Distance sets the switch distance of a LOD socket.
func (n *NodeBuilder) Distance(socket string, distance int) *NodeBuilder {
	ov := n.override(socket)
	ov.Distance = &distance
	n.spec.Sockets[socket] = ov
	return n
}

func (n *NodeBuilder) override(socket string) domain.SocketOverride {
	if n.spec.Sockets == nil {
		n.spec.Sockets = make(map[string]domain.SocketOverride)
	}
	return n.spec.Sockets[socket]
}

// Link connects an output of this node to an input reference ("Model.LOD[1]").
func (n *NodeBuilder) Link(output, to string) *NodeBuilder {
	n.builder.links = append(n.builder.links, domain.LinkSpec{
		From: n.spec.Name + "." + output,
		To:   to,
	})
	return n
}

// LinkAt is Link for a repeated output name.
func (n *NodeBuilder) LinkAt(output string, index int, to string) *NodeBuilder {
	return n.Link(schema.SocketKey(output, index), to)
}

// Build returns the underlying node spec.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.NodeSpec {
	return n.spec
}
