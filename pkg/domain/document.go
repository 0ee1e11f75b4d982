package domain

// GraphDocument is the persisted form of an export graph.
type GraphDocument struct {
	Name        string     `json:"name" yaml:"name" mapstructure:"name" validate:"required"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Nodes       []NodeSpec `json:"nodes" yaml:"nodes" mapstructure:"nodes" validate:"dive"`
	Links       []LinkSpec `json:"links,omitempty" yaml:"links,omitempty" mapstructure:"links" validate:"dive"`
}

// NodeSpec declares one node of a graph document.
type NodeSpec struct {
	Name string `json:"name" yaml:"name" mapstructure:"name" validate:"required"`
	Kind string `json:"kind" yaml:"kind" mapstructure:"kind" validate:"required"`

	// Settings are decoded into the node kind's own settings struct.
	Settings map[string]any `json:"settings,omitempty" yaml:"settings,omitempty" mapstructure:"settings"`

	// Sockets overrides socket fields, keyed by socket reference ("Name", "LOD[2]").
	Sockets map[string]SocketOverride `json:"sockets,omitempty" yaml:"sockets,omitempty" mapstructure:"sockets"`
}

// SocketOverride holds the per-socket values a document may set.
type SocketOverride struct {
	Text     *string `json:"text,omitempty" yaml:"text,omitempty" mapstructure:"text"`
	Distance *int    `json:"distance,omitempty" yaml:"distance,omitempty" mapstructure:"distance"`
}

// LinkSpec connects an output to an input. Both ends are written "node.socket",
// with an index suffix for repeated socket names: "mwm.LOD[1]".
type LinkSpec struct {
	From string `json:"from" yaml:"from" mapstructure:"from" validate:"required"`
	To   string `json:"to" yaml:"to" mapstructure:"to" validate:"required"`
}

// Clone returns a copy that shares no maps or slices with d.
// Setting values are copied one level deep.
func (d *GraphDocument) Clone() *GraphDocument {
	out := *d
	out.Links = append([]LinkSpec(nil), d.Links...)
	out.Nodes = make([]NodeSpec, len(d.Nodes))
	for i, n := range d.Nodes {
		c := n
		if n.Settings != nil {
			c.Settings = make(map[string]any, len(n.Settings))
			for k, v := range n.Settings {
				c.Settings[k] = v
			}
		}
		if n.Sockets != nil {
			c.Sockets = make(map[string]SocketOverride, len(n.Sockets))
			for k, v := range n.Sockets {
				c.Sockets[k] = v
			}
		}
		out.Nodes[i] = c
	}
	if d.Nodes == nil {
		out.Nodes = nil
	}
	return &out
}
