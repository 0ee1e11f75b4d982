package domain

// GraphStatus is a readiness snapshot of every node of a graph.
type GraphStatus struct {
	Graph   string       `json:"graph"`
	Version uint64       `json:"version"`
	Ready   bool         `json:"ready"` // All exporter nodes are ready
	Nodes   []NodeStatus `json:"nodes"`
}

// NodeStatus describes one node.
type NodeStatus struct {
	Name     string         `json:"name"`
	Kind     string         `json:"kind"`
	Exporter bool           `json:"exporter"`
	Ready    bool           `json:"ready"`
	Output   string         `json:"output,omitempty"` // Resolved text of the first text output
	Sockets  []SocketStatus `json:"sockets"`
}

// SocketStatus describes one socket as a host UI would draw it.
type SocketStatus struct {
	Name       string   `json:"name"`
	Label      string   `json:"label"`
	Kind       string   `json:"kind"`
	Output     bool     `json:"output"`
	Enabled    bool     `json:"enabled"`
	Linked     bool     `json:"linked"`
	Compatible bool     `json:"compatible"`
	Ready      bool     `json:"ready"`
	Empty      bool     `json:"empty,omitempty"` // Object sockets only
	Text       string   `json:"text,omitempty"`
	Objects    []string `json:"objects,omitempty"`
}
