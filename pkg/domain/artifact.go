package domain

import "time"

// Artifact is a file produced by an export.
type Artifact struct {
	Node string `json:"node"` // Name of the graph node that produced it
	Kind string `json:"kind"` // One of the Artifact* constants
	Path string `json:"path"`
}

// ExportRecord is the ledger entry of one export run.
type ExportRecord struct {
	RunID      string     `json:"run_id"`
	Graph      string     `json:"graph"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
	Artifacts  []Artifact `json:"artifacts,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Succeeded reports whether the run finished without error.
func (r ExportRecord) Succeeded() bool {
	return r.Error == ""
}
