package ports

import (
	"context"

	"github.com/aretw0/blocksmith/pkg/domain"
)

// ExportLedger keeps the history of export runs.
type ExportLedger interface {
	// Record stores a finished run. Recording a run id twice replaces the entry.
	Record(ctx context.Context, rec domain.ExportRecord) error

	// Get returns one run. Returns domain.ErrRunNotFound if the run is unknown.
	Get(ctx context.Context, runID string) (*domain.ExportRecord, error)

	// List returns the runs of a graph, newest first. An empty graph lists every run.
	// limit <= 0 means no limit.
	List(ctx context.Context, graph string, limit int) ([]domain.ExportRecord, error)
}
