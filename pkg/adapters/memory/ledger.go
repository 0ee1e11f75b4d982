package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/blocksmith/pkg/domain"
)

// Ledger implements ports.ExportLedger in memory.
// Safe for concurrent use.
type Ledger struct {
	data map[string]domain.ExportRecord
	mu   sync.RWMutex
}

// NewLedger creates an empty in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{
		data: make(map[string]domain.ExportRecord),
	}
}

// Record stores a copy of the run.
func (l *Ledger) Record(ctx context.Context, rec domain.ExportRecord) error {
	rec.Artifacts = append([]domain.Artifact(nil), rec.Artifacts...)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.data[rec.RunID] = rec
	return nil
}

// Get retrieves a run.
func (l *Ledger) Get(ctx context.Context, runID string) (*domain.ExportRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.data[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	// Copy on read so callers can't mutate the ledger through the slice
	rec.Artifacts = append([]domain.Artifact(nil), rec.Artifacts...)
	return &rec, nil
}

// List returns the runs of graph, newest first.
func (l *Ledger) List(ctx context.Context, graph string, limit int) ([]domain.ExportRecord, error) {
	l.mu.RLock()
	out := make([]domain.ExportRecord, 0, len(l.data))
	for _, rec := range l.data {
		if graph == "" || rec.Graph == graph {
			out = append(out, rec)
		}
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].RunID > out[j].RunID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
