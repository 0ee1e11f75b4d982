package ports

import (
	"context"

	"github.com/aretw0/blocksmith/pkg/domain"
)

// GraphLoader defines how graph documents are retrieved.
// This allows the storage layer (files, Loam, Memory) to be decoupled.
type GraphLoader interface {
	// LoadGraph returns the document of the named graph.
	// It returns domain.ErrGraphNotFound if there is none.
	LoadGraph(ctx context.Context, name string) (*domain.GraphDocument, error)

	// ListGraphs returns the names of all available graphs, sorted.
	ListGraphs(ctx context.Context) ([]string, error)
}

// GraphSaver is implemented by loaders that can persist documents ('blocksmith init').
type GraphSaver interface {
	SaveGraph(ctx context.Context, doc *domain.GraphDocument) error
}

// Watchable defines an interface for loaders that can notify about backend changes.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying graphs change.
	// It abstracts away the specific event details, signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
