package ports

import (
	"context"

	"github.com/aretw0/blocksmith/pkg/domain"
)

// BlockEngine is the surface remote adapters (HTTP, MCP) drive.
type BlockEngine interface {
	// ListGraphs returns the names of the available graphs.
	ListGraphs(ctx context.Context) ([]string, error)

	// Graph returns the document of a graph.
	Graph(ctx context.Context, name string) (*domain.GraphDocument, error)

	// Status evaluates a graph against the current scene.
	Status(ctx context.Context, name string) (*domain.GraphStatus, error)

	// Export runs every exporter of the graph and returns the ledger record.
	Export(ctx context.Context, name string) (*domain.ExportRecord, error)
}
