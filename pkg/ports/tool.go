package ports

import (
	"context"

	"github.com/aretw0/blocksmith/pkg/domain"
)

// ToolRunner executes external tools.
type ToolRunner interface {
	// Run executes the call and blocks until the process exits or ctx is done.
	// A tool that ran but failed is reported in the result (IsError), not as an error.
	Run(ctx context.Context, call domain.ToolCall) (domain.ToolResult, error)
}
