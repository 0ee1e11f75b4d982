package tests

import (
	"context"
	"testing"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// GraphLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.GraphLoader.
// The loader must hold exactly the documents in expected.
func GraphLoaderContractTest(t *testing.T, loader ports.GraphLoader, expected []domain.GraphDocument) {
	t.Helper()
	ctx := context.Background()

	t.Run("LoadGraph_Success", func(t *testing.T) {
		for _, want := range expected {
			doc, err := loader.LoadGraph(ctx, want.Name)
			require.NoError(t, err, "LoadGraph(%s)", want.Name)
			assert.Equal(t, want.Name, doc.Name)
			require.Len(t, doc.Nodes, len(want.Nodes))
			for i := range want.Nodes {
				assert.Equal(t, want.Nodes[i].Name, doc.Nodes[i].Name)
				assert.Equal(t, want.Nodes[i].Kind, doc.Nodes[i].Kind)
			}
			assert.Equal(t, want.Links, doc.Links)
		}
	})

	t.Run("LoadGraph_NotFound", func(t *testing.T) {
		_, err := loader.LoadGraph(ctx, "non-existent-graph")
		assert.ErrorIs(t, err, domain.ErrGraphNotFound)
	})

	t.Run("ListGraphs", func(t *testing.T) {
		names, err := loader.ListGraphs(ctx)
		require.NoError(t, err)
		assert.Len(t, names, len(expected))
		for _, want := range expected {
			assert.Contains(t, names, want.Name)
		}
	})
}
