package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunExportLedgerContract runs a suite of tests to verify that an ExportLedger implementation
// adheres to the defined interface contract. The ledger must start empty.
func RunExportLedgerContract(t *testing.T, ledger ExportLedger) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	rec := func(id, graph string, minute int) domain.ExportRecord {
		start := base.Add(time.Duration(minute) * time.Minute)
		return domain.ExportRecord{
			RunID:      id,
			Graph:      graph,
			StartedAt:  start,
			FinishedAt: start.Add(2 * time.Second),
			Artifacts:  []domain.Artifact{{Node: "Mwm", Kind: domain.ArtifactModel, Path: "/out/" + id + ".mwm"}},
		}
	}

	t.Run("Record and Get", func(t *testing.T) {
		r := rec("run-1", "armor", 0)
		require.NoError(t, ledger.Record(ctx, r))

		loaded, err := ledger.Get(ctx, "run-1")
		require.NoError(t, err)
		assert.Equal(t, r.Graph, loaded.Graph)
		assert.True(t, r.StartedAt.Equal(loaded.StartedAt))
		assert.Equal(t, r.Artifacts, loaded.Artifacts)
		assert.True(t, loaded.Succeeded())
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := ledger.Get(ctx, "missing-run")
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Record Replaces", func(t *testing.T) {
		r := rec("run-1", "armor", 0)
		r.Error = "mwmbuilder failed"
		require.NoError(t, ledger.Record(ctx, r))

		loaded, err := ledger.Get(ctx, "run-1")
		require.NoError(t, err)
		assert.False(t, loaded.Succeeded())

		all, err := ledger.List(ctx, "armor", 0)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("List Newest First", func(t *testing.T) {
		require.NoError(t, ledger.Record(ctx, rec("run-2", "armor", 5)))
		require.NoError(t, ledger.Record(ctx, rec("run-3", "wall", 10)))
		require.NoError(t, ledger.Record(ctx, rec("run-4", "armor", 15)))

		armor, err := ledger.List(ctx, "armor", 0)
		require.NoError(t, err)
		require.Len(t, armor, 3)
		assert.Equal(t, "run-4", armor[0].RunID)
		assert.Equal(t, "run-1", armor[2].RunID)

		limited, err := ledger.List(ctx, "armor", 2)
		require.NoError(t, err)
		assert.Len(t, limited, 2)

		all, err := ledger.List(ctx, "", 0)
		require.NoError(t, err)
		assert.Len(t, all, 4)
		assert.Equal(t, "run-3", all[1].RunID)
	})
}
