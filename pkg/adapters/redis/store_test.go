package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/blocksmith/pkg/adapters/redis"
	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLedger_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunExportLedgerContract(t, redis.NewFromClient(client))
}

func TestRedisLedger_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	ledger := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()
	rec := domain.ExportRecord{RunID: "run-ttl", Graph: "armor", StartedAt: time.Now()}

	require.NoError(t, ledger.Record(ctx, rec))
	runs, err := ledger.List(ctx, "armor", 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	mr.FastForward(2 * time.Second)

	_, err = ledger.Get(ctx, "run-ttl")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	runs, err = ledger.List(ctx, "armor", 0)
	require.NoError(t, err)
	assert.Empty(t, runs)

	members, err := mr.ZMembers("blocksmith:runs:armor")
	if err == nil {
		assert.Empty(t, members, "expired runs are pruned from the index")
	}
}

func TestRedisLedger_Prefix(t *testing.T) {
	mr, client := newClient(t)

	ledger := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, ledger.Record(ctx, domain.ExportRecord{RunID: "r1", Graph: "armor", StartedAt: time.Now()}))

	assert.True(t, mr.Exists("custom:app:run:r1"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:runs:armor"), "Expected graph index with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:runs"), "Expected global index with custom prefix to exist")
}

func TestRedisLedger_ReplaceMovesGraph(t *testing.T) {
	_, client := newClient(t)
	ledger := redis.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, ledger.Record(ctx, domain.ExportRecord{RunID: "r1", Graph: "armor", StartedAt: time.Now()}))
	require.NoError(t, ledger.Record(ctx, domain.ExportRecord{RunID: "r1", Graph: "wall", StartedAt: time.Now()}))

	armor, err := ledger.List(ctx, "armor", 0)
	require.NoError(t, err)
	assert.Empty(t, armor)

	wall, err := ledger.List(ctx, "wall", 0)
	require.NoError(t, err)
	assert.Len(t, wall, 1)
}
