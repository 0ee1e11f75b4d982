package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/blocksmith/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Ledger implements ports.ExportLedger using Redis.
// Runs are stored as JSON strings and indexed in sorted sets scored by start time.
type Ledger struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Ledger)

// WithTTL sets the expiration of recorded runs.
func WithTTL(ttl time.Duration) Option {
	return func(l *Ledger) {
		l.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(l *Ledger) {
		l.prefix = prefix
	}
}

// New creates a new Redis ledger with options.
func New(address, password string, db int, opts ...Option) *Ledger {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis ledger from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Ledger {
	l := &Ledger{
		client: client,
		prefix: "blocksmith:",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) key(runID string) string {
	return l.prefix + "run:" + runID
}

func (l *Ledger) indexKey(graph string) string {
	if graph == "" {
		return l.prefix + "runs"
	}
	return l.prefix + "runs:" + graph
}

// Record implements ports.ExportLedger.
func (l *Ledger) Record(ctx context.Context, rec domain.ExportRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal export record: %w", err)
	}

	// A replaced run may have been recorded under another graph.
	prev, err := l.Get(ctx, rec.RunID)
	if err != nil && !errors.Is(err, domain.ErrRunNotFound) {
		return err
	}

	pipe := l.client.TxPipeline()
	if prev != nil && prev.Graph != rec.Graph {
		pipe.ZRem(ctx, l.indexKey(prev.Graph), rec.RunID)
	}
	pipe.Set(ctx, l.key(rec.RunID), data, l.ttl)

	member := backend.Z{Score: float64(rec.StartedAt.UnixMilli()), Member: rec.RunID}
	pipe.ZAdd(ctx, l.indexKey(""), member)
	pipe.ZAdd(ctx, l.indexKey(rec.Graph), member)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Get implements ports.ExportLedger.
func (l *Ledger) Get(ctx context.Context, runID string) (*domain.ExportRecord, error) {
	val, err := l.client.Get(ctx, l.key(runID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, runID)
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var rec domain.ExportRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal export record: %w", err)
	}
	return &rec, nil
}

// List implements ports.ExportLedger.
// Index entries whose record expired are pruned lazily.
func (l *Ledger) List(ctx context.Context, graph string, limit int) ([]domain.ExportRecord, error) {
	index := l.indexKey(graph)
	ids, err := l.client.ZRevRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list export runs: %w", err)
	}

	out := make([]domain.ExportRecord, 0, len(ids))
	var stale []any
	for _, id := range ids {
		if limit > 0 && len(out) == limit {
			break
		}
		rec, err := l.Get(ctx, id)
		if errors.Is(err, domain.ErrRunNotFound) {
			stale = append(stale, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}

	if len(stale) > 0 {
		if err := l.client.ZRem(ctx, index, stale...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired runs: %w", err)
		}
	}
	return out, nil
}

// Close closes the redis client.
func (l *Ledger) Close() error {
	return l.client.Close()
}

// Client returns the underlying redis client, e.g. to share it with a Locker.
func (l *Ledger) Client() *backend.Client {
	return l.client
}
