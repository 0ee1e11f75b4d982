package runs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/blocksmith/internal/logging"
	"github.com/aretw0/blocksmith/pkg/adapters/memory"
	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed process can hold a distributed lock.
const DefaultLockTTL = 5 * time.Minute

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes export runs per graph and keeps their history.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	ledger ports.ExportLedger

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager recording into ledger. A nil ledger keeps history in memory.
func NewManager(ledger ports.ExportLedger, opts ...Option) *Manager {
	if ledger == nil {
		ledger = memory.NewLedger()
	}
	m := &Manager{
		ledger:  ledger,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(graph) after unlocking.
func (m *Manager) acquire(graph string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[graph]
	if !exists {
		entry = &lockEntry{}
		m.locks[graph] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(graph string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[graph]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, graph)
	}
}

// WithLock executes fn while holding the export lock of graph.
func (m *Manager) WithLock(ctx context.Context, graph string, fn func(context.Context) error) error {
	entry := m.acquire(graph)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(graph)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, graph, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"graph", graph,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Run executes one export of graph under its lock and records the outcome.
// fn fills the artifacts of rec; its error is stored in the record and returned.
func (m *Manager) Run(ctx context.Context, graph, runID string, fn func(ctx context.Context, rec *domain.ExportRecord) error) (*domain.ExportRecord, error) {
	rec := &domain.ExportRecord{RunID: runID, Graph: graph}

	var runErr error
	err := m.WithLock(ctx, graph, func(ctx context.Context) error {
		rec.StartedAt = time.Now().UTC()
		runErr = fn(ctx, rec)
		rec.FinishedAt = time.Now().UTC()
		if runErr != nil {
			rec.Error = runErr.Error()
		}
		// A cancelled run is still recorded.
		if err := m.ledger.Record(context.WithoutCancel(ctx), *rec); err != nil {
			return fmt.Errorf("failed to record export run %s: %w", runID, err)
		}
		return nil
	})
	if err != nil {
		return rec, err
	}
	return rec, runErr
}

// History lists the recorded runs of graph, newest first. An empty graph lists every run.
func (m *Manager) History(ctx context.Context, graph string, limit int) ([]domain.ExportRecord, error) {
	return m.ledger.List(ctx, graph, limit)
}

// Get returns one recorded run.
func (m *Manager) Get(ctx context.Context, runID string) (*domain.ExportRecord, error) {
	return m.ledger.Get(ctx, runID)
}

// Ledger returns the underlying export ledger.
func (m *Manager) Ledger() ports.ExportLedger {
	return m.ledger
}
