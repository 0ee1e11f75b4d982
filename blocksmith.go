package blocksmith

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/loam"
	"github.com/google/uuid"

	"github.com/aretw0/blocksmith/internal/logging"
	"github.com/aretw0/blocksmith/internal/validator"
	loamAdapter "github.com/aretw0/blocksmith/pkg/adapters/loam"
	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/export"
	"github.com/aretw0/blocksmith/pkg/graph"
	"github.com/aretw0/blocksmith/pkg/nodes"
	"github.com/aretw0/blocksmith/pkg/ports"
	"github.com/aretw0/blocksmith/pkg/runs"
	"github.com/aretw0/blocksmith/pkg/scene"
	"github.com/aretw0/blocksmith/pkg/schema"
)

// Engine is the high-level entry point for the blocksmith library.
// It evaluates graph documents against a scene and runs their exports.
type Engine struct {
	loader   ports.GraphLoader
	registry *nodes.Registry
	runner   ports.ToolRunner
	runs     *runs.Manager
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	options  export.Options

	outputDir string
	workDir   string

	mu    sync.RWMutex
	scene *scene.Scene

	Name string
}

var (
	_ ports.BlockEngine = (*Engine)(nil)
	_ ports.Watchable   = (*Engine)(nil)
)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom GraphLoader, bypassing the default Loam initialization.
func WithLoader(l ports.GraphLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithScene sets the scene graphs are evaluated against.
func WithScene(sc *scene.Scene) Option {
	return func(e *Engine) {
		e.scene = sc
	}
}

// WithRegistry replaces the default node kinds.
func WithRegistry(r *nodes.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithToolRunner sets the runner of external tools. Without one, exports fail at the first tool.
func WithToolRunner(r ports.ToolRunner) Option {
	return func(e *Engine) {
		e.runner = r
	}
}

// WithRuns sets the manager that serializes and records exports.
func WithRuns(m *runs.Manager) Option {
	return func(e *Engine) {
		e.runs = m
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithExportOptions sets the tool options of every export.
func WithExportOptions(o export.Options) Option {
	return func(e *Engine) {
		e.options = o
	}
}

// WithOutputDir overrides the scene's export path.
func WithOutputDir(dir string) Option {
	return func(e *Engine) {
		e.outputDir = dir
	}
}

// WithWorkDir sets where intermediate files go.
func WithWorkDir(dir string) Option {
	return func(e *Engine) {
		e.workDir = dir
	}
}

// New initializes a new Engine.
// By default, it reads graph documents from a Loam repository at repoPath.
// If WithLoader option is provided, repoPath can be empty and Loam is skipped.
func New(repoPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		if repoPath == "" {
			return nil, fmt.Errorf("repoPath is required when no custom loader is provided")
		}
		absPath, err := filepath.Abs(repoPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.Name = filepath.Base(absPath)

		// Strict mode decodes numbers as json.Number in every format.
		// The engine never writes graphs, so the repository is read-only.
		repo, err := loam.Init(absPath,
			loam.WithStrict(true),
			loam.WithReadOnly(true),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize loam: %w", err)
		}
		eng.loader = loamAdapter.New(loam.NewTypedRepository[loamAdapter.GraphMetadata](repo))
	} else if repoPath != "" {
		eng.Name = filepath.Base(repoPath)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.registry == nil {
		eng.registry = nodes.DefaultRegistry()
	}
	if eng.scene == nil {
		eng.scene = scene.New("block")
	}
	if eng.runs == nil {
		eng.runs = runs.NewManager(nil, runs.WithLogger(eng.logger))
	}
	return eng, nil
}

// Scene returns the scene graphs are evaluated against.
func (e *Engine) Scene() *scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scene
}

// SetScene swaps the scene, e.g. after its manifest changed.
func (e *Engine) SetScene(sc *scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scene = sc
}

// Loader returns the underlying GraphLoader used by the engine.
func (e *Engine) Loader() ports.GraphLoader {
	return e.loader
}

// Runs returns the export run manager.
func (e *Engine) Runs() *runs.Manager {
	return e.runs
}

// Registry returns the node kinds the engine builds graphs with.
func (e *Engine) Registry() *nodes.Registry {
	return e.registry
}

// ListGraphs implements ports.BlockEngine.
func (e *Engine) ListGraphs(ctx context.Context) ([]string, error) {
	return e.loader.ListGraphs(ctx)
}

// Graph implements ports.BlockEngine.
func (e *Engine) Graph(ctx context.Context, name string) (*domain.GraphDocument, error) {
	return e.loader.LoadGraph(ctx, name)
}

// Build loads a graph document and builds it against the current scene.
func (e *Engine) Build(ctx context.Context, name string) (*graph.Graph, error) {
	doc, err := e.loader.LoadGraph(ctx, name)
	if err != nil {
		return nil, err
	}
	return schema.Build(doc, e.Scene(), e.registry)
}

// Status implements ports.BlockEngine.
func (e *Engine) Status(ctx context.Context, name string) (*domain.GraphStatus, error) {
	g, err := e.Build(ctx, name)
	if err != nil {
		return nil, err
	}
	return g.Status(), nil
}

// Validate reports the problems of a graph. A document that does not build
// yields a report with errors, not an error.
func (e *Engine) Validate(ctx context.Context, name string) (*validator.Report, error) {
	doc, err := e.loader.LoadGraph(ctx, name)
	if err != nil {
		return nil, err
	}
	r, _ := validator.ValidateDocument(doc, e.Scene(), e.registry)
	return r, nil
}

// Export implements ports.BlockEngine.
func (e *Engine) Export(ctx context.Context, name string) (*domain.ExportRecord, error) {
	return e.export(ctx, name, e.options)
}

// ExportDefinitions rewrites the block definitions of a graph without running any tool.
func (e *Engine) ExportDefinitions(ctx context.Context, name string) (*domain.ExportRecord, error) {
	opts := e.options
	opts.DefinitionsOnly = true
	return e.export(ctx, name, opts)
}

// History lists the recorded exports of a graph, newest first.
func (e *Engine) History(ctx context.Context, name string, limit int) ([]domain.ExportRecord, error) {
	return e.runs.History(ctx, name, limit)
}

// Watch returns a channel that signals when the underlying graphs change.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

func (e *Engine) export(ctx context.Context, name string, opts export.Options) (*domain.ExportRecord, error) {
	// Unknown and broken graphs are not export runs.
	g, err := e.Build(ctx, name)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	return e.runs.Run(ctx, name, runID, func(ctx context.Context, rec *domain.ExportRecord) error {
		ec := export.NewContext(g.Scene(),
			export.WithRunID(runID),
			export.WithGraph(name),
			export.WithOutputDir(e.outputDir),
			export.WithWorkDir(e.workDir),
			export.WithRunner(e.runner),
			export.WithLogger(e.logger.With("graph", name, "run_id", runID)),
			export.WithHooks(e.hooks),
			export.WithOptions(opts),
		)

		start := time.Now()
		e.emitExport(ctx, domain.EventExportStart, e.hooks.OnExportStart, runID, name, 0, nil)
		err := exportRoots(ctx, g, ec)
		rec.Artifacts = ec.Artifacts()
		e.emitExport(ctx, domain.EventExportDone, e.hooks.OnExportDone, runID, name, time.Since(start), err)
		return err
	})
}

func (e *Engine) emitExport(ctx context.Context, t domain.EventType, hook func(context.Context, *domain.ExportEvent), runID, name string, d time.Duration, err error) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.ExportEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: t, RunID: runID},
		Graph:     name,
		Duration:  d,
		Err:       err,
	})
}

// Roots returns the exporters whose output no other exporter exports.
// Exporting the roots exports every exporter they depend on.
func Roots(g *graph.Graph) []graph.NodeID {
	var roots []graph.NodeID
	for _, id := range g.Nodes() {
		if g.IsExporter(id) && !exportedDownstream(g, id) {
			roots = append(roots, id)
		}
	}
	return roots
}

// exportedDownstream reports whether an output of id feeds an input that
// exports it: an enabled, compatible file input of an exporter node.
// Text inputs only read the output's name and do not count.
func exportedDownstream(g *graph.Graph, id graph.NodeID) bool {
	for _, out := range g.Outputs(id) {
		for _, lid := range g.LinksOf(out) {
			l, ok := g.LinkByID(lid)
			if !ok {
				continue
			}
			sink, ok := g.Socket(l.To)
			if !ok || !sink.Enabled || !sink.Kind.Has(graph.CapExport) {
				continue
			}
			if g.IsExporter(sink.Node) && g.Compatible(l.To) {
				return true
			}
		}
	}
	return false
}

func exportRoots(ctx context.Context, g *graph.Graph, ec *export.Context) error {
	roots := Roots(g)
	if len(roots) == 0 {
		return fmt.Errorf("graph %s has no exporter nodes: %w", g.Name(), domain.ErrNotReady)
	}
	var idle []string
	for _, id := range roots {
		if !g.NodeReady(id) {
			idle = append(idle, g.NodeName(id))
		}
	}
	if len(idle) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotReady, strings.Join(idle, ", "))
	}

	for _, id := range roots {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("export cancelled: %w", err)
		}
		if _, err := g.ExportNode(ctx, id, ec); err != nil {
			return err
		}
	}
	return nil
}
