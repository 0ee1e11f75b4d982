package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/blocksmith/internal/logging"
	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/ports"
	"github.com/aretw0/blocksmith/pkg/scene"
	"github.com/google/uuid"
)

// Options are the tool settings an export honours.
type Options struct {
	// MaterialRef is an external material reference document passed to the model builder.
	MaterialRef string
	// FixDirBug recovers models that a broken model builder wrote next to its sources.
	FixDirBug bool
	// DefinitionsOnly skips every tool and only rewrites block definitions.
	DefinitionsOnly bool
}

// Context is the accumulator of one export run.
type Context struct {
	RunID     string
	Graph     string
	Scene     *scene.Scene
	OutputDir string
	WorkDir   string
	Options   Options

	runner ports.ToolRunner
	logger *slog.Logger
	hooks  domain.LifecycleHooks

	artifacts []domain.Artifact
	done      map[string]nodeResult
	active    map[string]bool
}

type nodeResult struct {
	out string
	err error
}

// Option configures a Context.
type Option func(*Context)

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(c *Context) { c.RunID = id }
}

// WithGraph names the graph being exported.
func WithGraph(name string) Option {
	return func(c *Context) { c.Graph = name }
}

// WithOutputDir sets where final files are written. Defaults to the scene's export path.
func WithOutputDir(dir string) Option {
	return func(c *Context) { c.OutputDir = dir }
}

// WithWorkDir sets where intermediate files are written. Defaults to OutputDir/.work.
func WithWorkDir(dir string) Option {
	return func(c *Context) { c.WorkDir = dir }
}

// WithRunner sets the tool runner.
func WithRunner(r ports.ToolRunner) Option {
	return func(c *Context) { c.runner = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.logger = l }
}

// WithHooks sets the lifecycle hooks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(c *Context) { c.hooks = h }
}

// WithOptions sets the tool options.
func WithOptions(o Options) Option {
	return func(c *Context) { c.Options = o }
}

// NewContext creates the context of a new export run for sc.
func NewContext(sc *scene.Scene, opts ...Option) *Context {
	if sc == nil {
		sc = scene.New("block")
	}
	c := &Context{
		RunID:  uuid.NewString(),
		Scene:  sc,
		logger: logging.NewNop(),
		done:   make(map[string]nodeResult),
		active: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.OutputDir == "" {
		c.OutputDir = sc.ResolveExportPath()
	}
	if c.WorkDir == "" {
		c.WorkDir = filepath.Join(c.OutputDir, ".work")
	}
	return c
}

// Logger returns the run's logger.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// Hooks returns the run's lifecycle hooks.
func (c *Context) Hooks() domain.LifecycleHooks {
	return c.hooks
}

// Once runs fn the first time node is exported in this run and replays its result afterwards.
// Re-entering a node that is still exporting fails with domain.ErrCycle.
func (c *Context) Once(ctx context.Context, node, kind string, fn func(context.Context) (string, error)) (string, error) {
	if r, ok := c.done[node]; ok {
		if r.err == nil {
			c.emitNode(ctx, node, kind, true)
		}
		return r.out, r.err
	}
	if c.active[node] {
		return "", fmt.Errorf("%w: node %s", domain.ErrCycle, node)
	}

	c.active[node] = true
	out, err := fn(ctx)
	delete(c.active, node)

	c.done[node] = nodeResult{out: out, err: err}
	if err != nil {
		c.logger.Error("node export failed", "node", node, "error", err)
		return out, err
	}
	c.logger.Debug("node exported", "node", node, "kind", kind, "output", out)
	c.emitNode(ctx, node, kind, false)
	return out, nil
}

func (c *Context) emitNode(ctx context.Context, node, kind string, cached bool) {
	if c.hooks.OnNodeExport == nil {
		return
	}
	c.hooks.OnNodeExport(ctx, &domain.NodeEvent{
		EventBase: c.base(domain.EventNodeExport),
		NodeName:  node,
		NodeKind:  kind,
		Cached:    cached,
	})
}

func (c *Context) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, RunID: c.RunID}
}

// AddArtifact records a produced file.
func (c *Context) AddArtifact(node, kind, path string) {
	c.artifacts = append(c.artifacts, domain.Artifact{Node: node, Kind: kind, Path: path})
}

// Artifacts returns the files produced so far, in production order.
func (c *Context) Artifacts() []domain.Artifact {
	return append([]domain.Artifact(nil), c.artifacts...)
}

// Sizes lists the block sizes this run produces.
func (c *Context) Sizes() []scene.BlockSize {
	return c.Scene.Settings.Sizes()
}

// Scale is the model scale for size. Small blocks derived from a large model are scaled down.
func (c *Context) Scale(size scene.BlockSize) float64 {
	if size == scene.SizeSmall && c.Scene.Settings.BlockSize == scene.SizeScaleDown {
		return scene.SmallBlockScale
	}
	return 1
}

// SizeDir is the directory name of a block size.
func SizeDir(size scene.BlockSize) string {
	if size == scene.SizeSmall {
		return "small"
	}
	return "large"
}

// WorkPath returns a path below the work directory of size, creating the directory.
func (c *Context) WorkPath(size scene.BlockSize, file string) (string, error) {
	return ensureDir(filepath.Join(c.WorkDir, SizeDir(size)), file)
}

// OutputPath returns a path below the output directory of size, creating the directory.
func (c *Context) OutputPath(size scene.BlockSize, file string) (string, error) {
	return ensureDir(filepath.Join(c.OutputDir, SizeDir(size)), file)
}

func ensureDir(dir, file string) (string, error) {
	if err := checkFileName(file); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return filepath.Join(dir, file), nil
}

// RunTool invokes a registered tool on behalf of node.
// Runner errors and unsuccessful exits are returned as *ToolError.
func (c *Context) RunTool(ctx context.Context, node, tool, dir string, args ...string) (domain.ToolResult, error) {
	if c.runner == nil {
		return domain.ToolResult{}, &ToolError{Tool: tool, Node: node, Err: domain.ErrToolNotRegistered}
	}
	call := domain.ToolCall{ID: uuid.NewString(), Name: tool, Args: args, Dir: dir}

	if c.hooks.OnToolCall != nil {
		c.hooks.OnToolCall(ctx, &domain.ToolEvent{EventBase: c.base(domain.EventToolCall), NodeName: node, ToolName: tool})
	}
	c.logger.Debug("running tool", "node", node, "tool", tool, "args", strings.Join(args, " "))

	start := time.Now()
	res, err := c.runner.Run(ctx, call)
	elapsed := time.Since(start)

	if c.hooks.OnToolReturn != nil {
		c.hooks.OnToolReturn(ctx, &domain.ToolEvent{
			EventBase: c.base(domain.EventToolReturn),
			NodeName:  node,
			ToolName:  tool,
			Duration:  elapsed,
			IsError:   err != nil || res.IsError,
		})
	}

	if err != nil {
		return res, &ToolError{Tool: tool, Node: node, Err: err}
	}
	if res.IsError {
		return res, &ToolError{Tool: tool, Node: node, ExitCode: res.ExitCode, Stderr: res.Stderr, Err: domain.ErrToolFailed}
	}
	return res, nil
}

// expectOutput fails when a tool exited successfully without writing path.
func expectOutput(node, tool, path string) error {
	if _, err := os.Stat(path); err != nil {
		return &ToolError{Tool: tool, Node: node, Err: fmt.Errorf("%w: no output at %s", domain.ErrToolFailed, path)}
	}
	return nil
}

// checkFileName rejects names that would leave the directory they are joined to.
func checkFileName(file string) error {
	if file == "" || file == "." || file == ".." || strings.ContainsAny(file, `/\`) ||
		filepath.Base(file) != file || filepath.VolumeName(file) != "" {
		return fmt.Errorf("%w: %q", domain.ErrInvalidFileName, file)
	}
	return nil
}
