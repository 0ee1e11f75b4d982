package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/blocksmith"
	"github.com/aretw0/blocksmith/internal/config"
	"github.com/aretw0/blocksmith/pkg/adapters/file"
	"github.com/aretw0/blocksmith/pkg/adapters/memory"
	"github.com/aretw0/blocksmith/pkg/adapters/process"
	"github.com/aretw0/blocksmith/pkg/adapters/redis"
	"github.com/aretw0/blocksmith/pkg/observability"
	"github.com/aretw0/blocksmith/pkg/runs"
	"github.com/aretw0/blocksmith/pkg/scene"
)

// Options select the project a command works on.
type Options struct {
	// Dir is the project directory. Defaults to the working directory.
	Dir string
	// ConfigPath overrides <Dir>/blocksmith.yaml.
	ConfigPath string
	Debug      bool

	// Engine options applied after the ones derived from the config.
	Engine []blocksmith.Option
}

// ConfigFile returns the config file the options point at.
func (o Options) ConfigFile() string {
	if o.ConfigPath != "" {
		return o.ConfigPath
	}
	dir := o.Dir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, config.FileName)
}

// Project is an opened blocksmith project: its config and the engine built from it.
type Project struct {
	Config  *config.Config
	Engine  *blocksmith.Engine
	Logger  *slog.Logger
	Metrics *prometheus.Registry

	closers []io.Closer
}

// Open loads the project config and wires the engine accordingly.
func Open(opts Options) (*Project, error) {
	cfg, err := config.Load(opts.ConfigFile())
	if err != nil {
		return nil, err
	}
	p := &Project{
		Config:  cfg,
		Logger:  createLogger(cfg.Level(), opts.Debug),
		Metrics: prometheus.NewRegistry(),
	}

	sc, err := p.LoadScene()
	if err != nil {
		return nil, err
	}

	runner, err := process.NewRunner(
		process.WithTools(cfg.ResolvedTools()),
		process.WithBaseDir(cfg.Dir),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid tool registration: %w", err)
	}

	manager := p.runManager()
	metrics := observability.NewMetrics(p.Metrics)

	// 1. Settings from blocksmith.yaml
	engineOpts := []blocksmith.Option{
		blocksmith.WithScene(sc),
		blocksmith.WithToolRunner(runner),
		blocksmith.WithRuns(manager),
		blocksmith.WithLogger(p.Logger),
		blocksmith.WithExportOptions(cfg.ExportOptions()),
		blocksmith.WithLifecycleHooks(metrics.Hooks()),
		blocksmith.WithLifecycleHooks(observability.LogHooks(p.Logger)),
	}

	// 2. Graph store. Without a loader the engine opens a read-only loam repository.
	graphs := cfg.Path(cfg.Graphs)
	if cfg.Store != config.StoreLoam {
		engineOpts = append(engineOpts, blocksmith.WithLoader(file.New(graphs)))
	}

	// 3. Caller overrides
	engineOpts = append(engineOpts, opts.Engine...)

	p.Engine, err = blocksmith.New(graphs, engineOpts...)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return p, nil
}

func (p *Project) runManager() *runs.Manager {
	opts := []runs.Option{runs.WithLogger(p.Logger)}
	lc := p.Config.Ledger
	if lc.Backend != config.LedgerRedis {
		return runs.NewManager(memory.NewLedger(), opts...)
	}

	var ledgerOpts []redis.Option
	if lc.TTL > 0 {
		ledgerOpts = append(ledgerOpts, redis.WithTTL(lc.TTL))
	}
	ledger := redis.New(lc.Address, lc.Password, lc.DB, ledgerOpts...)
	p.closers = append(p.closers, ledger)

	// Processes sharing the ledger also share the output directories.
	opts = append(opts, runs.WithLocker(redis.NewLocker(ledger.Client(), "blocksmith:lock:")))
	return runs.NewManager(ledger, opts...)
}

// ScenePath is the scene manifest of the project.
func (p *Project) ScenePath() string {
	return p.Config.Path(p.Config.Scene)
}

// LoadScene reads the scene manifest. A project without one gets an empty
// scene named after its directory.
func (p *Project) LoadScene() (*scene.Scene, error) {
	path := p.ScenePath()
	sc, err := scene.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		sc = scene.New(filepath.Base(p.Config.Dir))
		sc.Dir = p.Config.Dir
		return sc, nil
	}
	if err != nil {
		return nil, err
	}
	return sc, nil
}

// GraphName returns name, or the export graph of the scene when name is empty.
func (p *Project) GraphName(name string) string {
	if name != "" {
		return name
	}
	return p.Engine.Scene().Settings.ExportNodes
}

// Close releases the backends opened for the project.
func (p *Project) Close() error {
	var errs []error
	for _, c := range p.closers {
		errs = append(errs, c.Close())
	}
	p.closers = nil
	return errors.Join(errs...)
}
