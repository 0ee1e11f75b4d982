// Package config loads blocksmith.yaml, the per-project tool and backend settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/blocksmith/internal/logging"
	"github.com/aretw0/blocksmith/pkg/adapters/process"
	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/export"
)

// FileName is the config file looked up in a project directory.
const FileName = "blocksmith.yaml"

// Graph stores.
const (
	StoreFile = "file"
	StoreLoam = "loam"
)

// Ledger backends.
const (
	LedgerMemory = "memory"
	LedgerRedis  = "redis"
)

var validate = validator.New()

// Config is the content of blocksmith.yaml.
type Config struct {
	// GameDir is the game's install directory.
	GameDir string `yaml:"game_dir,omitempty"`
	// Graphs is the directory holding graph documents, relative to the config file.
	Graphs string `yaml:"graphs,omitempty"`
	// Store selects how Graphs is read.
	Store string `yaml:"store,omitempty" validate:"omitempty,oneof=file loam"`
	// Scene is the scene manifest, relative to the config file.
	Scene string `yaml:"scene,omitempty"`

	Tools []process.ToolConfig `yaml:"tools,omitempty" validate:"dive"`

	MaterialRef string `yaml:"material_ref,omitempty"`
	FixDirBug   bool   `yaml:"fix_dir_bug,omitempty"`

	LogLevel string       `yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn warning error"`
	Ledger   LedgerConfig `yaml:"ledger,omitempty"`

	// Dir is the directory of the loaded file. Relative paths resolve against it.
	Dir string `yaml:"-"`
}

// LedgerConfig selects where export runs are recorded.
type LedgerConfig struct {
	Backend  string        `yaml:"backend,omitempty" validate:"omitempty,oneof=memory redis"`
	Address  string        `yaml:"address,omitempty" validate:"required_if=Backend redis"`
	Password string        `yaml:"password,omitempty"`
	DB       int           `yaml:"db,omitempty" validate:"min=0"`
	TTL      time.Duration `yaml:"ttl,omitempty" validate:"min=0"`
}

// Default returns the config used when a project has no blocksmith.yaml.
func Default() *Config {
	return &Config{
		Graphs:   "graphs",
		Store:    StoreFile,
		Scene:    "scene.yaml",
		LogLevel: "info",
		Ledger:   LedgerConfig{Backend: LedgerMemory},
	}
}

// Load reads path. A missing file yields Default with Dir set to path's directory.
func Load(path string) (*Config, error) {
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config dir: %w", err)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		cfg.Dir = dir
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(bytes.NewReader(data), path)
	if err != nil {
		return nil, err
	}
	cfg.Dir = dir
	return cfg, nil
}

// Parse decodes and validates a config. Missing fields take their defaults.
func Parse(r io.Reader, source string) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", source, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", source, err)
	}
	return cfg, nil
}

// Validate checks field constraints and tool names.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fields := make([]string, len(verrs))
		for i, fe := range verrs {
			fields[i] = fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag())
		}
		return errors.New(strings.Join(fields, "; "))
	}
	seen := make(map[string]bool)
	for _, t := range c.Tools {
		if seen[t.Name] {
			return fmt.Errorf("tool %s registered twice", t.Name)
		}
		seen[t.Name] = true
	}
	return nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Path resolves p against the config directory.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, filepath.FromSlash(p))
}

// Level is the parsed log level.
func (c *Config) Level() slog.Level {
	lvl, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ExportOptions are the tool options an export run takes from the config.
func (c *Config) ExportOptions() export.Options {
	return export.Options{
		MaterialRef: c.Path(c.MaterialRef),
		FixDirBug:   c.FixDirBug,
	}
}

// Tool returns the registration of name.
func (c *Config) Tool(name string) (process.ToolConfig, bool) {
	for _, t := range c.Tools {
		if t.Name == name {
			return t, true
		}
	}
	return process.ToolConfig{}, false
}

// ResolvedTools returns the tool registrations with the model builder
// discovered under GameDir when it is not registered explicitly.
func (c *Config) ResolvedTools() []process.ToolConfig {
	tools := append([]process.ToolConfig(nil), c.Tools...)
	if _, ok := c.Tool(domain.ToolMwmBuilder); ok || c.GameDir == "" {
		return tools
	}
	guess := filepath.Join(c.Path(c.GameDir), "Tools", "MwmBuilder", mwmBuilderExe)
	if CheckPath(guess, PathRule{}) == nil {
		tools = append(tools, process.ToolConfig{
			Name:        domain.ToolMwmBuilder,
			Command:     quote(guess),
			Description: "discovered in game_dir",
		})
	}
	return tools
}

func quote(path string) string {
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}
