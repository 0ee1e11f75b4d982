package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/blocksmith/pkg/domain"
)

// Executables the game ships or the Havok content tools install.
const (
	gameExe          = "Bin64/MedievalEngineers.exe"
	mwmBuilderExe    = "MwmBuilder.exe"
	fbxImporterExe   = "FBXImporter.exe"
	filterManagerExe = "hctStandAloneFilterManager.exe"
)

var (
	ErrPathEmpty     = errors.New("path is empty")
	ErrPathMissing   = errors.New("path does not exist")
	ErrPathKind      = errors.New("wrong kind of path")
	ErrPathBaseName  = errors.New("unexpected file name")
	ErrPathExtension = errors.New("unexpected extension")
)

// PathRule lists what CheckPath expects of a path. Zero fields are not checked.
type PathRule struct {
	IsDir     bool
	BaseName  string // compared case-insensitively
	Extension string // with the dot, compared case-insensitively
	SubPath   string // must exist below a directory
}

// CheckPath reports the first expectation path does not meet.
func CheckPath(path string, rule PathRule) error {
	if strings.TrimSpace(path) == "" {
		return ErrPathEmpty
	}
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, ErrPathMissing)
	}
	if rule.IsDir != info.IsDir() {
		want := "file"
		if rule.IsDir {
			want = "directory"
		}
		return fmt.Errorf("%s: want a %s: %w", path, want, ErrPathKind)
	}
	if rule.BaseName != "" && !strings.EqualFold(filepath.Base(path), rule.BaseName) {
		return fmt.Errorf("%s: want %s: %w", path, rule.BaseName, ErrPathBaseName)
	}
	if rule.Extension != "" && !strings.EqualFold(filepath.Ext(path), rule.Extension) {
		return fmt.Errorf("%s: want a %s file: %w", path, rule.Extension, ErrPathExtension)
	}
	if rule.SubPath != "" {
		sub := filepath.Join(path, filepath.FromSlash(rule.SubPath))
		if _, err := os.Stat(sub); err != nil {
			return fmt.Errorf("%s: %w", sub, ErrPathMissing)
		}
	}
	return nil
}

// Problem is a config setting that points at the wrong place.
type Problem struct {
	Setting string
	Err     error
}

func (p Problem) String() string { return p.Setting + ": " + p.Err.Error() }

// Check runs CheckPath on every configured location.
// Unset optional settings are not reported.
func (c *Config) Check() []Problem {
	var out []Problem
	add := func(setting string, err error) {
		if err != nil {
			out = append(out, Problem{Setting: setting, Err: err})
		}
	}
	if c.GameDir != "" {
		add("game_dir", CheckPath(c.Path(c.GameDir), PathRule{IsDir: true, SubPath: gameExe}))
	}
	if c.MaterialRef != "" {
		add("material_ref", CheckPath(c.Path(c.MaterialRef), PathRule{Extension: ".xml"}))
	}

	expected := map[string]string{
		domain.ToolMwmBuilder:    mwmBuilderExe,
		domain.ToolHavokImporter: fbxImporterExe,
		domain.ToolHavokFilter:   filterManagerExe,
	}
	for _, t := range c.ResolvedTools() {
		setting := "tools." + t.Name
		prog, err := t.Executable()
		if err != nil {
			add(setting, err)
			continue
		}
		// Bare program names are looked up on PATH by the runner.
		if !strings.ContainsAny(prog, `/\`) {
			continue
		}
		add(setting, CheckPath(c.Path(prog), PathRule{BaseName: expected[t.Name]}))
	}
	return out
}
