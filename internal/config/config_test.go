package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/blocksmith/pkg/adapters/process"
	"github.com/aretw0/blocksmith/pkg/domain"
)

const sampleConfig = `
game_dir: game
material_ref: materials.xml
fix_dir_bug: true
log_level: debug
tools:
  - name: mwmbuilder
    command: "'tools/Mwm Builder/MwmBuilder.exe' /f"
    env:
      WINEDEBUG: "-all"
ledger:
  backend: redis
  address: localhost:6379
  ttl: 24h
`

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(sampleConfig), "sample")
	require.NoError(t, err)

	assert.Equal(t, "game", cfg.GameDir)
	assert.True(t, cfg.FixDirBug)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, LedgerRedis, cfg.Ledger.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Ledger.TTL)
	assert.Equal(t, "scene.yaml", cfg.Scene, "defaults survive partial files")

	tool, ok := cfg.Tool(domain.ToolMwmBuilder)
	require.True(t, ok)
	assert.Equal(t, "-all", tool.Env["WINEDEBUG"])
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "colour: red\n", "field colour not found"},
		{"bad level", "log_level: loud\n", "LogLevel"},
		{"bad backend", "ledger: {backend: etcd}\n", "Backend"},
		{"redis without address", "ledger: {backend: redis}\n", "Address"},
		{"tool without command", "tools: [{name: fbx}]\n", "Command"},
		{"duplicate tool", "tools: [{name: fbx, command: a}, {name: fbx, command: b}]\n", "registered twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml), "test")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, LedgerMemory, cfg.Ledger.Backend)
	assert.Equal(t, filepath.Join(dir, "scene.yaml"), cfg.Path(cfg.Scene))
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	cfg := Default()
	cfg.MaterialRef = "materials.xml"
	cfg.Tools = []process.ToolConfig{{Name: domain.ToolGeometry, Command: "fbx-export --binary"}}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Tools, loaded.Tools)
	assert.Equal(t, filepath.Join(dir, "materials.xml"), loaded.ExportOptions().MaterialRef)
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestCheckPath(t *testing.T) {
	dir := t.TempDir()
	game := filepath.Join(dir, "game")
	touch(t, filepath.Join(game, "Bin64", "MedievalEngineers.exe"))
	ref := filepath.Join(dir, "materials.xml")
	touch(t, ref)

	tests := []struct {
		name string
		path string
		rule PathRule
		want error
	}{
		{"empty", "", PathRule{}, ErrPathEmpty},
		{"missing", filepath.Join(dir, "nope"), PathRule{}, ErrPathMissing},
		{"game dir", game, PathRule{IsDir: true, SubPath: gameExe}, nil},
		{"game dir without exe", dir, PathRule{IsDir: true, SubPath: gameExe}, ErrPathMissing},
		{"file wanted", game, PathRule{}, ErrPathKind},
		{"dir wanted", ref, PathRule{IsDir: true}, ErrPathKind},
		{"extension", ref, PathRule{Extension: ".XML"}, nil},
		{"wrong extension", ref, PathRule{Extension: ".json"}, ErrPathExtension},
		{"base name", ref, PathRule{BaseName: "Materials.xml"}, nil},
		{"wrong base name", ref, PathRule{BaseName: mwmBuilderExe}, ErrPathBaseName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPath(tt.path, tt.rule)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResolvedTools_DiscoversModelBuilder(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "game", "Tools", "MwmBuilder", mwmBuilderExe))

	cfg := Default()
	cfg.Dir = dir
	cfg.GameDir = "game"

	tools := cfg.ResolvedTools()
	require.Len(t, tools, 1)
	assert.Equal(t, domain.ToolMwmBuilder, tools[0].Name)

	prog, err := tools[0].Executable()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "game", "Tools", "MwmBuilder", mwmBuilderExe), prog)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "bin", "MwmBuilder.exe"))
	touch(t, filepath.Join(dir, "bin", "importer.exe"))

	cfg := Default()
	cfg.Dir = dir
	cfg.GameDir = "missing-game"
	cfg.Tools = []process.ToolConfig{
		{Name: domain.ToolMwmBuilder, Command: "bin/MwmBuilder.exe"},
		{Name: domain.ToolHavokImporter, Command: "bin/importer.exe"},
		{Name: domain.ToolGeometry, Command: "fbx-export"},
	}

	var settings []string
	for _, p := range cfg.Check() {
		settings = append(settings, p.Setting)
	}
	assert.Equal(t, []string{"game_dir", "tools." + domain.ToolHavokImporter}, settings)
}
