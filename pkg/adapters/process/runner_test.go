package process

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable sh script in a temp dir.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("sh scripts are not available on windows")
	}
	path := filepath.Join(t.TempDir(), "tool.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestRunner_Run(t *testing.T) {
	script := writeScript(t, `echo "args: $*"; echo "mode=$MODE call=$CALL"; echo warn >&2`)

	runner, err := NewRunner(WithTools([]ToolConfig{
		{Name: "mwmbuilder", Command: "'" + script + "' --quiet", Env: map[string]string{"MODE": "release"}},
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"mwmbuilder"}, runner.Tools())

	t.Run("Executes Registered Command", func(t *testing.T) {
		res, err := runner.Run(context.Background(), domain.ToolCall{
			ID:   "call_1",
			Name: "mwmbuilder",
			Args: []string{"/s:work/Armor.fbx", "/o:out dir"},
			Env:  map[string]string{"CALL": "one"},
		})
		require.NoError(t, err)
		assert.False(t, res.IsError)
		assert.Equal(t, "call_1", res.ID)
		assert.Contains(t, res.Stdout, "args: --quiet /s:work/Armor.fbx /o:out dir")
		assert.Contains(t, res.Stdout, "mode=release call=one")
		assert.Equal(t, "warn\n", res.Stderr)
	})

	t.Run("Fails For Unregistered Command", func(t *testing.T) {
		_, err := runner.Run(context.Background(), domain.ToolCall{ID: "call_2", Name: "hacker_script"})
		assert.ErrorIs(t, err, domain.ErrToolNotRegistered)
	})
}

func TestRunner_ExitCode(t *testing.T) {
	script := writeScript(t, `echo "cannot open input" >&2; exit 3`)

	runner, err := NewRunner()
	require.NoError(t, err)
	runner.Register("havok-filter-manager", script)

	res, err := runner.Run(context.Background(), domain.ToolCall{ID: "x", Name: "havok-filter-manager"})
	require.NoError(t, err, "a tool that ran is reported in the result")
	assert.True(t, res.IsError)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Stderr, "cannot open input")
}

func TestRunner_WorkingDirectory(t *testing.T) {
	script := writeScript(t, `pwd`)
	base := t.TempDir()
	other := t.TempDir()

	runner, err := NewRunner(WithBaseDir(base))
	require.NoError(t, err)
	runner.Register("pwd", script)

	res, err := runner.Run(context.Background(), domain.ToolCall{Name: "pwd"})
	require.NoError(t, err)
	assertSameDir(t, base, res.Stdout)

	res, err = runner.Run(context.Background(), domain.ToolCall{Name: "pwd", Dir: other})
	require.NoError(t, err)
	assertSameDir(t, other, res.Stdout)
}

func assertSameDir(t *testing.T, want, got string) {
	t.Helper()
	w, err := filepath.EvalSymlinks(want)
	require.NoError(t, err)
	g, err := filepath.EvalSymlinks(filepath.Clean(trimNewline(got)))
	require.NoError(t, err)
	assert.Equal(t, w, g)
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func TestRunner_Cancellation(t *testing.T) {
	script := writeScript(t, `exec sleep 5`)

	runner, err := NewRunner()
	require.NoError(t, err)
	runner.Register("slow", script)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = runner.Run(ctx, domain.ToolCall{Name: "slow"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestRunner_MissingExecutable(t *testing.T) {
	runner, err := NewRunner()
	require.NoError(t, err)
	runner.Register("fbx", filepath.Join(t.TempDir(), "does-not-exist"))

	_, err = runner.Run(context.Background(), domain.ToolCall{Name: "fbx"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrToolNotRegistered)
}

func TestNewRunner_InvalidCommandLine(t *testing.T) {
	_, err := NewRunner(WithTools([]ToolConfig{
		{Name: "broken", Command: `"unterminated`},
		{Name: "blank", Command: "   "},
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool broken")
	assert.Contains(t, err.Error(), "tool blank")
}
