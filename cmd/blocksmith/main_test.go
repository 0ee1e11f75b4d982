package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/blocksmith/pkg/versions"
)

func TestCheckReleases(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
  {"tag_name": "v0.2.0", "html_url": "https://example.test/v0.2.0"},
  {"tag_name": "v0.1.0", "html_url": "https://example.test/v0.1.0"}
]`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	feed := &versions.Feed{Client: srv.Client(), BaseURL: srv.URL}
	require.NoError(t, checkReleases(context.Background(), &buf, feed))

	out := buf.String()
	assert.Contains(t, out, "update available: v0.2.0 https://example.test/v0.2.0")
	assert.Contains(t, out, "  + v0.2.0\n")
	assert.Contains(t, out, "  * v0.1.0\n")
}

func TestInitAndStatusCommands(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs([]string{"init", "--dir", dir})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "wrote "+filepath.Join(dir, "blocksmith.yaml"))
	_, err := os.Stat(filepath.Join(dir, "scene.yaml"))
	require.NoError(t, err)

	out.Reset()
	rootCmd.SetArgs([]string{"status", "--dir", dir})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "not ready")
}

func TestGraphArg(t *testing.T) {
	assert.Equal(t, "", graphArg(nil))
	assert.Equal(t, "armor", graphArg([]string{"armor"}))
}
