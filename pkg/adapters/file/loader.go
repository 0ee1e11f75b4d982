package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/schema"
)

// Loader implements ports.GraphLoader over graph documents on disk.
// Root is either a single document or a directory of *.yaml, *.yml and *.json documents.
// A document without a name is named after its file.
type Loader struct {
	Root string
}

// New creates a loader for root.
func New(root string) *Loader {
	return &Loader{Root: root}
}

// LoadGraph reads the document named name.
func (l *Loader) LoadGraph(ctx context.Context, name string) (*domain.GraphDocument, error) {
	docs, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if d.doc.Name == name {
			return d.doc, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrGraphNotFound, name)
}

// ListGraphs returns the names of all documents.
func (l *Loader) ListGraphs(ctx context.Context) ([]string, error) {
	docs, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.doc.Name)
	}
	sort.Strings(names)
	return names, nil
}

// Path returns the file a document is read from, or would be saved to.
func (l *Loader) Path(ctx context.Context, name string) (string, error) {
	docs, err := l.load(ctx)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	for _, d := range docs {
		if d.doc.Name == name {
			return d.path, nil
		}
	}
	if isDocument(l.Root) {
		return l.Root, nil
	}
	return filepath.Join(l.Root, fileName(name)+".yaml"), nil
}

// SaveGraph writes doc to its file, creating the directory when needed.
func (l *Loader) SaveGraph(ctx context.Context, doc *domain.GraphDocument) error {
	if doc.Name == "" {
		return fmt.Errorf("graph document missing name")
	}
	path, err := l.Path(ctx, doc.Name)
	if err != nil {
		return err
	}
	data, err := schema.Encode(doc, schema.FormatOf(path))
	if err != nil {
		return fmt.Errorf("failed to encode graph %s: %w", doc.Name, err)
	}
	return writeAtomic(path, data)
}

type located struct {
	path string
	doc  *domain.GraphDocument
}

func (l *Loader) load(ctx context.Context) ([]located, error) {
	info, err := os.Stat(l.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to open graphs at %s: %w", l.Root, err)
	}

	paths := []string{l.Root}
	if info.IsDir() {
		entries, err := os.ReadDir(l.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to list graphs: %w", err)
		}
		paths = paths[:0]
		for _, e := range entries {
			if !e.IsDir() && isDocument(e.Name()) {
				paths = append(paths, filepath.Join(l.Root, e.Name()))
			}
		}
	}

	out := make([]located, 0, len(paths))
	seen := make(map[string]string)
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read graph file: %w", err)
		}
		doc, err := schema.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if doc.Name == "" {
			doc.Name = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		}
		if prev, dup := seen[doc.Name]; dup {
			return nil, fmt.Errorf("graph %q defined in both %s and %s", doc.Name, prev, p)
		}
		seen[doc.Name] = p
		out = append(out, located{path: p, doc: doc})
	}
	return out, nil
}

func isDocument(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func fileName(graph string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, graph)
}

// writeAtomic writes to a temporary file first, syncs it and renames it to the destination.
func writeAtomic(destPath string, data []byte) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure graph directory: %w", err)
	}

	// Same directory, so the rename stays on one filesystem
	tmpFile, err := os.CreateTemp(dir, "tmp-"+filepath.Base(destPath)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing graph file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
