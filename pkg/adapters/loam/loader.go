package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/loam"
)

// Loader adapts a Loam repository to the ports.GraphLoader interface.
// Every document of the repository is one graph.
type Loader struct {
	Repo *loam.TypedRepository[GraphMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[GraphMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// LoadGraph implements ports.GraphLoader.
func (l *Loader) LoadGraph(ctx context.Context, name string) (*domain.GraphDocument, error) {
	docs, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	doc, ok := docs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrGraphNotFound, name)
	}
	return doc, nil
}

// ListGraphs implements ports.GraphLoader.
func (l *Loader) ListGraphs(ctx context.Context) ([]string, error) {
	docs, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// index reads every document of the repository keyed by graph name.
// Two documents declaring the same graph name are an error.
func (l *Loader) index(ctx context.Context) (map[string]*domain.GraphDocument, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	out := make(map[string]*domain.GraphDocument, len(docs))
	for _, doc := range docs {
		content := doc.Content
		if doc.Data.Description == "" && content == "" {
			// List only carries metadata; the body is read on demand.
			full, err := l.Repo.Get(ctx, doc.ID)
			if err != nil {
				return nil, fmt.Errorf("loam get %s failed: %w", doc.ID, err)
			}
			content = full.Content
		}
		g := doc.Data.document(doc.ID, content)

		if existing, ok := seen[g.Name]; ok {
			return nil, fmt.Errorf("collision detected: graph '%s' is defined in both '%s' and '%s'", g.Name, existing, doc.ID)
		}
		seen[g.Name] = doc.ID
		out[g.Name] = g
	}
	return out, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				// Loam debounces; a pending signal already covers this change.
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()

	return ch, nil
}
