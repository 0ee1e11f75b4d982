package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/blocksmith/pkg/domain"
)

// Loader implements ports.GraphLoader and ports.GraphSaver using an in-memory map.
// Safe for concurrent use.
type Loader struct {
	mu   sync.RWMutex
	docs map[string]*domain.GraphDocument
}

// NewLoader creates a loader holding copies of docs.
func NewLoader(docs ...*domain.GraphDocument) (*Loader, error) {
	l := &Loader{docs: make(map[string]*domain.GraphDocument)}
	for _, d := range docs {
		if d.Name == "" {
			return nil, fmt.Errorf("graph document missing name")
		}
		l.docs[d.Name] = d.Clone()
	}
	return l, nil
}

// LoadGraph returns a copy of the named document.
func (l *Loader) LoadGraph(ctx context.Context, name string) (*domain.GraphDocument, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	doc, ok := l.docs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrGraphNotFound, name)
	}
	return doc.Clone(), nil
}

// ListGraphs returns all graph names.
func (l *Loader) ListGraphs(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.docs))
	for k := range l.docs {
		names = append(names, k)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}

// SaveGraph stores a copy of doc, replacing any document of the same name.
func (l *Loader) SaveGraph(ctx context.Context, doc *domain.GraphDocument) error {
	if doc.Name == "" {
		return fmt.Errorf("graph document missing name")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.docs[doc.Name] = doc.Clone()
	return nil
}
