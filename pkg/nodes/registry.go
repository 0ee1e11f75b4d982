package nodes

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/graph"
)

// Factory creates a node from its document settings.
type Factory func(settings map[string]any) (graph.Node, error)

// Configurable nodes report the settings that recreate them.
type Configurable interface {
	Settings() map[string]any
}

// Info describes a registered node kind.
type Info struct {
	Kind  string
	Label string
}

type entry struct {
	info    Info
	factory Factory
}

// Registry maps node kinds to factories.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]entry)}
}

// DefaultRegistry returns a registry with every built-in node kind.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(KindTemplateString, "Text with Parameters", plain(func() graph.Node { return &TemplateString{} }))
	r.Register(KindLayerObjects, "Combined Layers", func(settings map[string]any) (graph.Node, error) {
		var s LayerSettings
		if err := Decode(settings, &s); err != nil {
			return nil, err
		}
		return &LayerObjects{Mask: s.mask()}, nil
	})
	r.Register(KindSeparateLayerObjects, "Separate Layers", func(settings map[string]any) (graph.Node, error) {
		var s LayerSettings
		if err := Decode(settings, &s); err != nil {
			return nil, err
		}
		return &SeparateLayerObjects{Mask: s.mask()}, nil
	})
	r.Register(KindHavokConverter, "Havok Converter", plain(func() graph.Node { return &HavokConverter{} }))
	r.Register(KindMwmBuilder, "MwmBuilder", plain(func() graph.Node { return &MwmBuilder{} }))
	r.Register(KindBlockDefinition, "Block Definition", plain(func() graph.Node { return &BlockDefinition{} }))
	return r
}

func plain(fn func() graph.Node) Factory {
	return func(settings map[string]any) (graph.Node, error) {
		if len(settings) > 0 {
			return nil, fmt.Errorf("no settings expected, got %d", len(settings))
		}
		return fn(), nil
	}
}

// Register adds a node kind. An existing kind is overwritten.
func (r *Registry) Register(kind, label string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[kind] = entry{info: Info{Kind: kind, Label: label}, factory: f}
}

// New creates a node of the given kind.
func (r *Registry) New(kind string, settings map[string]any) (graph.Node, error) {
	r.mu.RLock()
	e, ok := r.kinds[kind]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownKind, kind)
	}
	n, err := e.factory(settings)
	if err != nil {
		return nil, fmt.Errorf("invalid %s settings: %w", kind, err)
	}
	return n, nil
}

// Label returns the display label of a kind, or the kind itself.
func (r *Registry) Label(kind string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.kinds[kind]; ok && e.info.Label != "" {
		return e.info.Label
	}
	return kind
}

// Kinds lists the registered kinds sorted by name.
func (r *Registry) Kinds() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Info, 0, len(r.kinds))
	for _, e := range r.kinds {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

var validate = validator.New()

// Decode fills a settings struct from a document settings map and validates it.
// Unknown keys are errors; a single value is accepted where a list is expected.
func Decode(settings map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(settings); err != nil {
		return err
	}
	return validate.Struct(out)
}
