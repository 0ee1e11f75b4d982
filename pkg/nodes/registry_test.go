package nodes

import (
	"testing"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	var kinds []string
	for _, info := range r.Kinds() {
		kinds = append(kinds, info.Kind)
	}
	assert.Equal(t, []string{
		KindBlockDefinition, KindHavokConverter, KindLayerObjects,
		KindMwmBuilder, KindSeparateLayerObjects, KindTemplateString,
	}, kinds)
	assert.Equal(t, "Combined Layers", r.Label(KindLayerObjects))
	assert.Equal(t, "Custom", r.Label("Custom"))

	for _, kind := range kinds {
		n, err := r.New(kind, nil)
		require.NoError(t, err, kind)
		assert.Equal(t, kind, n.Kind())
	}
}

func TestRegistry_New(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name     string
		kind     string
		settings map[string]any
		mask     scene.LayerMask
		wantErr  error
		anyErr   bool
	}{
		{name: "layer list", kind: KindLayerObjects, settings: map[string]any{"layers": []any{1, 3}}, mask: scene.Layers(1, 3)},
		{name: "single layer", kind: KindSeparateLayerObjects, settings: map[string]any{"layers": 2}, mask: scene.Layers(2)},
		{name: "out of range", kind: KindLayerObjects, settings: map[string]any{"layers": []int{21}}, anyErr: true},
		{name: "unknown key", kind: KindLayerObjects, settings: map[string]any{"mask": 1}, anyErr: true},
		{name: "unexpected settings", kind: KindMwmBuilder, settings: map[string]any{"layers": 1}, anyErr: true},
		{name: "unknown kind", kind: "Teleporter", wantErr: domain.ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := r.New(tt.kind, tt.settings)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				switch n := n.(type) {
				case *LayerObjects:
					assert.Equal(t, tt.mask, n.Mask)
				case *SeparateLayerObjects:
					assert.Equal(t, tt.mask, n.Mask)
				default:
					t.Fatalf("unexpected node %T", n)
				}
			}
		})
	}
}
