package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLayerMask(t *testing.T) {
	m := Layers(1, 11, 13)

	assert.True(t, m.Has(0))
	assert.True(t, m.Has(10))
	assert.False(t, m.Has(1))
	assert.Equal(t, []int{0, 10, 12}, m.Indexes())
	assert.Equal(t, []int{1, 11, 13}, m.Numbers())
	assert.Equal(t, 3, m.Count())
	assert.Equal(t, LayerMask(0), Layers(0, 21))
	assert.Equal(t, m, LayerBits(m.Bools()))
	assert.True(t, m.Contains(Layers(11)))
	assert.False(t, m.Contains(Layers(2, 11)))
	assert.True(t, LayerMask(0).Empty())
}

func TestLayerMask_YAML(t *testing.T) {
	var holder struct {
		A LayerMask `yaml:"a"`
		B LayerMask `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: [2, 3]\nb: 7\n"), &holder))
	assert.Equal(t, Layers(2, 3), holder.A)
	assert.Equal(t, Layers(7), holder.B)

	err := yaml.Unmarshal([]byte("a: [21]\n"), &holder)
	assert.ErrorContains(t, err, "out of range")

	out, err := yaml.Marshal(holder)
	require.NoError(t, err)
	assert.Contains(t, string(out), "a:\n    - 2\n    - 3")
}

func TestObjectsOn(t *testing.T) {
	s := New("Armor").Add(
		&Object{Name: "Main", Type: TypeMesh, Layers: Layers(1)},
		&Object{Name: "Dummy", Type: TypeEmpty, Layers: Layers(1, 2)},
		&Object{Name: "Lamp", Type: TypeLamp, Layers: Layers(1)},
		&Object{Name: "Collision", Type: TypeMesh, Layers: Layers(2), RigidBody: true},
	)

	assert.Equal(t, []string{"Main", "Dummy"}, Names(s.ObjectsOn(Layers(1))))
	assert.Equal(t, []string{"Dummy", "Collision"}, Names(s.ObjectsOn(Layers(2))))
	assert.Empty(t, s.ObjectsOn(Layers(5)))

	// Enumeration is derived, so repeated calls agree.
	assert.Equal(t, s.ObjectsOn(Layers(1, 2)), s.ObjectsOn(Layers(1, 2)))
}

func TestLayerVisibility(t *testing.T) {
	s := New("x")
	s.VisibleLayers = Layers(1, 2)

	assert.True(t, s.SomeLayersVisible(Layers(2, 5)))
	assert.False(t, s.AllLayersVisible(Layers(2, 5)))
	assert.True(t, s.AllLayersVisible(Layers(1, 2)))
	assert.False(t, s.SomeLayersVisible(Layers(9)))
}

func TestBlockBounds(t *testing.T) {
	s := New("x")
	s.Settings.Dimensions = [3]int{1, 2, 3}

	b := s.BlockBounds()
	assert.Equal(t, Vec3{-1.25, -2.5, -3.75}, b.Min)
	assert.Equal(t, Vec3{1.25, 2.5, 3.75}, b.Max)

	s.Settings.BlockSize = SizeSmall
	b = s.BlockBounds()
	assert.InDelta(t, 0.25, b.Max.X, 1e-9)
	assert.InDelta(t, -0.75, b.Min.Z, 1e-9)

	corners := b.Corners()
	assert.Equal(t, b.Min, corners[0])
	assert.Equal(t, b.Max, corners[6])
}

func TestSubtypeID(t *testing.T) {
	s := New("Wood Wall")
	assert.Equal(t, "LargeWood_Wall", s.SubtypeID(SizeLarge))
	assert.Equal(t, "SmallWood_Wall", s.SubtypeID(SizeSmall))

	s.Settings.UseCustomSubtypeIDs = true
	s.Settings.SmallSubtypeID = "LegacyWall"
	assert.Equal(t, "LargeWood_Wall", s.SubtypeID(SizeLarge))
	assert.Equal(t, "LegacyWall", s.SubtypeID(SizeSmall))
}

func TestSizes(t *testing.T) {
	assert.Equal(t, []BlockSize{SizeLarge, SizeSmall}, DefaultSettings().Sizes())
	assert.Equal(t, []BlockSize{SizeLarge}, Settings{BlockSize: SizeLarge}.Sizes())
	assert.Equal(t, []BlockSize{SizeSmall}, Settings{BlockSize: SizeSmall}.Sizes())
}

const manifest = `
name: Armor
settings:
  is_block: true
  block_dimensions: [1, 1, 2]
objects:
  - name: Main
    type: MESH
    layers: [1]
    materials: [Steel]
  - name: MountPoints
    type: MESH
    layers: [3]
    materials: [MountPoint]
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Armor", s.Name)
	assert.True(t, s.Settings.IsBlock)
	assert.Equal(t, SizeScaleDown, s.Settings.BlockSize, "defaults survive partial settings")
	assert.Equal(t, [3]int{1, 1, 2}, s.Settings.Dimensions)
	assert.Equal(t, DefaultExportNodes, s.Settings.ExportNodes)
	assert.Len(t, s.Objects, 2)
	assert.True(t, s.Objects[1].IsMountPoint())
	assert.Equal(t, filepath.Join(dir, "Models"), s.ResolveExportPath())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"missing name", "objects: []\n", "Scene.Name"},
		{"bad size", "name: x\nsettings:\n  block_size: HUGE\n", "BlockSize"},
		{"zero dimension", "name: x\nsettings:\n  block_dimensions: [1, 0, 1]\n", "Dimensions"},
		{"object without type", "name: x\nobjects:\n  - name: a\n", "Type"},
		{"duplicate object", "name: x\nobjects:\n  - {name: a, type: MESH}\n  - {name: a, type: EMPTY}\n", "duplicate object"},
		{"unknown field", "name: x\ncolour: red\n", "colour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc), "test.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	s := New("Roundtrip").Add(&Object{Name: "A", Type: TypeMesh, Layers: Layers(4)})

	require.NoError(t, Save(path, s))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, s.Objects, loaded.Objects)
	assert.Equal(t, s.Settings, loaded.Settings)
}

func TestMaterial(t *testing.T) {
	s := New("x")
	s.Materials = map[string]Material{"Glass": {Technique: TechniqueGlass}, "Leaves": {Technique: TechniqueAlphaMask}}

	assert.Equal(t, "GLASS", s.Material("Glass").BuilderTechnique())
	assert.Equal(t, "ALPHA_MASKED", s.Material("Leaves").BuilderTechnique())
	assert.Equal(t, "MESH", s.Material("Steel").BuilderTechnique())

	s.Materials["Bad"] = Material{Technique: "PLASMA"}
	err := Validate(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Technique")
}
