package scene

import "strings"

// BlockUnit is the half extent of a large block cell in scene units.
const BlockUnit = 1.25

// SmallBlockScale is the size of a small block relative to a large one.
const SmallBlockScale = 0.2

// Scene is a block scene: its settings and the objects it holds.
type Scene struct {
	Name          string    `yaml:"name" json:"name" validate:"required"`
	Settings      Settings  `yaml:"settings" json:"settings"`
	VisibleLayers LayerMask `yaml:"visible_layers" json:"visible_layers"`
	Objects       []*Object `yaml:"objects" json:"objects" validate:"dive,required"`

	// Materials holds export settings per material name. Unlisted materials are plain meshes.
	Materials map[string]Material `yaml:"materials,omitempty" json:"materials,omitempty" validate:"dive"`

	// Dir is the directory the manifest was read from.
	Dir string `yaml:"-" json:"-"`
}

// New returns an empty scene with default settings and every layer visible.
func New(name string) *Scene {
	return &Scene{Name: name, Settings: DefaultSettings(), VisibleLayers: allLayers}
}

// Add appends objects to the scene.
func (s *Scene) Add(objs ...*Object) *Scene {
	s.Objects = append(s.Objects, objs...)
	return s
}

// Material returns the settings of the named material.
func (s *Scene) Material(name string) Material {
	if m, ok := s.Materials[name]; ok {
		return m
	}
	return Material{Technique: TechniqueMesh}
}

// Object returns the object named name.
func (s *Scene) Object(name string) (*Object, bool) {
	for _, o := range s.Objects {
		if o.Name == name {
			return o, true
		}
	}
	return nil, false
}

// ObjectsOn returns the meshes and empties placed on any layer of mask, in scene order.
func (s *Scene) ObjectsOn(mask LayerMask) []*Object {
	if s == nil {
		return nil
	}
	var out []*Object
	for _, o := range s.Objects {
		if o.IsModelPart() && o.Layers.Intersects(mask) {
			out = append(out, o)
		}
	}
	return out
}

// SomeLayersVisible reports whether any layer of mask is visible.
func (s *Scene) SomeLayersVisible(mask LayerMask) bool {
	return s.VisibleLayers.Intersects(mask)
}

// AllLayersVisible reports whether every layer of mask is visible.
func (s *Scene) AllLayersVisible(mask LayerMask) bool {
	return s.VisibleLayers.Contains(mask)
}

// IsSmallBlock reports whether the scene models a small block.
func (s *Scene) IsSmallBlock() bool {
	return s.Settings.BlockSize == SizeSmall
}

// Vec3 is a point in scene space.
type Vec3 struct {
	X, Y, Z float64
}

// BoundingBox is an axis aligned box.
type BoundingBox struct {
	Min, Max Vec3
}

// Corners returns the eight corners: the four of the -X face, then the four of the +X face.
func (b BoundingBox) Corners() [8]Vec3 {
	lo, hi := b.Min, b.Max
	return [8]Vec3{
		{lo.X, lo.Y, lo.Z}, {lo.X, lo.Y, hi.Z}, {lo.X, hi.Y, hi.Z}, {lo.X, hi.Y, lo.Z},
		{hi.X, lo.Y, lo.Z}, {hi.X, lo.Y, hi.Z}, {hi.X, hi.Y, hi.Z}, {hi.X, hi.Y, lo.Z},
	}
}

// BlockBounds is the box the block occupies, centred on the origin.
func (s *Scene) BlockBounds() BoundingBox {
	d := s.Settings.Dimensions
	for i := range d {
		if d[i] < 1 {
			d[i] = 1
		}
	}
	scale := Vec3{BlockUnit * float64(d[0]), BlockUnit * float64(d[1]), BlockUnit * float64(d[2])}
	if s.IsSmallBlock() {
		scale = Vec3{scale.X * SmallBlockScale, scale.Y * SmallBlockScale, scale.Z * SmallBlockScale}
	}
	return BoundingBox{
		Min: Vec3{-scale.X, -scale.Y, -scale.Z},
		Max: scale,
	}
}

// SubtypeID returns the block subtype id for size.
// Custom ids win when enabled and set; otherwise the id derives from the scene name.
func (s *Scene) SubtypeID(size BlockSize) string {
	if s.Settings.UseCustomSubtypeIDs {
		switch size {
		case SizeLarge:
			if id := strings.TrimSpace(s.Settings.LargeSubtypeID); id != "" {
				return id
			}
		case SizeSmall:
			if id := strings.TrimSpace(s.Settings.SmallSubtypeID); id != "" {
				return id
			}
		}
	}
	base := strings.ReplaceAll(strings.TrimSpace(s.Name), " ", "_")
	if size == SizeSmall {
		return "Small" + base
	}
	return "Large" + base
}
