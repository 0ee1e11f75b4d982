package scene

import "slices"

// ObjectType is the host's object type. Only meshes and empties take part in models.
type ObjectType string

const (
	TypeMesh  ObjectType = "MESH"
	TypeEmpty ObjectType = "EMPTY"
	TypeLamp  ObjectType = "LAMP"
	TypeCurve ObjectType = "CURVE"
)

// MountPointMaterial marks the objects that describe a block's mount points.
const MountPointMaterial = "MountPoint"

// Object is a single exported scene object.
type Object struct {
	Name      string     `yaml:"name" json:"name" validate:"required"`
	Type      ObjectType `yaml:"type" json:"type" validate:"required"`
	Layers    LayerMask  `yaml:"layers" json:"layers"`
	RigidBody bool       `yaml:"rigid_body,omitempty" json:"rigid_body,omitempty"`
	Materials []string   `yaml:"materials,omitempty" json:"materials,omitempty"`

	// File links an empty to another model by base name (no .mwm extension).
	File string `yaml:"file,omitempty" json:"file,omitempty"`
	// Highlight names the mesh highlighted instead of this interaction handle.
	Highlight string `yaml:"highlight,omitempty" json:"highlight,omitempty"`
	// ScaleDown scales the empty when a small block is derived from a large one.
	ScaleDown bool `yaml:"scale_down,omitempty" json:"scale_down,omitempty"`
}

// IsModelPart reports whether the object can be part of a model (a mesh or an empty).
func (o *Object) IsModelPart() bool {
	return o.Type == TypeMesh || o.Type == TypeEmpty
}

// HasMaterial reports whether one of the object's material slots is named name.
func (o *Object) HasMaterial(name string) bool {
	return slices.Contains(o.Materials, name)
}

// IsMountPoint reports whether the object carries the mount point material.
func (o *Object) IsMountPoint() bool {
	return o.HasMaterial(MountPointMaterial)
}

// Names returns the names of objs in order.
func Names(objs []*Object) []string {
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		out = append(out, o.Name)
	}
	return out
}
