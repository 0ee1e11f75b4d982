package scene

// Technique is a material draw technique.
type Technique string

const (
	TechniqueMesh      Technique = "MESH"
	TechniqueGlass     Technique = "GLASS"
	TechniqueAlphaMask Technique = "ALPHAMASK"
	TechniqueDecal     Technique = "DECAL"
	TechniqueFoliage   Technique = "FOLIAGE"
)

// Material holds the export settings of one material.
type Material struct {
	Technique Technique `yaml:"technique" json:"technique" validate:"omitempty,oneof=MESH GLASS ALPHAMASK DECAL FOLIAGE"`

	// Glass materials reference transparent material definitions per face side.
	GlassOutward string `yaml:"glass_outward,omitempty" json:"glass_outward,omitempty"`
	GlassInward  string `yaml:"glass_inward,omitempty" json:"glass_inward,omitempty"`
	GlassSmooth  bool   `yaml:"glass_smooth,omitempty" json:"glass_smooth,omitempty"`
}

// BuilderTechnique is the technique name the model builder expects.
// ALPHAMASK is stored misspelled in existing scenes.
func (m Material) BuilderTechnique() string {
	switch m.Technique {
	case "":
		return string(TechniqueMesh)
	case TechniqueAlphaMask:
		return "ALPHA_MASKED"
	}
	return string(m.Technique)
}
