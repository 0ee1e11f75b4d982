package scene

// BlockSize selects which block sizes an export produces.
type BlockSize string

const (
	// SizeLarge exports a large block only.
	SizeLarge BlockSize = "LARGE"
	// SizeScaleDown exports a large block and a small block scaled down from it.
	SizeScaleDown BlockSize = "SCALE_DOWN"
	// SizeSmall exports a small block only.
	SizeSmall BlockSize = "SMALL"
)

// Defaults of a new scene.
const (
	DefaultExportNodes = "MwmExportMedieval"
	DefaultExportPath  = "//Models"
)

// Settings are the block properties of a scene.
type Settings struct {
	IsBlock    bool      `yaml:"is_block" json:"is_block"`
	BlockSize  BlockSize `yaml:"block_size" json:"block_size" validate:"oneof=LARGE SCALE_DOWN SMALL"`
	Dimensions [3]int    `yaml:"block_dimensions,flow" json:"block_dimensions" validate:"dive,min=1"`

	UseCustomSubtypeIDs bool   `yaml:"use_custom_subtypeids,omitempty" json:"use_custom_subtypeids,omitempty"`
	LargeSubtypeID      string `yaml:"large_subtypeid,omitempty" json:"large_subtypeid,omitempty"`
	SmallSubtypeID      string `yaml:"small_subtypeid,omitempty" json:"small_subtypeid,omitempty"`

	// ExportNodes names the graph that exports this scene.
	ExportNodes string `yaml:"export_nodes" json:"export_nodes" validate:"required"`
	// ExportPath is the output directory. A leading "//" is relative to the manifest.
	ExportPath string `yaml:"export_path" json:"export_path" validate:"required"`

	// Legacy layer selections seeding the default export graph.
	MainLayers         LayerMask `yaml:"main_layers" json:"main_layers"`
	PhysicsLayers      LayerMask `yaml:"physics_layers" json:"physics_layers"`
	ConstructionLayers LayerMask `yaml:"construction_layers" json:"construction_layers"`
}

// DefaultSettings returns the settings of a freshly created scene.
func DefaultSettings() Settings {
	return Settings{
		BlockSize:          SizeScaleDown,
		Dimensions:         [3]int{1, 1, 1},
		ExportNodes:        DefaultExportNodes,
		ExportPath:         DefaultExportPath,
		MainLayers:         Layers(1),
		PhysicsLayers:      Layers(2),
		ConstructionLayers: Layers(11, 12, 13),
	}
}

// Sizes lists the block sizes exported, large first.
func (s Settings) Sizes() []BlockSize {
	switch s.BlockSize {
	case SizeLarge:
		return []BlockSize{SizeLarge}
	case SizeSmall:
		return []BlockSize{SizeSmall}
	}
	return []BlockSize{SizeLarge, SizeSmall}
}
