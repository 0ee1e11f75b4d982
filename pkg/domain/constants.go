package domain

// Names of the external tools an export may invoke.
// They are the keys of the tool registry in blocksmith.yaml.
const (
	// ToolGeometry writes the intermediate FBX file for a set of scene objects.
	ToolGeometry = "fbx"
	// ToolHavokImporter converts an FBX file into a Havok scene.
	ToolHavokImporter = "havok-fbx-importer"
	// ToolHavokFilter runs the Havok filter pipeline that produces the .hkt collision file.
	ToolHavokFilter = "havok-filter-manager"
	// ToolMwmBuilder builds the game model (.mwm) from an FBX file and its XML configuration.
	ToolMwmBuilder = "mwmbuilder"
)

// Artifact kinds. FBX and config artifacts are intermediate files left in the work directory.
const (
	ArtifactFBX        = "fbx"
	ArtifactHavok      = "hkt"
	ArtifactModel      = "mwm"
	ArtifactConfig     = "xml"
	ArtifactDefinition = "sbc"
)
