package export

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/scene"
)

// LOD is a lower detail model shown from Distance on.
type LOD struct {
	Distance int
	Model    string
}

// ModelJob describes one game model.
type ModelJob struct {
	Node    string
	Name    string
	Objects []*scene.Object
	// Havok names the collision model built for this model, if any.
	Havok string
	LODs  []LOD
}

// ModelConfig is the model builder's per-model configuration document.
type ModelConfig struct {
	XMLName    xml.Name         `xml:"Model"`
	Name       string           `xml:"Name,attr"`
	Parameters []ModelParameter `xml:"Parameter"`
	Materials  []ModelMaterial  `xml:"Material"`
	LODs       []ModelLOD       `xml:"LOD"`
}

// ModelParameter is a named builder parameter.
type ModelParameter struct {
	Name  string `xml:"Name,attr"`
	Value string `xml:",chardata"`
}

// ModelMaterial configures one material of the model.
type ModelMaterial struct {
	Name       string           `xml:"Name,attr"`
	Parameters []ModelParameter `xml:"Parameter"`
}

// ModelLOD references a lower detail model.
type ModelLOD struct {
	Distance int    `xml:"Distance,attr"`
	Model    string `xml:"Model"`
}

// NewModelConfig builds the configuration of job at the given scale.
func NewModelConfig(sc *scene.Scene, job ModelJob, scale float64) ModelConfig {
	cfg := ModelConfig{
		Name: job.Name,
		Parameters: []ModelParameter{
			{Name: "RescaleFactor", Value: strconv.FormatFloat(scale, 'f', -1, 64)},
			{Name: "Centered", Value: "false"},
			{Name: "SpecularPower", Value: "10"},
			{Name: "SpecularShininess", Value: "0.3"},
		},
	}
	if job.Havok != "" {
		cfg.Parameters = append(cfg.Parameters, ModelParameter{Name: "HavokFile", Value: job.Havok + ".hkt"})
	}

	seen := make(map[string]bool)
	for _, o := range job.Objects {
		for _, name := range o.Materials {
			if seen[name] || name == scene.MountPointMaterial {
				continue
			}
			seen[name] = true
			cfg.Materials = append(cfg.Materials, newModelMaterial(name, sc.Material(name)))
		}
	}

	for _, lod := range job.LODs {
		cfg.LODs = append(cfg.LODs, ModelLOD{Distance: lod.Distance, Model: lod.Model})
	}
	return cfg
}

func newModelMaterial(name string, m scene.Material) ModelMaterial {
	mm := ModelMaterial{
		Name:       name,
		Parameters: []ModelParameter{{Name: "Technique", Value: m.BuilderTechnique()}},
	}
	if m.Technique == scene.TechniqueGlass {
		mm.Parameters = append(mm.Parameters,
			ModelParameter{Name: "GlassMaterialCCW", Value: m.GlassOutward},
			ModelParameter{Name: "GlassMaterialCW", Value: m.GlassInward},
			ModelParameter{Name: "GlassSmooth", Value: strconv.FormatBool(m.GlassSmooth)},
		)
	}
	return mm
}

// Encode renders the document with an XML header.
func (c ModelConfig) Encode() ([]byte, error) {
	out, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// ExportModel builds the game model of every block size.
func ExportModel(ctx context.Context, ec *Context, job ModelJob) error {
	if ec.Options.DefinitionsOnly {
		return nil
	}
	if job.Name == "" || len(job.Objects) == 0 {
		return fmt.Errorf("model %s: %w", job.Node, domain.ErrNotReady)
	}

	for _, size := range ec.Sizes() {
		if err := exportModelSize(ctx, ec, job, size); err != nil {
			return err
		}
	}
	return nil
}

func exportModelSize(ctx context.Context, ec *Context, job ModelJob, size scene.BlockSize) error {
	scale := ec.Scale(size)

	fbx, err := ec.WorkPath(size, job.Name+".fbx")
	if err != nil {
		return err
	}
	if err := ec.WriteGeometry(ctx, job.Node, fbx, scale, job.Objects); err != nil {
		return err
	}

	doc, err := NewModelConfig(ec.Scene, job, scale).Encode()
	if err != nil {
		return fmt.Errorf("failed to encode model config: %w", err)
	}
	cfg, _ := ec.WorkPath(size, job.Name+".xml")
	if err := os.WriteFile(cfg, doc, 0o644); err != nil {
		return fmt.Errorf("failed to write model config: %w", err)
	}
	ec.AddArtifact(job.Node, domain.ArtifactConfig, cfg)

	mwm, err := ec.OutputPath(size, job.Name+".mwm")
	if err != nil {
		return err
	}
	srcDir := filepath.Dir(fbx)
	args := []string{"/s:" + srcDir, "/m:" + job.Name + ".fbx", "/o:" + filepath.Dir(mwm)}
	if ec.Options.MaterialRef != "" {
		args = append(args, "/x:"+ec.Options.MaterialRef)
	}
	if _, err := ec.RunTool(ctx, job.Node, domain.ToolMwmBuilder, srcDir, args...); err != nil {
		return err
	}

	if ec.Options.FixDirBug {
		recoverMisplaced(filepath.Join(srcDir, job.Name+".mwm"), mwm)
	}
	if err := expectOutput(job.Node, domain.ToolMwmBuilder, mwm); err != nil {
		return err
	}
	ec.AddArtifact(job.Node, domain.ArtifactModel, mwm)
	return nil
}

// recoverMisplaced moves a model written into the source directory to where it belongs.
func recoverMisplaced(misplaced, want string) {
	if _, err := os.Stat(want); err == nil {
		return
	}
	if _, err := os.Stat(misplaced); err != nil {
		return
	}
	_ = os.Rename(misplaced, want)
}
