package export

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/scene"
)

//go:embed havok_options.xml
var havokOptions []byte

// HavokOptions returns the filter manager options document.
// The filter manager substitutes $(assetPath) itself.
func HavokOptions() []byte {
	return append([]byte(nil), havokOptions...)
}

// HavokJob describes one collision model.
type HavokJob struct {
	Node    string
	Name    string
	Objects []*scene.Object
}

// ExportHavok builds the collision file of every block size into the work directory,
// where the model builder picks it up.
func ExportHavok(ctx context.Context, ec *Context, job HavokJob) error {
	if ec.Options.DefinitionsOnly {
		return nil
	}
	if job.Name == "" || len(job.Objects) == 0 {
		return fmt.Errorf("havok %s: %w", job.Node, domain.ErrNotReady)
	}

	for _, size := range ec.Sizes() {
		fbx, err := ec.WorkPath(size, job.Name+".hkt.fbx")
		if err != nil {
			return err
		}
		if err := ec.WriteGeometry(ctx, job.Node, fbx, ec.Scale(size), job.Objects); err != nil {
			return err
		}

		options, err := ec.WorkPath(size, job.Name+".hko")
		if err != nil {
			return err
		}
		if err := os.WriteFile(options, havokOptions, 0o644); err != nil {
			return fmt.Errorf("failed to write havok options: %w", err)
		}
		ec.AddArtifact(job.Node, domain.ArtifactConfig, options)

		hkx, _ := ec.WorkPath(size, job.Name+".hkx")
		if _, err := ec.RunTool(ctx, job.Node, domain.ToolHavokImporter, ec.WorkDir, fbx, hkx); err != nil {
			return err
		}
		if err := expectOutput(job.Node, domain.ToolHavokImporter, hkx); err != nil {
			return err
		}

		hkt, _ := ec.WorkPath(size, job.Name+".hkt")
		if _, err := ec.RunTool(ctx, job.Node, domain.ToolHavokFilter, ec.WorkDir, "-t", "-s", options, "-p", hkt, hkx); err != nil {
			return err
		}
		if err := expectOutput(job.Node, domain.ToolHavokFilter, hkt); err != nil {
			return err
		}
		ec.AddArtifact(job.Node, domain.ArtifactHavok, hkt)
	}
	return nil
}
