package export

import (
	"context"
	"strconv"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/scene"
)

// WriteGeometry asks the geometry tool to write objs into an FBX file at path.
func (c *Context) WriteGeometry(ctx context.Context, node, path string, scale float64, objs []*scene.Object) error {
	args := []string{"--output", path, "--scale", strconv.FormatFloat(scale, 'g', -1, 64)}
	args = append(args, scene.Names(objs)...)
	if _, err := c.RunTool(ctx, node, domain.ToolGeometry, c.WorkDir, args...); err != nil {
		return err
	}
	if err := expectOutput(node, domain.ToolGeometry, path); err != nil {
		return err
	}
	c.AddArtifact(node, domain.ArtifactFBX, path)
	return nil
}
