package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/blocksmith/pkg/adapters/file"
)

// WatchStatus prints the status of a graph, then reprints it whenever the
// graph documents or the scene manifest change. It returns when ctx is done.
func (p *Project) WatchStatus(ctx context.Context, w io.Writer, name string, sockets bool) error {
	graphCh, err := p.Engine.Watch(ctx)
	if err != nil {
		return err
	}

	// A single-document loader watches exactly that file.
	sceneCh, err := file.New(p.ScenePath()).Watch(ctx)
	if err != nil {
		p.Logger.Warn("Scene manifest not watched", "path", p.ScenePath(), "err", err)
		sceneCh = nil
	}

	p.Logger.Info("Starting Watcher", "path", p.Config.Path(p.Config.Graphs), "graph", p.GraphName(name))
	p.reprint(ctx, w, name, sockets)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-graphCh:
			if !ok {
				return nil
			}
			printSystemMessage(w, "Change detected in graphs.")
		case _, ok := <-sceneCh:
			if !ok {
				sceneCh = nil
				continue
			}
			sc, err := p.LoadScene()
			if err != nil {
				p.Logger.Error("Scene reload failed", "err", err)
				printSystemMessage(w, "Scene manifest is invalid, keeping the previous one.")
				continue
			}
			p.Engine.SetScene(sc)
			printSystemMessage(w, "Change detected in '%s'.", p.ScenePath())
		}
		p.reprint(ctx, w, name, sockets)
	}
}

func (p *Project) reprint(ctx context.Context, w io.Writer, name string, sockets bool) {
	if err := p.PrintStatus(ctx, w, name, sockets); err != nil {
		p.Logger.Error("Status failed", "err", err)
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	printSystemMessage(w, "Waiting for changes...")
}
