package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/aretw0/blocksmith/internal/config"
	mermaid "github.com/aretw0/blocksmith/internal/presentation/graph"
	"github.com/aretw0/blocksmith/internal/presentation/tui"
	"github.com/aretw0/blocksmith/pkg/adapters/file"
	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/dsl"
	"github.com/aretw0/blocksmith/pkg/scene"
)

// Init scaffolds a project: config, scene manifest and the default export graph.
// Existing files are kept unless force is set. It returns the files written.
func Init(ctx context.Context, opts Options, force bool) ([]string, error) {
	var written []string

	cfgPath := opts.ConfigFile()
	if force || !exists(cfgPath) {
		if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create project dir: %w", err)
		}
		if err := config.Default().Save(cfgPath); err != nil {
			return nil, err
		}
		written = append(written, cfgPath)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return written, err
	}

	scenePath := cfg.Path(cfg.Scene)
	var sc *scene.Scene
	if force || !exists(scenePath) {
		sc = scene.New(filepath.Base(cfg.Dir))
		if err := scene.Save(scenePath, sc); err != nil {
			return written, err
		}
		written = append(written, scenePath)
	} else if sc, err = scene.Load(scenePath); err != nil {
		return written, err
	}

	graphs := cfg.Path(cfg.Graphs)
	if err := os.MkdirAll(graphs, 0o755); err != nil {
		return written, fmt.Errorf("failed to create graphs dir: %w", err)
	}
	loader := file.New(graphs)
	doc := dsl.DefaultGraph(sc)
	_, err = loader.LoadGraph(ctx, doc.Name)
	switch {
	case err == nil && !force:
		return written, nil
	case err != nil && !errors.Is(err, domain.ErrGraphNotFound):
		return written, err
	}
	if err := loader.SaveGraph(ctx, doc); err != nil {
		return written, err
	}
	path, _ := loader.Path(ctx, doc.Name)
	return append(written, path), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// PrintStatus writes the readiness report of a graph.
// With sockets set it lists every socket instead of the summary table.
func (p *Project) PrintStatus(ctx context.Context, w io.Writer, name string, sockets bool) error {
	st, err := p.Engine.Status(ctx, p.GraphName(name))
	if err != nil {
		return err
	}
	if sockets {
		tui.PrintSockets(w, st)
		return nil
	}
	return render(w, tui.StatusMarkdown(st))
}

// PrintGraph writes the Mermaid diagram of a graph.
func (p *Project) PrintGraph(ctx context.Context, w io.Writer, name string) error {
	g, err := p.Engine.Build(ctx, p.GraphName(name))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, mermaid.GenerateMermaid(g))
	return err
}

// Validate writes the problems of a graph and of the tool setup.
// The returned error lists the graph errors, and its warnings too when strict is set.
func (p *Project) Validate(ctx context.Context, w io.Writer, name string, strict bool) error {
	r, err := p.Engine.Validate(ctx, p.GraphName(name))
	if err != nil {
		return err
	}
	md := tui.ReportMarkdown(r)
	if problems := p.Config.Check(); len(problems) > 0 {
		md += "## Setup\n\n"
		for _, pr := range problems {
			md += fmt.Sprintf("- %s\n", pr)
		}
	}
	if err := render(w, md); err != nil {
		return err
	}
	return r.Err(strict)
}

// Export runs the export of a graph and lists the files it produced.
// With definitionsOnly set only the block definitions are rewritten.
func (p *Project) Export(ctx context.Context, w io.Writer, name string, definitionsOnly bool) (*domain.ExportRecord, error) {
	name = p.GraphName(name)
	export := p.Engine.Export
	if definitionsOnly {
		export = p.Engine.ExportDefinitions
	}
	printSystemMessage(w, "Exporting '%s'...", name)
	rec, err := export(ctx, name)
	if rec != nil {
		for _, a := range rec.Artifacts {
			fmt.Fprintf(w, "  %-4s %s (%s)\n", a.Kind, a.Path, a.Node)
		}
	}
	if err != nil {
		if isInterrupted(err) {
			printSystemMessage(w, "Export of '%s' interrupted.", name)
		}
		return rec, err
	}
	printSystemMessage(w, "Run %s finished in %s.", rec.RunID, rec.FinishedAt.Sub(rec.StartedAt).Round(time.Millisecond))
	return rec, nil
}

// PrintHistory writes the recorded exports of a graph, newest first.
// An empty name lists every graph.
func (p *Project) PrintHistory(ctx context.Context, w io.Writer, name string, limit int) error {
	records, err := p.Engine.History(ctx, name, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		printSystemMessage(w, "No export recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tRUN\tGRAPH\tFILES\tRESULT")
	for _, rec := range records {
		result := "ok"
		if !rec.Succeeded() {
			result = rec.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			rec.StartedAt.Local().Format(time.DateTime), rec.RunID, rec.Graph, len(rec.Artifacts), result)
	}
	return tw.Flush()
}

func render(w io.Writer, md string) error {
	out, err := tui.NewRenderer(w)(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
