package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/blocksmith/internal/template"
	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/graph"
	"github.com/aretw0/blocksmith/pkg/nodes"
	"github.com/aretw0/blocksmith/pkg/scene"
	"github.com/aretw0/blocksmith/pkg/schema"
)

// Severity grades an issue. Errors make a graph unusable; warnings flag
// states a host UI would draw as not ready.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Node     string   `json:"node,omitempty"`
	Socket   string   `json:"socket,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	where := i.Node
	if i.Socket != "" {
		where += "." + i.Socket
	}
	if where == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Severity, where, i.Message)
}

// Report lists the issues of one graph.
type Report struct {
	Graph  string  `json:"graph"`
	Issues []Issue `json:"issues"`
}

// Errors returns the error issues.
func (r *Report) Errors() []Issue { return r.filter(SeverityError) }

// Warnings returns the warning issues.
func (r *Report) Warnings() []Issue { return r.filter(SeverityWarning) }

func (r *Report) filter(sev Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == sev {
			out = append(out, i)
		}
	}
	return out
}

// Err summarizes the error issues, or returns nil when there are none.
// Pass strict to treat warnings as errors.
func (r *Report) Err(strict bool) error {
	issues := r.Errors()
	if strict {
		issues = r.Issues
	}
	if len(issues) == 0 {
		return nil
	}
	lines := make([]string, len(issues))
	for i, is := range issues {
		lines[i] = is.String()
	}
	return fmt.Errorf("graph %s: found %d problems:\n- %s", r.Graph, len(issues), strings.Join(lines, "\n- "))
}

func (r *Report) add(sev Severity, node, socket, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: sev, Node: node, Socket: socket, Message: fmt.Sprintf(format, args...)})
}

// ValidateDocument checks a graph document and, when it builds, the resulting graph.
// The built graph is returned for reuse; it is nil when the document has errors.
func ValidateDocument(doc *domain.GraphDocument, sc *scene.Scene, reg *nodes.Registry) (*Report, *graph.Graph) {
	r := &Report{Graph: doc.Name}
	g, err := schema.Build(doc, sc, reg)
	if err != nil {
		errs := schema.ValidationErrors(err)
		if errs == nil {
			errs = []error{err}
		}
		for _, e := range errs {
			var ve *schema.ValidationError
			if errors.As(e, &ve) {
				r.add(SeverityError, "", "", "%s: %s", ve.Key, ve.Reason)
				continue
			}
			r.add(SeverityError, "", "", "%s", e)
		}
		return r, nil
	}
	r.Issues = append(r.Issues, ValidateGraph(g).Issues...)
	return r, g
}

// ValidateGraph inspects a built graph.
func ValidateGraph(g *graph.Graph) *Report {
	r := &Report{Graph: g.Name()}
	for _, id := range g.Nodes() {
		name := g.NodeName(id)
		checkLinks(r, g, id, name)
		checkPins(r, g, id, name)
		if g.IsExporter(id) {
			checkExporter(r, g, id, name)
		}
	}
	return r
}

func checkLinks(r *Report, g *graph.Graph, id graph.NodeID, name string) {
	for _, in := range g.Inputs(id) {
		src, ok := g.FirstSource(in, graph.Match{})
		if !ok {
			continue
		}
		s, _ := g.Socket(in)
		from, _ := g.Socket(src)
		if !g.Compatible(in) {
			r.add(SeverityError, name, g.Key(in), "incompatible link from %s.%s (%s into %s)",
				g.NodeName(from.Node), g.Key(src), from.Kind, s.Kind)
			continue
		}
		if s.Kind.Has(graph.CapObjects) && g.IsEmpty(in) {
			r.add(SeverityWarning, name, g.Key(in), "linked to %s.%s, which selects no objects", g.NodeName(from.Node), g.Key(src))
		}
	}
}

// checkPins flags unlinked pins below a linked one in a numbered pin list.
func checkPins(r *Report, g *graph.Graph, id graph.NodeID, name string) {
	byName := make(map[string][]graph.SocketID)
	var order []string
	for _, in := range g.Inputs(id) {
		s, _ := g.Socket(in)
		if _, seen := byName[s.Name]; !seen {
			order = append(order, s.Name)
		}
		byName[s.Name] = append(byName[s.Name], in)
	}
	for _, pinName := range order {
		pins := byName[pinName]
		if len(pins) < 2 {
			continue
		}
		highest := -1
		for i, p := range pins {
			if g.IsLinked(p) {
				highest = i
			}
		}
		for i := 0; i < highest; i++ {
			if !g.IsLinked(pins[i]) {
				r.add(SeverityWarning, name, g.Key(pins[i]), "unlinked while %s is linked; numbered pins should have no gaps", g.Key(pins[highest]))
			}
		}
	}
}

func checkExporter(r *Report, g *graph.Graph, id graph.NodeID, name string) {
	for _, in := range g.Inputs(id) {
		s, _ := g.Socket(in)
		if !s.Enabled || !s.Kind.Has(graph.CapText) {
			continue
		}
		text := g.Text(in, nil)
		if left := template.Placeholders(text); len(left) > 0 {
			r.add(SeverityWarning, name, g.Key(in), "unresolved placeholders %s in %q", strings.Join(left, ", "), text)
		}
	}
	if !g.NodeReady(id) {
		r.add(SeverityWarning, name, "", "not ready for export")
	}
}
