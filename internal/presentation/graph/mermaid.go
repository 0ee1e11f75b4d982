package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/blocksmith/pkg/graph"
)

// GenerateMermaid produces a Mermaid flowchart of the nodes and links of g.
// It applies semantic styling:
// - Exporter: [[Subroutine]]
// - Object selection: [/Parallelogram/]
// - Text: (Rounded)
// Exporters that are not ready get the notready class. Incompatible links are
// drawn red and links from an empty object selection dashed grey.
func GenerateMermaid(g *graph.Graph) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	var notReady []string
	for _, id := range g.Nodes() {
		safeID := nodeID(id)
		opener, closer := "[", "]"
		switch {
		case g.IsExporter(id):
			opener, closer = "[[", "]]"
			if !g.NodeReady(id) {
				notReady = append(notReady, safeID)
			}
		case outputsHave(g, id, graph.CapObjects):
			opener, closer = "[/", "/]"
		case outputsHave(g, id, graph.CapText):
			opener, closer = "(", ")"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escape(g.NodeName(id)), closer)
	}

	var incompatible, empty []int
	for i, l := range g.Links() {
		from, _ := g.Socket(l.From)
		to, _ := g.Socket(l.To)
		label := escape(g.Key(l.From) + " → " + g.Key(l.To))
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", nodeID(from.Node), label, nodeID(to.Node))
		switch {
		case !g.Compatible(l.To):
			incompatible = append(incompatible, i)
		case to.Kind.Has(graph.CapObjects) && g.IsEmpty(l.To):
			empty = append(empty, i)
		}
	}

	if len(notReady) > 0 {
		sb.WriteString("\n    classDef notready fill:#ffebee,stroke:#c62828,stroke-width:2px,color:#000;\n")
		for _, id := range notReady {
			fmt.Fprintf(&sb, "    class %s notready;\n", id)
		}
	}
	if len(incompatible) > 0 {
		fmt.Fprintf(&sb, "    linkStyle %s stroke:#c62828,stroke-width:2px;\n", join(incompatible))
	}
	if len(empty) > 0 {
		fmt.Fprintf(&sb, "    linkStyle %s stroke:#9e9e9e,stroke-dasharray:4;\n", join(empty))
	}
	return sb.String()
}

func outputsHave(g *graph.Graph, id graph.NodeID, c graph.Capability) bool {
	for _, out := range g.Outputs(id) {
		if s, ok := g.Socket(out); ok && s.Kind.Has(c) {
			return true
		}
	}
	return false
}

// Node names are free text, so nodes are keyed by id.
func nodeID(id graph.NodeID) string {
	return fmt.Sprintf("n%d", id)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func join(idx []int) string {
	parts := make([]string, len(idx))
	for i, n := range idx {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ",")
}
