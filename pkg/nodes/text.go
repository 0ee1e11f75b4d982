package nodes

import "github.com/aretw0/blocksmith/pkg/graph"

// KindTemplateString is a node holding an editable text with parameters.
const KindTemplateString = "TemplateString"

// TemplateString provides a literal text. Its output is set by the graph
// document's socket overrides.
type TemplateString struct{}

func (*TemplateString) Kind() string { return KindTemplateString }

func (*TemplateString) Init(b *graph.Sockets) {
	b.Output(graph.KindTemplateString, "Text")
}
