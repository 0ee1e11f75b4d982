package schema

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/graph"
	"github.com/aretw0/blocksmith/pkg/nodes"
	"github.com/aretw0/blocksmith/pkg/scene"
)

const armorYAML = `
name: armor
description: Armor block
nodes:
  - name: Main Layer
    kind: LayerObjects
    settings:
      layers: [1]
  - name: Model
    kind: MwmBuilder
    sockets:
      Name: {text: "Armor"}
      LOD[1]: {distance: 25}
  - name: Model.001
    kind: MwmBuilder
    sockets:
      Name: {text: "Armor_LOD"}
  - name: Block
    kind: BlockDefinition
links:
  - from: Main Layer.Objects
    to: Model.Objects
  - from: Main Layer.Objects
    to: Model.001.Objects
  - from: Model.001.Mwm
    to: Model.LOD[1]
  - from: Model.Mwm
    to: Block.Main Model
`

func testScene() *scene.Scene {
	return scene.New("Armor").Add(&scene.Object{Name: "Main", Type: scene.TypeMesh, Layers: scene.Layers(1)})
}

func buildArmor(t *testing.T) *graph.Graph {
	t.Helper()
	doc, err := Parse([]byte(armorYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	g, err := Build(doc, testScene(), nodes.DefaultRegistry())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return g
}

func TestBuild(t *testing.T) {
	g := buildArmor(t)

	if got := len(g.Nodes()); got != 4 {
		t.Fatalf("Nodes() = %d, want 4", got)
	}
	if got := len(g.Links()); got != 4 {
		t.Errorf("Links() = %d, want 4", got)
	}

	model, _ := g.NodeByName("Model")
	out, _ := g.Output(model, "Mwm")
	if got := g.Text(out, nil); got != "Armor" {
		t.Errorf("Text(Model.Mwm) = %q, want Armor", got)
	}

	lod, _ := g.InputAt(model, "LOD", 1)
	s, _ := g.Socket(lod)
	if s.Distance != 25 {
		t.Errorf("LOD[1] distance = %d, want 25", s.Distance)
	}
	if !g.IsLinked(lod) || !s.Enabled {
		t.Errorf("LOD[1] linked = %v enabled = %v, want both", g.IsLinked(lod), s.Enabled)
	}

	block, _ := g.NodeByName("Block")
	if !g.NodeReady(block) {
		t.Error("Block should be ready")
	}
}

func TestFromGraph_RoundTrip(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			first := FromGraph(buildArmor(t))

			data, err := Encode(first, format)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			parsed, err := Parse(data)
			if err != nil {
				t.Fatalf("Parse() error = %v\n%s", err, data)
			}
			g, err := Build(parsed, testScene(), nodes.DefaultRegistry())
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			second := FromGraph(g)

			if !reflect.DeepEqual(linksOf(first), linksOf(second)) {
				t.Errorf("links differ:\n%v\n%v", first.Links, second.Links)
			}
			if got := *second.Nodes[1].Sockets["LOD[1]"].Distance; got != 25 {
				t.Errorf("LOD[1] distance = %d, want 25", got)
			}
			if got := second.Nodes[0].Settings["layers"]; !reflect.DeepEqual(got, []int{1}) {
				t.Errorf("layers = %#v, want [1]", got)
			}
		})
	}
}

func linksOf(doc *domain.GraphDocument) []string {
	var out []string
	for _, l := range doc.Links {
		out = append(out, l.From+" -> "+l.To)
	}
	return out
}

func TestFromGraph_References(t *testing.T) {
	doc := FromGraph(buildArmor(t))
	want := []string{
		"Main Layer.Objects -> Model.Objects",
		"Main Layer.Objects -> Model.001.Objects",
		"Model.001.Mwm -> Model.LOD[1]",
		"Model.Mwm -> Block.Main Model",
	}
	if got := linksOf(doc); !reflect.DeepEqual(got, want) {
		t.Errorf("links = %v, want %v", got, want)
	}
	if doc.Nodes[3].Sockets != nil {
		t.Errorf("Block has no overrides, got %v", doc.Nodes[3].Sockets)
	}
}

func TestValidate(t *testing.T) {
	doc := &domain.GraphDocument{
		Name: "broken",
		Nodes: []domain.NodeSpec{
			{Name: "A", Kind: "MwmBuilder"},
			{Name: "A", Kind: "MwmBuilder"},
			{Name: "B", Kind: ""},
		},
		Links: []domain.LinkSpec{
			{From: "A.Mwm", To: "A.LOD"},
			{From: "B.Mwm", To: "C.LOD"},
			{From: "A.Mwm", To: "B.LOD[1]"},
			{From: "B.Mwm", To: "A.LOD[1]"},
			{From: "B.Mwm", To: "A.LOD[1]"},
		},
	}

	err := Validate(doc)
	errs := ValidationErrors(err)
	if len(errs) != 5 {
		t.Fatalf("Validate() = %d errors, want 5:\n%v", len(errs), err)
	}
	for _, sentinel := range []error{domain.ErrDuplicateNode, domain.ErrSelfLink, domain.ErrUnknownNode} {
		if !errors.Is(err, sentinel) {
			t.Errorf("Validate() should report %v", sentinel)
		}
	}
	if !strings.Contains(err.Error(), "input already linked by links[3]") {
		t.Errorf("fan-in violation missing:\n%v", err)
	}
	if !strings.Contains(err.Error(), "Kind") {
		t.Errorf("missing kind not reported:\n%v", err)
	}
}

func TestBuild_Errors(t *testing.T) {
	reg := nodes.DefaultRegistry()
	tests := []struct {
		name string
		doc  domain.GraphDocument
		want error
	}{
		{
			name: "unknown kind",
			doc:  domain.GraphDocument{Name: "g", Nodes: []domain.NodeSpec{{Name: "T", Kind: "Teleporter"}}},
			want: domain.ErrUnknownKind,
		},
		{
			name: "unknown override",
			doc: domain.GraphDocument{Name: "g", Nodes: []domain.NodeSpec{{
				Name: "M", Kind: "MwmBuilder",
				Sockets: map[string]domain.SocketOverride{"LOD[10]": {}},
			}}},
			want: domain.ErrUnknownSocket,
		},
		{
			name: "unknown link socket",
			doc: domain.GraphDocument{
				Name:  "g",
				Nodes: []domain.NodeSpec{{Name: "M", Kind: "MwmBuilder"}, {Name: "B", Kind: "BlockDefinition"}},
				Links: []domain.LinkSpec{{From: "M.Mwm", To: "B.Constr. Phase[10]"}},
			},
			want: domain.ErrUnknownSocket,
		},
		{
			name: "output used as input",
			doc: domain.GraphDocument{
				Name:  "g",
				Nodes: []domain.NodeSpec{{Name: "M", Kind: "MwmBuilder"}, {Name: "B", Kind: "BlockDefinition"}},
				Links: []domain.LinkSpec{{From: "B.Main Model", To: "M.Name"}},
			},
			want: domain.ErrUnknownSocket,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(&tt.doc, testScene(), reg)
			if !errors.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseRef(t *testing.T) {
	known := map[string]bool{"Stage": true, "Stage.001": true, "Block": true}
	isKnown := func(n string) bool { return known[n] }

	tests := []struct {
		ref     string
		want    SocketRef
		wantErr bool
	}{
		{ref: "Stage.Mwm", want: SocketRef{Node: "Stage", Socket: "Mwm"}},
		{ref: "Stage.001.Mwm", want: SocketRef{Node: "Stage.001", Socket: "Mwm"}},
		{ref: "Block.Constr. Phase[3]", want: SocketRef{Node: "Block", Socket: "Constr. Phase", Index: 3}},
		{ref: "Other.Mwm", wantErr: true},
		{ref: "Stage.LOD[x]", wantErr: true},
		{ref: "Stage.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := ParseRef(tt.ref, isKnown)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseRef(%q) = %v, want error", tt.ref, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRef(%q) error = %v", tt.ref, err)
			}
			if got != tt.want {
				t.Errorf("ParseRef(%q) = %+v, want %+v", tt.ref, got, tt.want)
			}
			if got.String() != tt.ref {
				t.Errorf("String() = %q, want %q", got.String(), tt.ref)
			}
		})
	}
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("name: g\nnodez: []\n"))
	if err == nil {
		t.Fatal("Parse() should reject unknown fields")
	}
}
