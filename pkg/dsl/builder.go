package dsl

import (
	"fmt"
	"strings"

	"github.com/aretw0/blocksmith/pkg/adapters/memory"
	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/nodes"
	"github.com/aretw0/blocksmith/pkg/scene"
	"github.com/aretw0/blocksmith/pkg/schema"
)

// Builder manages the graph construction.
type Builder struct {
	name        string
	description string
	order       []string
	nodes       map[string]*NodeBuilder
	links       []domain.LinkSpec
}

// New creates a new graph builder.
func New(name string) *Builder {
	return &Builder{
		name:  name,
		nodes: make(map[string]*NodeBuilder),
	}
}

// Describe sets the document description.
func (b *Builder) Describe(text string) *Builder {
	b.description = text
	return b
}

// Add creates a new node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(name, kind string) *NodeBuilder {
	if nb, ok := b.nodes[name]; ok {
		return nb
	}
	nb := &NodeBuilder{
		spec:    domain.NodeSpec{Name: name, Kind: kind},
		builder: b,
	}
	b.nodes[name] = nb
	b.order = append(b.order, name)
	return nb
}

// Document returns the graph document, nodes in insertion order.
func (b *Builder) Document() *domain.GraphDocument {
	doc := &domain.GraphDocument{Name: b.name, Description: b.description}
	for _, name := range b.order {
		doc.Nodes = append(doc.Nodes, b.nodes[name].spec)
	}
	doc.Links = append(doc.Links, b.links...)
	return doc.Clone()
}

// Build validates the document and compiles it into a MemoryLoader.
func (b *Builder) Build() (*memory.Loader, error) {
	doc := b.Document()
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid graph %s: %w", b.name, err)
	}

	loader, err := memory.NewLoader(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}

// DefaultGraph is the layout new scenes start with: a model from the main layers,
// a collision model from the physics layers, one construction stage model per
// construction layer and a block definition tying them together.
func DefaultGraph(sc *scene.Scene) *domain.GraphDocument {
	set := sc.Settings
	name := set.ExportNodes
	if name == "" {
		name = scene.DefaultExportNodes
	}
	b := New(name).Describe("Default block export layout")
	block := strings.ReplaceAll(strings.TrimSpace(sc.Name), " ", "_")

	b.Add("Main Layers", nodes.KindLayerObjects).
		Layers(set.MainLayers.Numbers()...).
		Link("Objects", "Model.Objects")
	b.Add("Physics Layers", nodes.KindLayerObjects).
		Layers(set.PhysicsLayers.Numbers()...).
		Link("Objects", "Collision.Objects")
	b.Add("Mount Point Layers", nodes.KindLayerObjects).
		Layers(set.MainLayers.Numbers()...).
		Link("Objects", "Block.Mount Points")

	b.Add("Block Name", nodes.KindTemplateString).
		Text("Text", block).
		Link("Text", "Model.Name").
		Link("Text", "Collision.Name")

	b.Add("Collision", nodes.KindHavokConverter).
		Link("Havok", "Model.Havok")
	b.Add("Model", nodes.KindMwmBuilder).
		Link("Mwm", "Block.Main Model")

	constr := set.ConstructionLayers.Indexes()
	if len(constr) > 0 {
		stages := b.Add("Construction Layers", nodes.KindSeparateLayerObjects).
			Layers(set.ConstructionLayers.Numbers()...)
		stageName := b.Add("Stage Name", nodes.KindTemplateString).
			Text("Text", block+"_Constr${n}")
		for i, layer := range constr {
			node := fmt.Sprintf("Stage %d", i+1)
			stages.Link(nodes.LayerOutput(layer), node+".Objects")
			stageName.Link("Text", node+".Name")
			b.Add(node, nodes.KindMwmBuilder).
				Link("Mwm", fmt.Sprintf("Block.%s", schema.SocketKey("Constr. Phase", i)))
		}
	}

	b.Add("Block", nodes.KindBlockDefinition)
	return b.Document()
}
