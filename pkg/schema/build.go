package schema

import (
	"fmt"
	"sort"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/graph"
	"github.com/aretw0/blocksmith/pkg/nodes"
	"github.com/aretw0/blocksmith/pkg/scene"
)

// Build validates doc and creates its graph over sc with node kinds from reg.
// Every problem found is returned as an *AggregateError.
func Build(doc *domain.GraphDocument, sc *scene.Scene, reg *nodes.Registry) (*graph.Graph, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}

	g := graph.New(doc.Name, sc)
	var errs []error

	for i, spec := range doc.Nodes {
		key := fmt.Sprintf("nodes[%d]", i)
		n, err := reg.New(spec.Kind, spec.Settings)
		if err != nil {
			errs = append(errs, &ValidationError{Key: key + ".kind", Reason: err.Error(), Value: spec.Kind, Err: err})
			continue
		}
		id, err := g.AddNode(spec.Name, n)
		if err != nil {
			errs = append(errs, &ValidationError{Key: key + ".name", Reason: err.Error(), Value: spec.Name, Err: err})
			continue
		}
		errs = append(errs, applyOverrides(g, id, key, spec.Sockets)...)
	}
	if len(errs) > 0 {
		return nil, aggregate(errs)
	}

	known := func(name string) bool { _, ok := g.NodeByName(name); return ok }
	for i, l := range doc.Links {
		key := fmt.Sprintf("links[%d]", i)
		from, err := resolve(g, l.From, known, graph.Out)
		if err != nil {
			errs = append(errs, &ValidationError{Key: key + ".from", Reason: err.Error(), Value: l.From, Err: domain.ErrUnknownSocket})
			continue
		}
		to, err := resolve(g, l.To, known, graph.In)
		if err != nil {
			errs = append(errs, &ValidationError{Key: key + ".to", Reason: err.Error(), Value: l.To, Err: domain.ErrUnknownSocket})
			continue
		}
		if _, err := g.Link(from, to); err != nil {
			errs = append(errs, &ValidationError{Key: key, Reason: err.Error(), Err: err})
		}
	}
	if len(errs) > 0 {
		return nil, aggregate(errs)
	}
	return g, nil
}

func applyOverrides(g *graph.Graph, node graph.NodeID, key string, overrides map[string]domain.SocketOverride) []error {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, k := range keys {
		path := fmt.Sprintf("%s.sockets[%s]", key, k)
		name, index, err := ParseSocketKey(k)
		if err != nil {
			errs = append(errs, &ValidationError{Key: path, Reason: err.Error()})
			continue
		}
		id, ok := g.InputAt(node, name, index)
		if !ok {
			id, ok = g.OutputAt(node, name, index)
		}
		if !ok {
			errs = append(errs, &ValidationError{Key: path, Reason: "no such socket", Value: k, Err: domain.ErrUnknownSocket})
			continue
		}
		s, _ := g.Socket(id)
		ov := overrides[k]
		if ov.Text != nil {
			s.Text = *ov.Text
		}
		if ov.Distance != nil {
			s.Distance = *ov.Distance
		}
	}
	return errs
}

func resolve(g *graph.Graph, ref string, known func(string) bool, dir graph.Direction) (graph.SocketID, error) {
	r, err := ParseRef(ref, known)
	if err != nil {
		return 0, err
	}
	node, _ := g.NodeByName(r.Node)
	var id graph.SocketID
	var ok bool
	if dir == graph.Out {
		id, ok = g.OutputAt(node, r.Socket, r.Index)
	} else {
		id, ok = g.InputAt(node, r.Socket, r.Index)
	}
	if !ok {
		return 0, fmt.Errorf("node %s has no %s socket %s", r.Node, dir, SocketKey(r.Socket, r.Index))
	}
	return id, nil
}

// FromGraph captures a graph as a document. Socket values equal to their
// defaults are left out.
func FromGraph(g *graph.Graph) *domain.GraphDocument {
	doc := &domain.GraphDocument{Name: g.Name()}

	for _, id := range g.Nodes() {
		impl, name, _ := g.Node(id)
		spec := domain.NodeSpec{Name: name, Kind: impl.Kind()}
		if c, ok := impl.(nodes.Configurable); ok {
			spec.Settings = c.Settings()
		}
		for _, sid := range append(g.Inputs(id), g.Outputs(id)...) {
			s, _ := g.Socket(sid)
			var ov domain.SocketOverride
			if s.Text != "" {
				text := s.Text
				ov.Text = &text
			}
			if s.Kind == graph.KindLodInput && s.Distance != graph.DefaultLodDistance {
				distance := s.Distance
				ov.Distance = &distance
			}
			if ov.Text == nil && ov.Distance == nil {
				continue
			}
			if spec.Sockets == nil {
				spec.Sockets = make(map[string]domain.SocketOverride)
			}
			spec.Sockets[SocketKey(s.Name, g.Ordinal(sid))] = ov
		}
		doc.Nodes = append(doc.Nodes, spec)
	}

	for _, l := range g.Links() {
		doc.Links = append(doc.Links, domain.LinkSpec{From: refOf(g, l.From), To: refOf(g, l.To)})
	}
	return doc
}

func refOf(g *graph.Graph, id graph.SocketID) string {
	s, _ := g.Socket(id)
	return SocketRef{Node: g.NodeName(s.Node), Socket: s.Name, Index: g.Ordinal(id)}.String()
}
