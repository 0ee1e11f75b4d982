package graph

import (
	"context"
	"strconv"

	"github.com/aretw0/blocksmith/internal/template"
	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/export"
	"github.com/aretw0/blocksmith/pkg/scene"
)

// maxDepth bounds upstream walks so that a cyclic graph resolves to absent values.
const maxDepth = 64

// Match filters the counterpart sockets of a link. Zero fields match anything.
type Match struct {
	Name string
	Cap  Capability
}

func (m Match) matches(s *Socket) bool {
	return (m.Name == "" || s.Name == m.Name) && (m.Cap == 0 || s.Kind.Has(m.Cap))
}

// FirstSource returns the output feeding an input, if it matches m.
// Outputs have no source.
func (g *Graph) FirstSource(id SocketID, m Match) (SocketID, bool) {
	s := g.mustSocket(id)
	if s == nil || s.IsOutput() || s.link == 0 {
		return 0, false
	}
	src := g.sockets[g.links[s.link].From]
	if !m.matches(src) {
		return 0, false
	}
	return src.ID, true
}

// FirstSink returns the first input fed by an output that matches m.
// Inputs have no sink.
func (g *Graph) FirstSink(id SocketID, m Match) (SocketID, bool) {
	s := g.mustSocket(id)
	if s == nil || !s.IsOutput() {
		return 0, false
	}
	for _, lid := range s.links {
		dst := g.sockets[g.links[lid].To]
		if m.matches(dst) {
			return dst.ID, true
		}
	}
	return 0, false
}

// Compatible reports whether the socket's source, if any, is something it accepts.
// Host UIs draw incompatible sockets as errors.
func (g *Graph) Compatible(id SocketID) bool {
	s := g.mustSocket(id)
	if s == nil {
		return false
	}
	src, ok := g.FirstSource(id, Match{})
	return !ok || s.Kind.Accepts(g.sockets[src].Kind)
}

// Text resolves a text socket. The template comes from, first match wins:
// a linked compatible text source, the sibling input named by NodeInput,
// the node property named by NodeProperty, the socket's literal Text.
// It is filled with the parameters of the node's other inputs and then params.
// Unknown placeholders are left in place. A disabled socket yields "".
func (g *Graph) Text(id SocketID, params map[string]string) string {
	return g.text(id, params, 0)
}

func (g *Graph) text(id SocketID, params map[string]string, depth int) string {
	s := g.mustSocket(id)
	if s == nil || !s.Enabled || !s.Kind.Has(CapText) || depth > maxDepth {
		return ""
	}

	tmpl, found := "", false
	if src, ok := g.FirstSource(id, Match{Cap: CapText}); ok && s.Kind.Accepts(g.sockets[src].Kind) {
		tmpl, found = g.text(src, params, depth+1), true
	}
	if !found && s.NodeInput != "" {
		if in, ok := g.Input(s.Node, s.NodeInput); ok && in != id && g.sockets[in].Kind.Has(CapText) {
			tmpl, found = g.text(in, params, depth+1), true
		}
	}
	if !found && s.NodeProperty != "" {
		tmpl, found = g.Property(s.Node, s.NodeProperty)
	}
	if !found {
		tmpl = s.Text
	}

	merged := g.siblingParams(id, depth)
	for k, v := range params {
		merged[k] = v
	}
	return template.SafeSubstitute(tmpl, merged)
}

func (g *Graph) siblingParams(id SocketID, depth int) map[string]string {
	out := make(map[string]string)
	s := g.mustSocket(id)
	for _, in := range g.Inputs(s.Node) {
		if in == id || !g.sockets[in].Kind.Has(CapParams) {
			continue
		}
		for k, v := range g.params(in, depth+1) {
			out[k] = v
		}
	}
	return out
}

// Property returns a node property: the node's own via PropertyProvider,
// then the built-ins "name" and "kind".
func (g *Graph) Property(node NodeID, name string) (string, bool) {
	e, ok := g.nodes[node]
	if !ok {
		return "", false
	}
	if p, ok := e.impl.(PropertyProvider); ok {
		if v, ok := p.Property(name); ok {
			return v, true
		}
	}
	switch name {
	case "name":
		return e.name, true
	case "kind":
		return e.impl.Kind(), true
	}
	return "", false
}

// Params returns the substitution parameters a socket contributes.
// Object sockets contribute {"n": N} when their ordinal is positive.
func (g *Graph) Params(id SocketID) map[string]string {
	return g.params(id, 0)
}

func (g *Graph) params(id SocketID, depth int) map[string]string {
	s := g.mustSocket(id)
	if s == nil || !s.Kind.Has(CapParams) {
		return nil
	}
	if n := g.ordinal(id, depth); n > 0 {
		return map[string]string{"n": strconv.Itoa(n)}
	}
	return nil
}

// N resolves the ordinal of an object socket: the upstream object socket's, else its own.
func (g *Graph) N(id SocketID) int {
	return g.ordinal(id, 0)
}

func (g *Graph) ordinal(id SocketID, depth int) int {
	s := g.mustSocket(id)
	if s == nil {
		return -1
	}
	if depth <= maxDepth {
		if src, ok := g.FirstSource(id, Match{Cap: CapObjects}); ok {
			return g.ordinal(src, depth+1)
		}
	}
	return s.N
}

// Objects enumerates the scene objects of an object socket.
// Outputs ask their node, linked inputs ask their source, everything else yields none.
// RigidBodyObjects keeps only rigid bodies, MountPointObjects only mount point objects.
func (g *Graph) Objects(id SocketID) []*scene.Object {
	return g.objects(id, 0)
}

func (g *Graph) objects(id SocketID, depth int) []*scene.Object {
	s := g.mustSocket(id)
	if s == nil || !s.Enabled || !s.Kind.Has(CapObjects) || depth > maxDepth {
		return nil
	}

	var objs []*scene.Object
	switch {
	case s.IsOutput():
		if p, ok := g.nodes[s.Node].impl.(ObjectProvider); ok {
			objs = p.Objects(g, id)
		}
	case s.link != 0:
		src := g.sockets[g.links[s.link].From]
		if src.Kind.Has(CapObjects) {
			objs = g.objects(src.ID, depth+1)
		}
	}
	return filterObjects(s.Kind, objs)
}

func filterObjects(kind SocketKind, objs []*scene.Object) []*scene.Object {
	var keep func(*scene.Object) bool
	switch kind {
	case KindRigidBodyObjects:
		keep = func(o *scene.Object) bool { return o.RigidBody }
	case KindMountPointObjects:
		keep = (*scene.Object).IsMountPoint
	default:
		return objs
	}
	var out []*scene.Object
	for _, o := range objs {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// IsEmpty reports whether an object socket yields no objects.
func (g *Graph) IsEmpty(id SocketID) bool {
	return len(g.Objects(id)) == 0
}

// IsReady reports socket readiness. An unlinked input is ready; an input linked
// to a source it does not accept is not. A file input is as ready as its source,
// and a file output as ready as its node.
func (g *Graph) IsReady(id SocketID) bool {
	return g.ready(id, 0)
}

func (g *Graph) ready(id SocketID, depth int) bool {
	s := g.mustSocket(id)
	if s == nil || depth > maxDepth {
		return false
	}
	isFile := s.Kind.Has(CapExport)

	if s.IsOutput() {
		if isFile {
			return g.nodeReady(s.Node, depth+1)
		}
		return true
	}

	src, linked := g.FirstSource(id, Match{})
	if !linked {
		return true
	}
	if !s.Kind.Accepts(g.sockets[src].Kind) {
		return false
	}
	if isFile && g.sockets[src].Kind.Has(CapReady) {
		return g.ready(src, depth+1)
	}
	return true
}

// NodeReady reports node readiness. Nodes without a ReadinessCheck are always ready.
func (g *Graph) NodeReady(id NodeID) bool {
	return g.nodeReady(id, 0)
}

func (g *Graph) nodeReady(id NodeID, depth int) bool {
	e, ok := g.nodes[id]
	if !ok || depth > maxDepth {
		return false
	}
	rc, ok := e.impl.(ReadinessCheck)
	if !ok {
		return true
	}
	return rc.Ready(g, id)
}

// IsExporter reports whether a node implements Exporter.
func (g *Graph) IsExporter(id NodeID) bool {
	e, ok := g.nodes[id]
	if !ok {
		return false
	}
	_, ok = e.impl.(Exporter)
	return ok
}

// Export runs the export behind a socket. An output exports its node, which must be an
// Exporter (domain.ErrNotExporter otherwise). An input exports its linked source
// (domain.ErrNotLinked when there is none). Nodes are exported once per ec.
func (g *Graph) Export(ctx context.Context, id SocketID, ec *export.Context) (string, error) {
	s := g.mustSocket(id)
	if s == nil {
		return "", domain.ErrUnknownSocket
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if !s.IsOutput() {
		src, ok := g.FirstSource(id, Match{Cap: CapExport})
		if !ok {
			return "", g.socketError("export", s, domain.ErrNotLinked)
		}
		return g.Export(ctx, src, ec)
	}

	return g.exportNode(ctx, g.nodes[s.Node], s, ec)
}

// ExportNode exports a node directly, as a caller sequencing a whole graph does.
func (g *Graph) ExportNode(ctx context.Context, id NodeID, ec *export.Context) (string, error) {
	e, ok := g.nodes[id]
	if !ok {
		return "", domain.ErrUnknownNode
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var via *Socket
	if len(e.outputs) > 0 {
		via = g.sockets[e.outputs[0]]
	}
	return g.exportNode(ctx, e, via, ec)
}

func (g *Graph) exportNode(ctx context.Context, e *nodeEntry, via *Socket, ec *export.Context) (string, error) {
	exp, ok := e.impl.(Exporter)
	if !ok {
		if via != nil {
			return "", g.socketError("export", via, domain.ErrNotExporter)
		}
		return "", &SocketError{Op: "export", Node: e.name, Err: domain.ErrNotExporter}
	}
	if ec == nil {
		return exp.Export(ctx, g, e.id, nil)
	}
	return ec.Once(ctx, e.name, e.impl.Kind(), func(ctx context.Context) (string, error) {
		return exp.Export(ctx, g, e.id, ec)
	})
}
