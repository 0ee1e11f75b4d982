package graph

import (
	"fmt"
	"slices"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/scene"
)

type nodeEntry struct {
	id      NodeID
	name    string
	impl    Node
	inputs  []SocketID
	outputs []SocketID
}

// Graph is the owning container of nodes, sockets and links.
// It is not safe for concurrent mutation.
type Graph struct {
	name  string
	scene *scene.Scene

	nodes   map[NodeID]*nodeEntry
	order   []NodeID
	sockets map[SocketID]*Socket
	links   map[LinkID]*Link

	lastNode   NodeID
	lastSocket SocketID
	lastLink   LinkID
	version    uint64
}

// New creates an empty graph evaluated against sc.
func New(name string, sc *scene.Scene) *Graph {
	return &Graph{
		name:    name,
		scene:   sc,
		nodes:   make(map[NodeID]*nodeEntry),
		sockets: make(map[SocketID]*Socket),
		links:   make(map[LinkID]*Link),
	}
}

// Name is the graph name.
func (g *Graph) Name() string { return g.name }

// Scene is the scene object enumeration draws from.
func (g *Graph) Scene() *scene.Scene { return g.scene }

// SetScene swaps the scene. Values are pulled, so nothing needs recomputing.
func (g *Graph) SetScene(sc *scene.Scene) {
	g.scene = sc
	g.version++
}

// Version is bumped by every edit.
func (g *Graph) Version() uint64 { return g.version }

// AddNode adds n under name, runs its Init and creates the declared sockets.
// An empty name is replaced by the kind, suffixed until unique.
func (g *Graph) AddNode(name string, n Node) (NodeID, error) {
	if name == "" {
		name = g.uniqueName(n.Kind())
	}
	if _, ok := g.NodeByName(name); ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrDuplicateNode, name)
	}

	g.lastNode++
	e := &nodeEntry{id: g.lastNode, name: name, impl: n}

	var b Sockets
	n.Init(&b)
	for _, s := range b.inputs {
		e.inputs = append(e.inputs, g.addSocket(e.id, s))
	}
	for _, s := range b.outputs {
		e.outputs = append(e.outputs, g.addSocket(e.id, s))
	}

	g.nodes[e.id] = e
	g.order = append(g.order, e.id)
	g.version++
	g.notify(e.id)
	return e.id, nil
}

func (g *Graph) addSocket(node NodeID, s *Socket) SocketID {
	g.lastSocket++
	s.ID = g.lastSocket
	s.Node = node
	s.link = 0
	s.links = nil
	g.sockets[s.ID] = s
	return s.ID
}

func (g *Graph) uniqueName(base string) string {
	if _, taken := g.NodeByName(base); !taken {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s.%03d", base, i)
		if _, taken := g.NodeByName(name); !taken {
			return name
		}
	}
}

// RemoveNode deletes a node with its sockets and links.
func (g *Graph) RemoveNode(id NodeID) error {
	e, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", domain.ErrUnknownNode, id)
	}

	affected := map[NodeID]bool{}
	for _, sid := range g.socketsOf(e) {
		for _, lid := range g.LinksOf(sid) {
			l := g.links[lid]
			affected[g.sockets[l.From].Node] = true
			affected[g.sockets[l.To].Node] = true
			g.detach(l)
		}
	}
	for _, sid := range g.socketsOf(e) {
		delete(g.sockets, sid)
	}
	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(n NodeID) bool { return n == id })
	g.version++

	delete(affected, id)
	for _, n := range g.order {
		if affected[n] {
			g.notify(n)
		}
	}
	return nil
}

func (g *Graph) socketsOf(e *nodeEntry) []SocketID {
	return append(append([]SocketID(nil), e.inputs...), e.outputs...)
}

// Link connects an output to an input of another node.
// Linking into an input that already has a link replaces that link.
// Compatibility is not checked; an incompatible link resolves to a not ready state.
func (g *Graph) Link(from, to SocketID) (LinkID, error) {
	src, ok := g.sockets[from]
	if !ok {
		return 0, fmt.Errorf("%w: %d", domain.ErrUnknownSocket, from)
	}
	dst, ok := g.sockets[to]
	if !ok {
		return 0, fmt.Errorf("%w: %d", domain.ErrUnknownSocket, to)
	}
	if !src.IsOutput() || dst.IsOutput() {
		return 0, g.socketError("link", dst, domain.ErrDirection)
	}
	if src.Node == dst.Node {
		return 0, g.socketError("link", dst, domain.ErrSelfLink)
	}

	affected := []NodeID{src.Node, dst.Node}
	if dst.link != 0 {
		old := g.links[dst.link]
		affected = append(affected, g.sockets[old.From].Node)
		g.detach(old)
	}

	g.lastLink++
	l := &Link{ID: g.lastLink, From: from, To: to}
	g.links[l.ID] = l
	src.links = append(src.links, l.ID)
	dst.link = l.ID
	g.version++

	g.notifyAll(affected)
	return l.ID, nil
}

// Unlink removes a link.
func (g *Graph) Unlink(id LinkID) error {
	l, ok := g.links[id]
	if !ok {
		return fmt.Errorf("%w: %d", domain.ErrUnknownLink, id)
	}
	affected := []NodeID{g.sockets[l.From].Node, g.sockets[l.To].Node}
	g.detach(l)
	g.version++
	g.notifyAll(affected)
	return nil
}

// Touch records a change to a node's settings or sockets made outside Link and Unlink.
// It bumps the version and notifies the node and every node linked to it.
func (g *Graph) Touch(id NodeID) {
	e, ok := g.nodes[id]
	if !ok {
		return
	}
	affected := []NodeID{id}
	for _, sid := range g.socketsOf(e) {
		for _, lid := range g.LinksOf(sid) {
			l := g.links[lid]
			affected = append(affected, g.sockets[l.From].Node, g.sockets[l.To].Node)
		}
	}
	g.version++
	g.notifyAll(affected)
}

func (g *Graph) detach(l *Link) {
	if src, ok := g.sockets[l.From]; ok {
		src.links = slices.DeleteFunc(src.links, func(id LinkID) bool { return id == l.ID })
	}
	if dst, ok := g.sockets[l.To]; ok && dst.link == l.ID {
		dst.link = 0
	}
	delete(g.links, l.ID)
}

func (g *Graph) notifyAll(nodes []NodeID) {
	seen := make(map[NodeID]bool, len(nodes))
	for _, n := range nodes {
		if !seen[n] {
			seen[n] = true
			g.notify(n)
		}
	}
}

func (g *Graph) notify(id NodeID) {
	e, ok := g.nodes[id]
	if !ok {
		return
	}
	if l, ok := e.impl.(TopologyListener); ok {
		l.OnTopologyChanged(g, id)
	}
}

// Nodes lists node handles in insertion order.
func (g *Graph) Nodes() []NodeID {
	return append([]NodeID(nil), g.order...)
}

// Node returns the implementation and name of a node.
func (g *Graph) Node(id NodeID) (Node, string, bool) {
	e, ok := g.nodes[id]
	if !ok {
		return nil, "", false
	}
	return e.impl, e.name, true
}

// NodeName returns the name of a node, or "" for an unknown handle.
func (g *Graph) NodeName(id NodeID) string {
	if e, ok := g.nodes[id]; ok {
		return e.name
	}
	return ""
}

// NodeByName finds a node by name.
func (g *Graph) NodeByName(name string) (NodeID, bool) {
	for _, id := range g.order {
		if g.nodes[id].name == name {
			return id, true
		}
	}
	return 0, false
}

// Socket returns a socket. Hosts may edit Text, Distance and Label;
// links are only changed through Link and Unlink.
func (g *Graph) Socket(id SocketID) (*Socket, bool) {
	s, ok := g.sockets[id]
	return s, ok
}

func (g *Graph) mustSocket(id SocketID) *Socket {
	if s, ok := g.sockets[id]; ok {
		return s
	}
	return nil
}

// Inputs lists a node's input sockets in declaration order.
func (g *Graph) Inputs(node NodeID) []SocketID {
	if e, ok := g.nodes[node]; ok {
		return append([]SocketID(nil), e.inputs...)
	}
	return nil
}

// Outputs lists a node's output sockets in declaration order.
func (g *Graph) Outputs(node NodeID) []SocketID {
	if e, ok := g.nodes[node]; ok {
		return append([]SocketID(nil), e.outputs...)
	}
	return nil
}

// Input returns the first input of node called name.
func (g *Graph) Input(node NodeID, name string) (SocketID, bool) {
	return g.named(g.Inputs(node), name, 0)
}

// Output returns the first output of node called name.
func (g *Graph) Output(node NodeID, name string) (SocketID, bool) {
	return g.named(g.Outputs(node), name, 0)
}

// InputAt returns the index-th input of node called name (0-based).
func (g *Graph) InputAt(node NodeID, name string, index int) (SocketID, bool) {
	return g.named(g.Inputs(node), name, index)
}

// OutputAt returns the index-th output of node called name (0-based).
func (g *Graph) OutputAt(node NodeID, name string, index int) (SocketID, bool) {
	return g.named(g.Outputs(node), name, index)
}

func (g *Graph) named(ids []SocketID, name string, index int) (SocketID, bool) {
	for _, id := range ids {
		if g.sockets[id].Name != name {
			continue
		}
		if index == 0 {
			return id, true
		}
		index--
	}
	return 0, false
}

// Ordinal is the position of a socket among the sockets of its node sharing its name and direction.
func (g *Graph) Ordinal(id SocketID) int {
	s := g.mustSocket(id)
	if s == nil {
		return -1
	}
	ids := g.Inputs(s.Node)
	if s.IsOutput() {
		ids = g.Outputs(s.Node)
	}
	n := 0
	for _, other := range ids {
		if other == id {
			return n
		}
		if g.sockets[other].Name == s.Name {
			n++
		}
	}
	return -1
}

// Links lists every link in creation order.
func (g *Graph) Links() []Link {
	out := make([]Link, 0, len(g.links))
	for _, l := range g.links {
		out = append(out, *l)
	}
	slices.SortFunc(out, func(a, b Link) int { return int(a.ID) - int(b.ID) })
	return out
}

// LinkByID returns a copy of the link with the given id.
func (g *Graph) LinkByID(id LinkID) (Link, bool) {
	l, ok := g.links[id]
	if !ok {
		return Link{}, false
	}
	return *l, true
}

// LinksOf lists the links attached to a socket.
func (g *Graph) LinksOf(id SocketID) []LinkID {
	s := g.mustSocket(id)
	if s == nil {
		return nil
	}
	if s.IsOutput() {
		return append([]LinkID(nil), s.links...)
	}
	if s.link != 0 {
		return []LinkID{s.link}
	}
	return nil
}

// IsLinked reports whether any link is attached to the socket.
func (g *Graph) IsLinked(id SocketID) bool {
	return len(g.LinksOf(id)) > 0
}

// SetEnabled changes a socket's Enabled flag. Meant for TopologyListener implementations.
func (g *Graph) SetEnabled(id SocketID, enabled bool) {
	if s := g.mustSocket(id); s != nil {
		s.Enabled = enabled
	}
}

func (g *Graph) socketError(op string, s *Socket, err error) error {
	return &SocketError{Op: op, Node: g.NodeName(s.Node), Socket: s.DisplayName(), Err: err}
}
