package graph

import (
	"fmt"

	"github.com/aretw0/blocksmith/pkg/domain"
)

// Key names a socket on its node: the name, with an index suffix past the first
// socket of that name ("LOD[2]").
func (g *Graph) Key(id SocketID) string {
	s := g.mustSocket(id)
	if s == nil {
		return ""
	}
	if n := g.Ordinal(id); n > 0 {
		return fmt.Sprintf("%s[%d]", s.Name, n)
	}
	return s.Name
}

// Status evaluates every node and socket of the graph.
// Ready is set when the graph has exporters and all of them are ready.
func (g *Graph) Status() *domain.GraphStatus {
	st := &domain.GraphStatus{
		Graph:   g.name,
		Version: g.version,
		Nodes:   make([]domain.NodeStatus, 0, len(g.order)),
	}
	exporters, ready := 0, 0
	for _, id := range g.Nodes() {
		ns := g.nodeStatus(id)
		if ns.Exporter {
			exporters++
			if ns.Ready {
				ready++
			}
		}
		st.Nodes = append(st.Nodes, ns)
	}
	st.Ready = exporters > 0 && ready == exporters
	return st
}

func (g *Graph) nodeStatus(id NodeID) domain.NodeStatus {
	e := g.nodes[id]
	ns := domain.NodeStatus{
		Name:     e.name,
		Kind:     e.impl.Kind(),
		Exporter: g.IsExporter(id),
		Ready:    g.NodeReady(id),
	}
	for _, sid := range g.socketsOf(e) {
		s := g.sockets[sid]
		ss := domain.SocketStatus{
			Name:       g.Key(sid),
			Label:      s.DisplayName(),
			Kind:       s.Kind.String(),
			Output:     s.IsOutput(),
			Enabled:    s.Enabled,
			Linked:     g.IsLinked(sid),
			Compatible: g.Compatible(sid),
			Ready:      g.IsReady(sid),
		}
		if s.Kind.Has(CapText) {
			ss.Text = g.Text(sid, nil)
			if ns.Output == "" && s.IsOutput() {
				ns.Output = ss.Text
			}
		}
		if s.Kind.Has(CapObjects) {
			objs := g.Objects(sid)
			ss.Empty = len(objs) == 0
			for _, o := range objs {
				ss.Objects = append(ss.Objects, o.Name)
			}
		}
		ns.Sockets = append(ns.Sockets, ss)
	}
	return ns
}
