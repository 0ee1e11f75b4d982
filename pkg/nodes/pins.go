package nodes

import "github.com/aretw0/blocksmith/pkg/graph"

// enablePins applies the numbered pin rule to the inputs named name:
// with k the highest linked pin, pins 0..k+1 are enabled and the rest disabled.
func enablePins(g *graph.Graph, self graph.NodeID, name string) {
	pins := pinsOf(g, self, name)
	highest := -1
	for i, id := range pins {
		if g.IsLinked(id) {
			highest = i
		}
	}
	for i, id := range pins {
		g.SetEnabled(id, i == 0 || i <= highest+1)
	}
}

func pinsOf(g *graph.Graph, self graph.NodeID, name string) []graph.SocketID {
	var out []graph.SocketID
	for _, id := range g.Inputs(self) {
		if s, _ := g.Socket(id); s.Name == name {
			out = append(out, id)
		}
	}
	return out
}

// linkedPins returns the enabled, linked and compatible pins called name in order.
func linkedPins(g *graph.Graph, self graph.NodeID, name string) []graph.SocketID {
	var out []graph.SocketID
	for _, id := range pinsOf(g, self, name) {
		s, _ := g.Socket(id)
		if s.Enabled && g.IsLinked(id) && g.Compatible(id) {
			out = append(out, id)
		}
	}
	return out
}
