package graph

import (
	"testing"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAdd(t *testing.T, g *Graph, name string, n Node) NodeID {
	t.Helper()
	id, err := g.AddNode(name, n)
	require.NoError(t, err)
	return id
}

func mustLink(t *testing.T, g *Graph, from, to SocketID) LinkID {
	t.Helper()
	id, err := g.Link(from, to)
	require.NoError(t, err)
	return id
}

func out(t *testing.T, g *Graph, node NodeID, name string) SocketID {
	t.Helper()
	id, ok := g.Output(node, name)
	require.True(t, ok, "output %s", name)
	return id
}

func in(t *testing.T, g *Graph, node NodeID, name string) SocketID {
	t.Helper()
	id, ok := g.Input(node, name)
	require.True(t, ok, "input %s", name)
	return id
}

func TestAddNode(t *testing.T) {
	g := New("g", testScene())

	a := mustAdd(t, g, "", &textNode{})
	b := mustAdd(t, g, "", &textNode{})
	assert.Equal(t, "Text", g.NodeName(a))
	assert.Equal(t, "Text.001", g.NodeName(b))

	_, err := g.AddNode("Text", &textNode{})
	assert.ErrorIs(t, err, domain.ErrDuplicateNode)

	f := mustAdd(t, g, "File", &fileNode{})
	assert.Len(t, g.Inputs(f), 3)
	assert.Len(t, g.Outputs(f), 1)

	s, ok := g.Socket(in(t, g, f, "Name"))
	require.True(t, ok)
	assert.True(t, s.Enabled)
	assert.True(t, s.ShowEditorIfUnlinked)
	assert.Equal(t, -1, s.N)
	assert.Equal(t, DefaultLodDistance, s.Distance)
	assert.Equal(t, []NodeID{a, b, f}, g.Nodes())
}

func TestLink_Rules(t *testing.T) {
	g := New("g", testScene())
	txt := mustAdd(t, g, "Text", &textNode{})
	f1 := mustAdd(t, g, "F1", &fileNode{})
	f2 := mustAdd(t, g, "F2", &fileNode{})

	t.Run("direction", func(t *testing.T) {
		_, err := g.Link(in(t, g, f1, "Name"), in(t, g, f2, "Name"))
		assert.ErrorIs(t, err, domain.ErrDirection)
		_, err = g.Link(out(t, g, f1, "Mwm"), out(t, g, txt, "Text"))
		assert.ErrorIs(t, err, domain.ErrDirection)
	})

	t.Run("self loop", func(t *testing.T) {
		_, err := g.Link(out(t, g, f1, "Mwm"), in(t, g, f1, "Upstream"))
		require.ErrorIs(t, err, domain.ErrSelfLink)
		var se *SocketError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "F1", se.Node)
		assert.Equal(t, "Upstream", se.Socket)
	})

	t.Run("unknown socket", func(t *testing.T) {
		_, err := g.Link(999, in(t, g, f1, "Name"))
		assert.ErrorIs(t, err, domain.ErrUnknownSocket)
	})

	t.Run("fan in stays one", func(t *testing.T) {
		name := in(t, g, f2, "Name")
		first := mustLink(t, g, out(t, g, txt, "Text"), name)
		second := mustLink(t, g, out(t, g, f1, "Mwm"), name)

		assert.Equal(t, []LinkID{second}, g.LinksOf(name))
		assert.Equal(t, []LinkID{second}, g.LinksOf(out(t, g, f1, "Mwm")))
		assert.Empty(t, g.LinksOf(out(t, g, txt, "Text")), "replaced link is gone from its source")
		for _, l := range g.Links() {
			assert.NotEqual(t, first, l.ID)
		}
	})

	t.Run("fan out", func(t *testing.T) {
		text := out(t, g, txt, "Text")
		mustLink(t, g, text, in(t, g, f1, "Name"))
		mustLink(t, g, text, in(t, g, f2, "Name"))
		assert.Len(t, g.LinksOf(text), 2)
	})
}

func TestVersionAndNotifications(t *testing.T) {
	g := New("g", testScene())
	pins := &pinNode{}
	p := mustAdd(t, g, "Pins", pins)
	f := mustAdd(t, g, "F", &fileNode{})
	assert.Equal(t, 1, pins.notified, "notified once after Init")

	v := g.Version()
	lod, ok := g.InputAt(p, "LOD", 2)
	require.True(t, ok)
	lid := mustLink(t, g, out(t, g, f, "Mwm"), lod)
	assert.Greater(t, g.Version(), v)
	assert.Equal(t, 2, pins.notified)
	assert.Equal(t, 2, g.Ordinal(lod))

	v = g.Version()
	require.NoError(t, g.Unlink(lid))
	assert.Greater(t, g.Version(), v)
	assert.Equal(t, 3, pins.notified)
	assert.False(t, g.IsLinked(lod))

	assert.ErrorIs(t, g.Unlink(lid), domain.ErrUnknownLink)
}

func TestRemoveNode(t *testing.T) {
	g := New("g", testScene())
	pins := &pinNode{}
	p := mustAdd(t, g, "Pins", pins)
	f := mustAdd(t, g, "F", &fileNode{})
	lod := in(t, g, p, "LOD")
	mustLink(t, g, out(t, g, f, "Mwm"), lod)
	before := pins.notified

	require.NoError(t, g.RemoveNode(f))

	assert.False(t, g.IsLinked(lod))
	assert.Empty(t, g.Links())
	assert.Equal(t, []NodeID{p}, g.Nodes())
	assert.Equal(t, before+1, pins.notified)
	_, ok := g.NodeByName("F")
	assert.False(t, ok)
	assert.ErrorIs(t, g.RemoveNode(f), domain.ErrUnknownNode)
}

func TestFirstSourceAndSink(t *testing.T) {
	g := New("g", testScene())
	txt := mustAdd(t, g, "Text", &textNode{})
	f := mustAdd(t, g, "F", &fileNode{})
	text, name := out(t, g, txt, "Text"), in(t, g, f, "Name")
	mustLink(t, g, text, name)

	src, ok := g.FirstSource(name, Match{})
	assert.True(t, ok)
	assert.Equal(t, text, src)

	_, ok = g.FirstSource(name, Match{Cap: CapObjects})
	assert.False(t, ok, "capability filter")
	_, ok = g.FirstSource(name, Match{Name: "Other"})
	assert.False(t, ok, "name filter")
	_, ok = g.FirstSource(text, Match{})
	assert.False(t, ok, "outputs have no source")

	sink, ok := g.FirstSink(text, Match{Name: "Name"})
	assert.True(t, ok)
	assert.Equal(t, name, sink)
	_, ok = g.FirstSink(name, Match{})
	assert.False(t, ok, "inputs have no sink")
}
