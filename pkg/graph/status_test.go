package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	g := New("g", testScene())
	p := mustAdd(t, g, "Pins", &pinNode{})
	ins := g.Inputs(p)
	require.Len(t, ins, 3)

	assert.Equal(t, "LOD", g.Key(ins[0]))
	assert.Equal(t, "LOD[2]", g.Key(ins[2]))
	assert.Equal(t, "", g.Key(9999))
}

func TestStatus(t *testing.T) {
	g := New("armor", testScene())
	lay := mustAdd(t, g, "Layer", &layerNode{layer: 1, n: 1})
	f := mustAdd(t, g, "F", &fileNode{})
	s, _ := g.Socket(in(t, g, f, "Name"))
	s.Text = "Armor_${n}"

	st := g.Status()
	assert.Equal(t, "armor", st.Graph)
	assert.False(t, st.Ready, "the exporter has no objects")

	mustLink(t, g, out(t, g, lay, "Objects"), in(t, g, f, "Objects"))

	st = g.Status()
	assert.True(t, st.Ready)
	assert.Equal(t, g.Version(), st.Version)
	require.Len(t, st.Nodes, 2)

	layer := st.Nodes[0]
	assert.False(t, layer.Exporter)
	assert.Equal(t, []string{"A", "B"}, layer.Sockets[0].Objects)

	file := st.Nodes[1]
	assert.True(t, file.Exporter)
	assert.True(t, file.Ready)
	assert.Equal(t, "Armor_1", file.Output, "the first text output resolves through NodeInput")

	var objects, upstream *struct{ linked, empty bool }
	for _, ss := range file.Sockets {
		switch ss.Name {
		case "Objects":
			objects = &struct{ linked, empty bool }{ss.Linked, ss.Empty}
		case "Upstream":
			upstream = &struct{ linked, empty bool }{ss.Linked, ss.Empty}
			assert.True(t, ss.Ready, "an unlinked input is ready")
			assert.True(t, ss.Compatible)
		}
	}
	require.NotNil(t, objects)
	require.NotNil(t, upstream)
	assert.True(t, objects.linked)
	assert.False(t, objects.empty)
	assert.False(t, upstream.linked)
}

func TestStatus_NoExporters(t *testing.T) {
	g := New("empty", testScene())
	mustAdd(t, g, "Layer", &layerNode{layer: 1})
	assert.False(t, g.Status().Ready)
}
