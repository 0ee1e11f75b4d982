package graph

import (
	"context"
	"testing"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/export"
	"github.com/aretw0/blocksmith/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_UnlinkedUsesLiteral(t *testing.T) {
	g := New("g", testScene())
	f := mustAdd(t, g, "F", &fileNode{})
	name := in(t, g, f, "Name")
	s, _ := g.Socket(name)
	s.Text = "Block_${n}_$missing"

	assert.Equal(t, "Block_${n}_$missing", g.Text(name, nil), "no parameters, placeholders stay")
	assert.Equal(t, "Block_7_$missing", g.Text(name, map[string]string{"n": "7"}))
}

func TestText_SiblingParameter(t *testing.T) {
	g := New("g", testScene())
	lay := mustAdd(t, g, "Layer", &layerNode{layer: 1, n: 3})
	f := mustAdd(t, g, "F", &fileNode{})
	name := in(t, g, f, "Name")
	s, _ := g.Socket(name)
	s.Text = "Block_${n}"
	mustLink(t, g, out(t, g, lay, "Objects"), in(t, g, f, "Objects"))

	assert.Equal(t, "Block_3", g.Text(name, nil))
	assert.Equal(t, "Block_9", g.Text(name, map[string]string{"n": "9"}), "caller parameters win")
	assert.Equal(t, 3, g.N(in(t, g, f, "Objects")))
	assert.Equal(t, map[string]string{"n": "3"}, g.Params(in(t, g, f, "Objects")))
}

func TestText_ResolutionOrder(t *testing.T) {
	g := New("g", testScene())
	txt := mustAdd(t, g, "Text", &textNode{text: "linked"})
	f := mustAdd(t, g, "F", &fileNode{})
	name, mwm := in(t, g, f, "Name"), out(t, g, f, "Mwm")
	s, _ := g.Socket(name)
	s.Text = "sibling"
	o, _ := g.Socket(mwm)
	o.Text = "literal"

	assert.Equal(t, "sibling", g.Text(mwm, nil), "NodeInput sibling")

	mustLink(t, g, out(t, g, txt, "Text"), name)
	assert.Equal(t, "linked", g.Text(name, nil))
	assert.Equal(t, "linked", g.Text(mwm, nil), "sibling resolves through its link")

	o.NodeInput = "Nope"
	assert.Equal(t, "literal", g.Text(mwm, nil), "unknown sibling falls back to the literal")

	s.Enabled = false
	assert.Equal(t, "", g.Text(name, nil))
}

func TestText_IncompatibleSourceIgnored(t *testing.T) {
	g := New("g", testScene())
	p := mustAdd(t, g, "Prop", &propNode{})
	pins := mustAdd(t, g, "Pins", &pinNode{})
	lod := in(t, g, pins, "LOD")
	s, _ := g.Socket(lod)
	s.Text = "fallback"

	mustLink(t, g, out(t, g, p, "Havok"), lod)
	assert.False(t, g.Compatible(lod))
	assert.False(t, g.IsReady(lod))
	assert.Equal(t, "fallback", g.Text(lod, nil))
}

func TestText_NodeProperty(t *testing.T) {
	g := New("g", testScene())
	p := mustAdd(t, g, "Physics", &propNode{props: map[string]string{"custom": "value"}})

	assert.Equal(t, "Physics", g.Text(out(t, g, p, "Havok"), nil))
	assert.Equal(t, "value", g.Text(out(t, g, p, "Custom"), nil))

	v, ok := g.Property(p, "kind")
	assert.True(t, ok)
	assert.Equal(t, "Prop", v)
	_, ok = g.Property(p, "unknown")
	assert.False(t, ok)
}

func TestObjects(t *testing.T) {
	g := New("g", testScene())
	l1 := mustAdd(t, g, "L1", &layerNode{layer: 1})
	l2 := mustAdd(t, g, "L2", &layerNode{layer: 2})
	f := mustAdd(t, g, "F", &fileNode{})
	objs := in(t, g, f, "Objects")

	assert.Nil(t, g.Objects(objs), "unlinked input yields none")
	assert.True(t, g.IsEmpty(objs))

	mustLink(t, g, out(t, g, l1, "Objects"), objs)
	assert.Equal(t, []string{"A", "B"}, scene.Names(g.Objects(objs)))
	assert.Equal(t, g.Objects(objs), g.Objects(objs), "enumeration is derived")

	s, _ := g.Socket(objs)
	s.Kind = KindRigidBodyObjects
	assert.Equal(t, []string{"B"}, scene.Names(g.Objects(objs)))

	s.Kind = KindMountPointObjects
	assert.Empty(t, g.Objects(objs))
	mustLink(t, g, out(t, g, l2, "Objects"), objs)
	assert.Equal(t, []string{"M"}, scene.Names(g.Objects(objs)))
}

func TestLinkedEmptyIsNotUnlinked(t *testing.T) {
	g := New("g", testScene())
	empty := mustAdd(t, g, "L5", &layerNode{layer: 5})
	f := mustAdd(t, g, "F", &fileNode{})
	objs := in(t, g, f, "Objects")

	mustLink(t, g, out(t, g, empty, "Objects"), objs)

	assert.True(t, g.IsLinked(objs))
	assert.True(t, g.IsEmpty(objs))
	assert.True(t, g.IsReady(objs))
	assert.False(t, g.NodeReady(f))
}

func TestReadiness(t *testing.T) {
	g := New("g", testScene())
	lay := mustAdd(t, g, "L1", &layerNode{layer: 1})
	up := mustAdd(t, g, "Up", &fileNode{})
	down := mustAdd(t, g, "Down", &fileNode{})
	upstream := in(t, g, down, "Upstream")

	assert.True(t, g.IsReady(upstream), "unlinked input")
	assert.False(t, g.IsReady(out(t, g, up, "Mwm")), "file output follows its node")

	mustLink(t, g, out(t, g, up, "Mwm"), upstream)
	assert.False(t, g.IsReady(upstream), "file input follows its source")

	mustLink(t, g, out(t, g, lay, "Objects"), in(t, g, up, "Objects"))
	assert.True(t, g.NodeReady(up))
	assert.True(t, g.IsReady(upstream))

	assert.True(t, g.NodeReady(lay), "nodes without a check are ready")
	assert.True(t, g.IsReady(out(t, g, lay, "Objects")))
}

func TestReadiness_Incompatible(t *testing.T) {
	g := New("g", testScene())
	lay := mustAdd(t, g, "L1", &layerNode{layer: 1})
	f := mustAdd(t, g, "F", &fileNode{})
	upstream := in(t, g, f, "Upstream")

	mustLink(t, g, out(t, g, lay, "Objects"), upstream)

	assert.False(t, g.Compatible(upstream))
	assert.False(t, g.IsReady(upstream))
}

func TestCycleResolvesToAbsent(t *testing.T) {
	g := New("g", testScene())
	a := mustAdd(t, g, "A", &fileNode{})
	b := mustAdd(t, g, "B", &fileNode{})

	mustLink(t, g, out(t, g, a, "Mwm"), in(t, g, b, "Name"))
	mustLink(t, g, out(t, g, b, "Mwm"), in(t, g, a, "Name"))

	assert.Equal(t, "", g.Text(out(t, g, a, "Mwm"), nil))
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	g := New("g", testScene())
	txt := mustAdd(t, g, "Text", &textNode{text: "Cube"})
	impl := &fileNode{}
	f := mustAdd(t, g, "F", impl)
	pins := mustAdd(t, g, "Pins", &pinNode{})
	mustLink(t, g, out(t, g, txt, "Text"), in(t, g, f, "Name"))

	t.Run("not an exporter", func(t *testing.T) {
		_, err := g.Export(ctx, out(t, g, txt, "Text"), nil)
		assert.ErrorIs(t, err, domain.ErrNotExporter)
		_, err = g.ExportNode(ctx, pins, nil)
		assert.ErrorIs(t, err, domain.ErrNotExporter)
	})

	t.Run("unlinked input", func(t *testing.T) {
		_, err := g.Export(ctx, in(t, g, pins, "LOD"), nil)
		require.ErrorIs(t, err, domain.ErrNotLinked)
		var se *SocketError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "Pins", se.Node)
	})

	t.Run("input delegates to its source once per context", func(t *testing.T) {
		lod := in(t, g, pins, "LOD")
		mustLink(t, g, out(t, g, f, "Mwm"), lod)
		ec := export.NewContext(g.Scene(), export.WithOutputDir(t.TempDir()))

		got, err := g.Export(ctx, lod, ec)
		require.NoError(t, err)
		assert.Equal(t, "Cube", got)

		got, err = g.ExportNode(ctx, f, ec)
		require.NoError(t, err)
		assert.Equal(t, "Cube", got)
		assert.Equal(t, 1, impl.exports)

		_, err = g.Export(ctx, lod, export.NewContext(g.Scene(), export.WithOutputDir(t.TempDir())))
		require.NoError(t, err)
		assert.Equal(t, 2, impl.exports, "a new context exports again")
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := g.ExportNode(cctx, f, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
