package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/blocksmith/pkg/dsl"
	"github.com/aretw0/blocksmith/pkg/nodes"
	"github.com/aretw0/blocksmith/pkg/scene"
)

func testScene() *scene.Scene {
	sc := scene.New("Armor Block")
	sc.Settings.BlockSize = scene.SizeLarge
	sc.Add(
		&scene.Object{Name: "Main", Type: scene.TypeMesh, Layers: scene.Layers(1)},
		&scene.Object{Name: "MountFront", Type: scene.TypeMesh, Layers: scene.Layers(1), Materials: []string{scene.MountPointMaterial}},
		&scene.Object{Name: "Collision", Type: scene.TypeMesh, Layers: scene.Layers(2), RigidBody: true},
		&scene.Object{Name: "Constr1", Type: scene.TypeMesh, Layers: scene.Layers(11)},
		&scene.Object{Name: "Constr2", Type: scene.TypeMesh, Layers: scene.Layers(12)},
		&scene.Object{Name: "Constr3", Type: scene.TypeMesh, Layers: scene.Layers(13)},
	)
	return sc
}

func issuesAt(issues []Issue, node, socket string) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.Node == node && i.Socket == socket {
			out = append(out, i)
		}
	}
	return out
}

func TestValidateDocument_DefaultGraph(t *testing.T) {
	sc := testScene()
	r, g := ValidateDocument(dsl.DefaultGraph(sc), sc, nodes.DefaultRegistry())
	require.NotNil(t, g)
	assert.Empty(t, r.Issues)
	assert.NoError(t, r.Err(true))
}

func TestValidateDocument_UnknownKind(t *testing.T) {
	sc := testScene()
	b := dsl.New("broken")
	b.Add("Mystery", "NoSuchKind")

	r, g := ValidateDocument(b.Document(), sc, nodes.DefaultRegistry())
	assert.Nil(t, g)
	require.Len(t, r.Errors(), 1)
	assert.Contains(t, r.Errors()[0].Message, "nodes[0].kind")

	err := r.Err(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graph broken")
}

func TestValidateGraph_IncompatibleLink(t *testing.T) {
	sc := testScene()
	b := dsl.New("bad-link")
	b.Add("Main", nodes.KindLayerObjects).Layers(1).Link("Objects", "Model.Objects")
	b.Add("Physics", nodes.KindLayerObjects).Layers(2).Link("Objects", "Collision.Objects")
	b.Add("Collision", nodes.KindHavokConverter).Text("Name", "Armor").Link("Havok", "Model.LOD")
	b.Add("Model", nodes.KindMwmBuilder).Text("Name", "Armor")

	r, g := ValidateDocument(b.Document(), sc, nodes.DefaultRegistry())
	require.NotNil(t, g)

	errs := issuesAt(r.Errors(), "Model", "LOD")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "incompatible link from Collision.Havok")
	assert.Error(t, r.Err(false))
}

func TestValidateGraph_PinGap(t *testing.T) {
	sc := testScene()
	b := dsl.New("gaps")
	b.Add("Main", nodes.KindLayerObjects).Layers(1).
		Link("Objects", "Model.Objects").
		Link("Objects", "Far.Objects")
	b.Add("Far", nodes.KindMwmBuilder).Text("Name", "Armor_Far").Link("Mwm", "Model.LOD[2]")
	b.Add("Model", nodes.KindMwmBuilder).Text("Name", "Armor")

	r, g := ValidateDocument(b.Document(), sc, nodes.DefaultRegistry())
	require.NotNil(t, g)
	assert.Empty(t, r.Errors())

	warnings := r.Warnings()
	assert.Len(t, issuesAt(warnings, "Model", "LOD"), 1)
	assert.Len(t, issuesAt(warnings, "Model", "LOD[1]"), 1)
	assert.Empty(t, issuesAt(warnings, "Model", "LOD[2]"))

	assert.NoError(t, r.Err(false))
	assert.Error(t, r.Err(true))
}

func TestValidateGraph_Placeholders(t *testing.T) {
	sc := testScene()
	b := dsl.New("placeholders")
	b.Add("Main", nodes.KindLayerObjects).Layers(1).Link("Objects", "Model.Objects")
	b.Add("Model", nodes.KindMwmBuilder).Text("Name", "Armor_${size}")

	r, g := ValidateDocument(b.Document(), sc, nodes.DefaultRegistry())
	require.NotNil(t, g)

	found := issuesAt(r.Warnings(), "Model", "Name")
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Message, "size")
}

func TestValidateGraph_NotReady(t *testing.T) {
	sc := testScene()
	b := dsl.New("idle")
	b.Add("Model", nodes.KindMwmBuilder).Text("Name", "Armor")

	r, g := ValidateDocument(b.Document(), sc, nodes.DefaultRegistry())
	require.NotNil(t, g)

	found := issuesAt(r.Warnings(), "Model", "")
	require.Len(t, found, 1)
	assert.Equal(t, "not ready for export", found[0].Message)
	assert.Equal(t, "warning: Model: not ready for export", found[0].String())
}

func TestValidateGraph_LinkedEmpty(t *testing.T) {
	sc := testScene()
	b := dsl.New("empty")
	b.Add("Nothing", nodes.KindLayerObjects).Layers(20).Link("Objects", "Model.Objects")
	b.Add("Model", nodes.KindMwmBuilder).Text("Name", "Armor")

	r, g := ValidateDocument(b.Document(), sc, nodes.DefaultRegistry())
	require.NotNil(t, g)

	found := issuesAt(r.Warnings(), "Model", "Objects")
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Message, "selects no objects")
}
