package scene

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debris-sandbox/math"
)

var tetraPositions = [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func tetraDocument() *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, tetraPositions)
	idx := modeler.WriteIndices(doc, []uint16{0, 2, 1, 0, 1, 3, 0, 3, 2, 1, 2, 3})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tetra",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
		}},
	}}
	return doc
}

func TestMeshFromDocument(t *testing.T) {
	mesh, err := meshFromDocument(tetraDocument(), "breakage_1")
	require.NoError(t, err)

	assert.Equal(t, "breakage_1", mesh.Name)
	assert.Len(t, mesh.Positions, 4)
	assert.Equal(t, 4, mesh.TriangleCount())
	assert.Equal(t, math.Vec3{X: 1, Y: 1, Z: 1}, mesh.Bounds().Max)
}

func TestMeshFromDocumentMergesPrimitives(t *testing.T) {
	doc := tetraDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{5, 5, 5}, {6, 5, 5}, {5, 6, 5}})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Primitives: []*gltf.Primitive{
			{Attributes: map[string]int{gltf.POSITION: pos}},
			{Mode: gltf.PrimitiveLines, Attributes: map[string]int{gltf.POSITION: pos}},
		},
	})

	mesh, err := meshFromDocument(doc, "merged")
	require.NoError(t, err)
	assert.Len(t, mesh.Positions, 7)
	assert.Equal(t, 5, mesh.TriangleCount())
	assert.Equal(t, []uint32{4, 5, 6}, mesh.Indices[12:])
}

func TestMeshFromDocumentWithoutTriangles(t *testing.T) {
	_, err := meshFromDocument(gltf.NewDocument(), "empty")
	assert.ErrorIs(t, err, ErrNoGeometry)

	doc := gltf.NewDocument()
	doc.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{{Attributes: map[string]int{}}}}}
	_, err = meshFromDocument(doc, "nopos")
	assert.ErrorContains(t, err, "POSITION")
}

func TestLoadGLTFBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "breakage_2.glb")
	require.NoError(t, gltf.SaveBinary(tetraDocument(), path))

	mesh, err := LoadGLTF(path, "breakage_2")
	require.NoError(t, err)
	assert.Equal(t, 4, mesh.TriangleCount())

	_, err = LoadGLTF(filepath.Join(t.TempDir(), "missing.glb"), "x")
	assert.Error(t, err)
}
