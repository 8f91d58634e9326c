package scene

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"debris-sandbox/math"
)

// LoadGLTF opens a .glb or .gltf file and merges the triangle primitives
// of every mesh into one TriangleMesh. Node transforms are not applied;
// debris assets are authored in their own local space.
func LoadGLTF(path, name string) (*TriangleMesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	mesh, err := meshFromDocument(doc, name)
	if err != nil {
		return nil, fmt.Errorf("gltf %q: %w", path, err)
	}
	return mesh, nil
}

func meshFromDocument(doc *gltf.Document, name string) (*TriangleMesh, error) {
	var positions []math.Vec3
	var indices []uint32

	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			base := uint32(len(positions))
			pos, idx, err := readPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d prim %d: %w", mi, pi, err)
			}
			for _, p := range pos {
				positions = append(positions, math.Vec3{X: p[0], Y: p[1], Z: p[2]})
			}
			for _, i := range idx {
				indices = append(indices, base+i)
			}
		}
	}
	if len(indices) == 0 {
		return nil, ErrNoGeometry
	}

	mesh := NewTriangleMesh(name, positions, indices)
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	return mesh, nil
}

// readPrimitive returns the positions and triangle indices of one primitive.
// Non-indexed primitives get sequential indices.
func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) ([][3]float32, []uint32, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, nil, fmt.Errorf("positions: %w", err)
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	// Drop a trailing partial triangle.
	indices = indices[:len(indices)-len(indices)%3]
	return positions, indices, nil
}
