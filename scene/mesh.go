package scene

import (
	"errors"
	"fmt"

	"debris-sandbox/math"
)

// ErrNoGeometry is returned by decoders that found no triangles.
var ErrNoGeometry = errors.New("no geometry")

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

// Size returns the extent of the box along each axis.
func (b AABB) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Translate returns the box moved by offset.
func (b AABB) Translate(offset math.Vec3) AABB {
	return AABB{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// TriangleMesh is CPU-side triangle geometry: vertex positions plus
// index triples. It is never mutated after construction, so one mesh may
// back any number of bodies.
type TriangleMesh struct {
	Name      string
	Positions []math.Vec3
	Indices   []uint32
}

func NewTriangleMesh(name string, positions []math.Vec3, indices []uint32) *TriangleMesh {
	return &TriangleMesh{
		Name:      name,
		Positions: positions,
		Indices:   indices,
	}
}

func (m *TriangleMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds returns the tight AABB of the vertex positions. An empty mesh
// yields the zero box.
func (m *TriangleMesh) Bounds() AABB {
	if len(m.Positions) == 0 {
		return AABB{}
	}
	b := AABB{Min: m.Positions[0], Max: m.Positions[0]}
	for _, p := range m.Positions[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Validate checks that the index buffer describes whole triangles and
// only references existing vertices.
func (m *TriangleMesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %q: %d indices is not a multiple of 3", m.Name, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			return fmt.Errorf("mesh %q: index %d (%d) out of range [0,%d)", m.Name, i, idx, len(m.Positions))
		}
	}
	return nil
}
