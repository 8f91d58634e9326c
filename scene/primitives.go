package scene

import (
	"debris-sandbox/math"
)

// CreateBox builds a box of the given full extents centred on the origin.
// Each face has its own four corners (24 vertices, 12 triangles) so the
// same mesh can be drawn with flat per-face shading.
func CreateBox(width, height, depth float32) *TriangleMesh {
	x, y, z := width/2, height/2, depth/2

	positions := []math.Vec3{
		// Front face
		{X: -x, Y: -y, Z: z}, {X: x, Y: -y, Z: z}, {X: x, Y: y, Z: z}, {X: -x, Y: y, Z: z},
		// Back face
		{X: x, Y: -y, Z: -z}, {X: -x, Y: -y, Z: -z}, {X: -x, Y: y, Z: -z}, {X: x, Y: y, Z: -z},
		// Top face
		{X: -x, Y: y, Z: z}, {X: x, Y: y, Z: z}, {X: x, Y: y, Z: -z}, {X: -x, Y: y, Z: -z},
		// Bottom face
		{X: -x, Y: -y, Z: -z}, {X: x, Y: -y, Z: -z}, {X: x, Y: -y, Z: z}, {X: -x, Y: -y, Z: z},
		// Right face
		{X: x, Y: -y, Z: z}, {X: x, Y: -y, Z: -z}, {X: x, Y: y, Z: -z}, {X: x, Y: y, Z: z},
		// Left face
		{X: -x, Y: -y, Z: -z}, {X: -x, Y: -y, Z: z}, {X: -x, Y: y, Z: z}, {X: -x, Y: y, Z: -z},
	}

	indices := make([]uint32, 0, 36)
	for face := uint32(0); face < 6; face++ {
		b := face * 4
		indices = append(indices, b, b+1, b+2, b+2, b+3, b)
	}

	return NewTriangleMesh("Box", positions, indices)
}
