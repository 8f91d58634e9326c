package collider

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	remath "debris-sandbox/math"
	"debris-sandbox/scene"
)

func v3(x, y, z float32) remath.Vec3 { return remath.Vec3{X: x, Y: y, Z: z} }

func fibonacciSphere(n int, radius float32) []remath.Vec3 {
	pts := make([]remath.Vec3, n)
	golden := math32.Pi * (3 - math32.Sqrt(5))
	for i := range pts {
		y := 1 - 2*(float32(i)+0.5)/float32(n)
		r := math32.Sqrt(1 - y*y)
		theta := golden * float32(i)
		pts[i] = v3(r*math32.Cos(theta)*radius, y*radius, r*math32.Sin(theta)*radius)
	}
	return pts
}

func containsPoint(pts []remath.Vec3, p remath.Vec3) bool {
	for _, q := range pts {
		if q == p {
			return true
		}
	}
	return false
}

func TestSynthesizeBox(t *testing.T) {
	mesh := scene.CreateBox(2, 4, 6)
	c, ok := Synthesize(mesh)
	require.True(t, ok)

	pts := c.Points()
	assert.Len(t, pts, 8)
	for _, p := range pts {
		assert.True(t, containsPoint(mesh.Positions, p), "hull vertex %v not in mesh", p)
	}
	assert.Len(t, c.Faces(), 12)
	assert.InDelta(t, 48, c.Volume(), 1e-3)

	b := c.Bounds()
	assert.Equal(t, v3(-1, -2, -3), b.Min)
	assert.Equal(t, v3(1, 2, 3), b.Max)

	for _, p := range mesh.Positions {
		assert.True(t, c.Contains(p))
	}
	assert.False(t, c.Contains(v3(0, 2.5, 0)))
}

func TestSynthesizeTetrahedron(t *testing.T) {
	pts := []remath.Vec3{v3(0, 0, 0), v3(1, 0, 0), v3(0, 1, 0), v3(0, 0, 1)}
	c, ok := FromPoints(pts)
	require.True(t, ok)
	assert.Equal(t, pts, c.Points())
	assert.Len(t, c.Faces(), 4)
	assert.InDelta(t, 1.0/6.0, c.Volume(), 1e-6)
}

func TestSynthesizeDropsInteriorPoints(t *testing.T) {
	box := scene.CreateBox(2, 2, 2)
	pts := append([]remath.Vec3{}, box.Positions...)
	pts = append(pts, v3(0, 0, 0), v3(0.5, -0.25, 0.1), v3(-0.9, 0.9, 0.9), v3(1, 0, 0))

	c, ok := FromPoints(pts)
	require.True(t, ok)
	assert.Len(t, c.Points(), 8)
	assert.InDelta(t, 8, c.Volume(), 1e-4)
}

func TestSynthesizeSphere(t *testing.T) {
	pts := fibonacciSphere(120, 5)
	c, ok := FromPoints(pts)
	require.True(t, ok)

	hull := c.Points()
	assert.Len(t, hull, len(pts))
	// Closed triangulated surface: F = 2V - 4.
	assert.Len(t, c.Faces(), 2*len(hull)-4)

	for _, p := range pts {
		assert.True(t, c.Contains(p))
	}
	sphere := float32(4.0/3.0) * math32.Pi * 125
	assert.Less(t, c.Volume(), sphere)
	assert.Greater(t, c.Volume(), 0.85*sphere)

	// Every face must wind outward.
	for _, f := range c.Faces() {
		a, b, d := hull[f[0]], hull[f[1]], hull[f[2]]
		n := b.Sub(a).Cross(d.Sub(a))
		assert.Greater(t, n.Dot(a), float32(0))
	}
}

func TestSynthesizeDegenerate(t *testing.T) {
	tests := []struct {
		name string
		mesh *scene.TriangleMesh
	}{
		{"nil mesh", nil},
		{"empty", scene.NewTriangleMesh("empty", nil, nil)},
		{"three points", scene.NewTriangleMesh("tri",
			[]remath.Vec3{v3(0, 0, 0), v3(1, 0, 0), v3(0, 1, 0)},
			[]uint32{0, 1, 2})},
		{"coincident", scene.NewTriangleMesh("dot",
			[]remath.Vec3{v3(1, 1, 1), v3(1, 1, 1), v3(1, 1, 1), v3(1, 1, 1), v3(1, 1, 1)},
			[]uint32{0, 1, 2, 2, 3, 4})},
		{"collinear", scene.NewTriangleMesh("line",
			[]remath.Vec3{v3(0, 0, 0), v3(1, 1, 1), v3(2, 2, 2), v3(3, 3, 3), v3(-4, -4, -4)},
			[]uint32{0, 1, 2, 2, 3, 4})},
		{"coplanar", scene.NewTriangleMesh("quad",
			[]remath.Vec3{v3(0, 0, 0), v3(4, 0, 0), v3(4, 0, 4), v3(0, 0, 4), v3(2, 0, 2), v3(1, 0, 3)},
			[]uint32{0, 1, 2, 2, 3, 0, 0, 4, 5})},
		{"tilted plane", scene.NewTriangleMesh("tilted",
			[]remath.Vec3{v3(0, 0, 0), v3(1, 1, 0), v3(0, 1, 1), v3(1, 2, 1), v3(2, 2, 0)},
			[]uint32{0, 1, 2, 1, 3, 2, 1, 4, 3})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Synthesize(tt.mesh)
			assert.False(t, ok)
			assert.Nil(t, c)
		})
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	pts := fibonacciSphere(64, 2)
	pts = append(pts, scene.CreateBox(1, 1, 1).Positions...)
	mesh := scene.NewTriangleMesh("cloud", pts, nil)

	first, ok := Synthesize(mesh)
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		again, ok := Synthesize(mesh)
		require.True(t, ok)
		assert.Equal(t, first.Points(), again.Points())
		assert.Equal(t, first.Faces(), again.Faces())
		assert.Equal(t, first.Volume(), again.Volume())
	}
}

func TestColliderMesh(t *testing.T) {
	c, ok := Synthesize(scene.CreateBox(1, 1, 1))
	require.True(t, ok)
	m := c.Mesh("hull")
	assert.Equal(t, "hull", m.Name)
	assert.Equal(t, len(c.Faces()), m.TriangleCount())
	assert.NoError(t, m.Validate())
}

func TestAccessorsReturnCopies(t *testing.T) {
	c, ok := Synthesize(scene.CreateBox(1, 1, 1))
	require.True(t, ok)
	pts := c.Points()
	pts[0] = v3(100, 100, 100)
	assert.NotEqual(t, pts[0], c.Points()[0])

	faces := c.Faces()
	faces[0] = [3]int{0, 0, 0}
	assert.NotEqual(t, faces[0], c.Faces()[0])
}

func BenchmarkSynthesizeSphere(b *testing.B) {
	mesh := scene.NewTriangleMesh("sphere", fibonacciSphere(500, 1), nil)
	for i := 0; i < b.N; i++ {
		Synthesize(mesh)
	}
}
