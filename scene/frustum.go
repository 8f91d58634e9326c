package scene

import "debris-sandbox/math"

// Plane is the half-space Normal·p + D >= 0.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// DistanceTo returns the signed distance from pt to the plane; positive is inside.
func (p Plane) DistanceTo(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view volume.
type Frustum struct {
	Planes [6]Plane // left, right, bottom, top, near, far
}

// FrustumFromViewProjection extracts normalized clip planes (Gribb/Hartmann).
// Points are row vectors (clip = p * vp), so clip coordinate j is the dot
// product of p with column j of vp.
func FrustumFromViewProjection(vp math.Mat4) Frustum {
	col := func(j int) [4]float32 {
		return [4]float32{vp[0][j], vp[1][j], vp[2][j], vp[3][j]}
	}
	cx, cy, cz, cw := col(0), col(1), col(2), col(3)

	var f Frustum
	f.Planes[0] = planeFrom(cw, cx, 1)
	f.Planes[1] = planeFrom(cw, cx, -1)
	f.Planes[2] = planeFrom(cw, cy, 1)
	f.Planes[3] = planeFrom(cw, cy, -1)
	f.Planes[4] = planeFrom(cw, cz, 1)
	f.Planes[5] = planeFrom(cw, cz, -1)
	return f
}

// planeFrom builds the normalized plane w + sign*c >= 0.
func planeFrom(w, c [4]float32, sign float32) Plane {
	n := math.Vec3{X: w[0] + sign*c[0], Y: w[1] + sign*c[1], Z: w[2] + sign*c[2]}
	d := w[3] + sign*c[3]
	l := n.Length()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: d / l}
}

// IntersectsFrustum is false only when the box lies entirely outside one
// plane. It tests the corner furthest along each plane normal.
func (b AABB) IntersectsFrustum(f *Frustum) bool {
	for _, p := range f.Planes {
		corner := b.Max
		if p.Normal.X < 0 {
			corner.X = b.Min.X
		}
		if p.Normal.Y < 0 {
			corner.Y = b.Min.Y
		}
		if p.Normal.Z < 0 {
			corner.Z = b.Min.Z
		}
		if p.DistanceTo(corner) < 0 {
			return false
		}
	}
	return true
}

// Transform returns the AABB enclosing the eight corners of b mapped through m.
func (b AABB) Transform(m math.Mat4) AABB {
	mn, mx := b.Min, b.Max
	corners := [8]math.Vec3{
		{X: mn.X, Y: mn.Y, Z: mn.Z},
		{X: mx.X, Y: mn.Y, Z: mn.Z},
		{X: mn.X, Y: mx.Y, Z: mn.Z},
		{X: mx.X, Y: mx.Y, Z: mn.Z},
		{X: mn.X, Y: mn.Y, Z: mx.Z},
		{X: mx.X, Y: mn.Y, Z: mx.Z},
		{X: mn.X, Y: mx.Y, Z: mx.Z},
		{X: mx.X, Y: mx.Y, Z: mx.Z},
	}
	first := m.MulPoint(corners[0])
	out := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		p := m.MulPoint(c)
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}
