// Package collider derives convex collision shapes from triangle meshes.
package collider

import (
	"slices"

	remath "debris-sandbox/math"
	"debris-sandbox/scene"
)

// ConvexCollider is the convex hull of a mesh's vertex set. It is immutable
// once built; accessors return copies.
type ConvexCollider struct {
	points  []remath.Vec3
	faces   [][3]int
	normals []vec
	offsets []float64
	volume  float32
	bounds  scene.AABB
	tol     float64
}

// Synthesize builds the convex hull of mesh's vertices. It reports false
// when the mesh is nil, has fewer than four distinct vertices, or when all
// vertices are collinear or coplanar. The same mesh always yields the same
// hull.
func Synthesize(mesh *scene.TriangleMesh) (*ConvexCollider, bool) {
	if mesh == nil {
		return nil, false
	}
	return FromPoints(mesh.Positions)
}

// FromPoints is Synthesize over a raw point cloud.
func FromPoints(positions []remath.Vec3) (*ConvexCollider, bool) {
	pts := make([]vec, len(positions))
	for i, p := range positions {
		pts[i] = toVec(p)
	}

	faces, tol, ok := buildHull(pts)
	if !ok {
		return nil, false
	}

	// Keep hull vertices in input order so output is stable.
	remap := make(map[int]int)
	var used []int
	for _, f := range faces {
		for _, v := range f.v {
			if _, seen := remap[v]; !seen {
				remap[v] = -1
				used = append(used, v)
			}
		}
	}
	slices.Sort(used)

	c := &ConvexCollider{tol: tol}
	c.points = make([]remath.Vec3, len(used))
	for i, v := range used {
		remap[v] = i
		c.points[i] = positions[v]
	}

	var centroid vec
	for _, p := range c.points {
		centroid = vec{centroid.x + float64(p.X), centroid.y + float64(p.Y), centroid.z + float64(p.Z)}
	}
	centroid = centroid.scale(1 / float64(len(c.points)))

	var volume float64
	c.faces = make([][3]int, len(faces))
	c.normals = make([]vec, len(faces))
	c.offsets = make([]float64, len(faces))
	for i, f := range faces {
		c.faces[i] = [3]int{remap[f.v[0]], remap[f.v[1]], remap[f.v[2]]}
		c.normals[i] = f.normal
		c.offsets[i] = f.offset

		a := pts[f.v[0]].sub(centroid)
		b := pts[f.v[1]].sub(centroid)
		d := pts[f.v[2]].sub(centroid)
		volume += a.dot(b.cross(d)) / 6
	}
	if volume <= 0 {
		return nil, false
	}
	c.volume = float32(volume)

	c.bounds = scene.AABB{Min: c.points[0], Max: c.points[0]}
	for _, p := range c.points[1:] {
		c.bounds.Min = c.bounds.Min.Min(p)
		c.bounds.Max = c.bounds.Max.Max(p)
	}
	return c, true
}

// Points returns the hull vertices, a subset of the input vertices.
func (c *ConvexCollider) Points() []remath.Vec3 {
	out := make([]remath.Vec3, len(c.points))
	copy(out, c.points)
	return out
}

// Faces returns the hull triangles as indices into Points, wound
// counter-clockwise when seen from outside.
func (c *ConvexCollider) Faces() [][3]int {
	out := make([][3]int, len(c.faces))
	copy(out, c.faces)
	return out
}

func (c *ConvexCollider) Volume() float32 { return c.volume }

// Bounds is the local-space bounding box of the hull.
func (c *ConvexCollider) Bounds() scene.AABB { return c.bounds }

// Contains reports whether p lies inside or on the hull.
func (c *ConvexCollider) Contains(p remath.Vec3) bool {
	q := toVec(p)
	for i, n := range c.normals {
		if n.dot(q)-c.offsets[i] > c.tol {
			return false
		}
	}
	return true
}

// Mesh returns the hull as a triangle mesh, handy for drawing.
func (c *ConvexCollider) Mesh(name string) *scene.TriangleMesh {
	indices := make([]uint32, 0, len(c.faces)*3)
	for _, f := range c.faces {
		indices = append(indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
	}
	return scene.NewTriangleMesh(name, c.Points(), indices)
}
