package collider

import (
	stdmath "math"

	remath "debris-sandbox/math"
)

// float32Epsilon is the spacing of float32 values around 1. Mesh data is
// float32, so anything closer than a few ulps of the input's magnitude is
// treated as coincident.
const float32Epsilon = 1.1920929e-7

type vec struct{ x, y, z float64 }

func toVec(v remath.Vec3) vec { return vec{float64(v.X), float64(v.Y), float64(v.Z)} }

func (a vec) sub(b vec) vec { return vec{a.x - b.x, a.y - b.y, a.z - b.z} }

func (a vec) scale(s float64) vec { return vec{a.x * s, a.y * s, a.z * s} }

func (a vec) dot(b vec) float64 { return a.x*b.x + a.y*b.y + a.z*b.z }

func (a vec) length() float64 { return stdmath.Sqrt(a.dot(a)) }

func (a vec) cross(b vec) vec {
	return vec{
		a.y*b.z - a.z*b.y,
		a.z*b.x - a.x*b.z,
		a.x*b.y - a.y*b.x,
	}
}

func (a vec) axis(i int) float64 {
	switch i {
	case 0:
		return a.x
	case 1:
		return a.y
	default:
		return a.z
	}
}

// hullFace is a triangle with vertices in counter-clockwise order seen from
// outside. outside holds the input points strictly above the face that it
// currently owns.
type hullFace struct {
	v       [3]int
	normal  vec
	offset  float64
	outside []int
	alive   bool
}

func (f *hullFace) distance(p vec) float64 {
	return f.normal.dot(p) - f.offset
}

type edge struct{ from, to int }

type quickhull struct {
	pts   []vec
	tol   float64
	faces []*hullFace
	// owner maps each directed edge of a live face to that face.
	owner map[edge]int
}

// buildHull runs quickhull over pts. It returns the live faces, or false
// when the points do not span a volume larger than the tolerance.
func buildHull(pts []vec) ([]*hullFace, float64, bool) {
	if len(pts) < 4 {
		return nil, 0, false
	}
	qh := &quickhull{pts: pts, owner: make(map[edge]int)}
	qh.tol = tolerance(pts)

	simplex, ok := qh.initialSimplex()
	if !ok {
		return nil, 0, false
	}
	qh.seed(simplex)

	for cursor := 0; cursor < len(qh.faces); {
		f := qh.faces[cursor]
		if !f.alive || len(f.outside) == 0 {
			cursor++
			continue
		}
		qh.addPoint(cursor)
	}

	live := make([]*hullFace, 0, len(qh.faces))
	for _, f := range qh.faces {
		if f.alive {
			live = append(live, f)
		}
	}
	return live, qh.tol, true
}

// tolerance scales the float32 epsilon by the magnitude of the input, the
// way qhull derives its distance roundoff.
func tolerance(pts []vec) float64 {
	var mx, my, mz float64
	for _, p := range pts {
		mx = stdmath.Max(mx, stdmath.Abs(p.x))
		my = stdmath.Max(my, stdmath.Abs(p.y))
		mz = stdmath.Max(mz, stdmath.Abs(p.z))
	}
	return 3 * float32Epsilon * (mx + my + mz)
}

// initialSimplex picks four affinely independent points. Every tie goes to
// the lowest input index so the result depends only on the input order.
func (qh *quickhull) initialSimplex() ([4]int, bool) {
	var simplex [4]int
	pts := qh.pts

	var minIdx, maxIdx [3]int
	for i, p := range pts {
		for a := 0; a < 3; a++ {
			if p.axis(a) < pts[minIdx[a]].axis(a) {
				minIdx[a] = i
			}
			if p.axis(a) > pts[maxIdx[a]].axis(a) {
				maxIdx[a] = i
			}
		}
	}

	// Widest extreme pair.
	best := -1.0
	for a := 0; a < 3; a++ {
		d := pts[maxIdx[a]].sub(pts[minIdx[a]]).length()
		if d > best {
			best = d
			simplex[0], simplex[1] = minIdx[a], maxIdx[a]
		}
	}
	if best <= qh.tol {
		return simplex, false
	}

	// Farthest from the line through the pair.
	p0, p1 := pts[simplex[0]], pts[simplex[1]]
	dir := p1.sub(p0).scale(1 / best)
	best = -1
	for i, p := range pts {
		d := p.sub(p0).cross(dir).length()
		if d > best {
			best = d
			simplex[2] = i
		}
	}
	if best <= qh.tol {
		return simplex, false
	}

	// Farthest from the plane through the triangle.
	p2 := pts[simplex[2]]
	n := p1.sub(p0).cross(p2.sub(p0))
	n = n.scale(1 / n.length())
	best = -1
	for i, p := range pts {
		d := stdmath.Abs(n.dot(p.sub(p0)))
		if d > best {
			best = d
			simplex[3] = i
		}
	}
	if best <= qh.tol {
		return simplex, false
	}
	return simplex, true
}

// seed creates the four outward-facing tetrahedron faces and distributes
// every other point to the face it lies farthest above.
func (qh *quickhull) seed(s [4]int) {
	a, b, c, d := s[0], s[1], s[2], s[3]
	// Orient (a,b,c) so that d is behind it.
	n := qh.pts[b].sub(qh.pts[a]).cross(qh.pts[c].sub(qh.pts[a]))
	if n.dot(qh.pts[d].sub(qh.pts[a])) > 0 {
		b, c = c, b
	}
	tris := [][3]int{
		{a, b, c},
		{a, d, b},
		{b, d, c},
		{c, d, a},
	}
	first := len(qh.faces)
	for _, t := range tris {
		qh.newFace(t)
	}

	used := map[int]bool{a: true, b: true, c: true, d: true}
	candidates := make([]int, 0, len(qh.pts))
	for i := range qh.pts {
		if !used[i] {
			candidates = append(candidates, i)
		}
	}
	qh.assign(candidates, first)
}

func (qh *quickhull) newFace(v [3]int) int {
	p0, p1, p2 := qh.pts[v[0]], qh.pts[v[1]], qh.pts[v[2]]
	n := p1.sub(p0).cross(p2.sub(p0))
	if l := n.length(); l > 0 {
		n = n.scale(1 / l)
	}
	f := &hullFace{v: v, normal: n, offset: n.dot(p0), alive: true}
	id := len(qh.faces)
	qh.faces = append(qh.faces, f)
	for i := 0; i < 3; i++ {
		qh.owner[edge{v[i], v[(i+1)%3]}] = id
	}
	return id
}

func (qh *quickhull) removeFace(id int) {
	f := qh.faces[id]
	f.alive = false
	f.outside = nil
	for i := 0; i < 3; i++ {
		e := edge{f.v[i], f.v[(i+1)%3]}
		if qh.owner[e] == id {
			delete(qh.owner, e)
		}
	}
}

// assign gives each point to the face (with id >= from) it lies farthest
// above. Points above no face are inside the hull and dropped.
func (qh *quickhull) assign(points []int, from int) {
	for _, p := range points {
		bestFace, bestDist := -1, qh.tol
		for id := from; id < len(qh.faces); id++ {
			f := qh.faces[id]
			if !f.alive {
				continue
			}
			if d := f.distance(qh.pts[p]); d > bestDist {
				bestFace, bestDist = id, d
			}
		}
		if bestFace >= 0 {
			qh.faces[bestFace].outside = append(qh.faces[bestFace].outside, p)
		}
	}
}

// addPoint expands the hull to the farthest outside point of face seed.
func (qh *quickhull) addPoint(seed int) {
	sf := qh.faces[seed]
	eye, eyeDist := -1, -1.0
	for _, p := range sf.outside {
		if d := sf.distance(qh.pts[p]); d > eyeDist {
			eye, eyeDist = p, d
		}
	}
	eyePt := qh.pts[eye]

	// Flood the visible region from the seed face and collect the horizon
	// as directed edges of visible faces whose neighbour is not visible.
	visible := map[int]bool{seed: true}
	hidden := map[int]bool{}
	stack := []int{seed}
	order := []int{seed}
	var horizon []edge
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		f := qh.faces[id]
		for i := 0; i < 3; i++ {
			e := edge{f.v[i], f.v[(i+1)%3]}
			nb, ok := qh.owner[edge{e.to, e.from}]
			if !ok {
				continue
			}
			if visible[nb] {
				continue
			}
			if !hidden[nb] && qh.faces[nb].distance(eyePt) > qh.tol {
				visible[nb] = true
				stack = append(stack, nb)
				order = append(order, nb)
				continue
			}
			hidden[nb] = true
			horizon = append(horizon, e)
		}
	}

	var orphans []int
	for _, id := range order {
		for _, p := range qh.faces[id].outside {
			if p != eye {
				orphans = append(orphans, p)
			}
		}
		qh.removeFace(id)
	}

	first := len(qh.faces)
	for _, e := range horizon {
		qh.newFace([3]int{e.from, e.to, eye})
	}
	qh.assign(orphans, first)
}
