// Package physics is a small rigid-body world: gravity integration plus
// AABB push-out between collider bounds. It is only as accurate as the
// sandbox needs; bodies never rotate.
package physics

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	remath "debris-sandbox/math"
	"debris-sandbox/scene"
)

var (
	ErrNilBody    = errors.New("nil body")
	ErrNoCollider = errors.New("body has no collider")
)

// DefaultGravity matches Earth gravity along -Y.
var DefaultGravity = remath.Vec3{X: 0, Y: -9.81, Z: 0}

// World owns every body. It is not safe for concurrent use: all mutation
// happens on the tick goroutine.
type World struct {
	Gravity remath.Vec3

	bodies []*RigidBody
	nextID uint64
}

func NewWorld(gravity remath.Vec3) *World {
	return &World{Gravity: gravity, nextID: 1}
}

// Insert adds b to the world and assigns its ID. Bodies are stepped in
// insertion order.
func (w *World) Insert(b *RigidBody) error {
	if b == nil {
		return ErrNilBody
	}
	if b.Collider == nil {
		return fmt.Errorf("insert %q: %w", b.Name, ErrNoCollider)
	}
	b.ID = w.nextID
	w.nextID++
	w.bodies = append(w.bodies, b)
	return nil
}

// Bodies returns the bodies in insertion order. The slice is a copy; the
// bodies are not.
func (w *World) Bodies() []*RigidBody {
	out := make([]*RigidBody, len(w.bodies))
	copy(out, w.bodies)
	return out
}

func (w *World) Len() int {
	return len(w.bodies)
}

// CountKind returns how many bodies have the given kind.
func (w *World) CountKind(kind BodyKind) int {
	n := 0
	for _, b := range w.bodies {
		if b.Kind == kind {
			n++
		}
	}
	return n
}

// ClearDynamic removes every dynamic body and returns how many were removed.
func (w *World) ClearDynamic() int {
	kept := w.bodies[:0]
	removed := 0
	for _, b := range w.bodies {
		if b.Kind == Dynamic {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	for i := len(kept); i < len(w.bodies); i++ {
		w.bodies[i] = nil
	}
	w.bodies = kept
	return removed
}

// Step advances the simulation by dt seconds: apply scaled gravity,
// integrate, then resolve overlapping pairs.
func (w *World) Step(dt float32) {
	if dt <= 0 {
		return
	}

	for _, b := range w.bodies {
		if b.Kind != Dynamic {
			continue
		}
		g := w.Gravity.Mul(b.EffectiveGravityScale())
		b.Velocity = b.Velocity.Add(g.Mul(dt))
		b.Transform.Position = b.Transform.Position.Add(b.Velocity.Mul(dt))
	}

	// Pairwise push-out along the axis of least penetration.
	for i := 0; i < len(w.bodies); i++ {
		bi := w.bodies[i]
		boxI := bi.Bounds()
		for j := i + 1; j < len(w.bodies); j++ {
			bj := w.bodies[j]
			if bi.Kind == Fixed && bj.Kind == Fixed {
				continue
			}
			boxJ := bj.Bounds()
			depth, axis := penetrationAxis(boxI, boxJ)
			if axis < 0 {
				continue
			}

			// Push i towards its own side of j.
			sign := float32(-1)
			if boxI.Center().Component(axis) > boxJ.Center().Component(axis) {
				sign = 1
			}

			var moveI, moveJ float32
			switch {
			case bi.Kind == Fixed:
				moveJ = -sign * depth
			case bj.Kind == Fixed:
				moveI = sign * depth
			default:
				mi, mj := bi.Mass(), bj.Mass()
				total := mi + mj
				moveI = sign * depth * (mj / total)
				moveJ = -sign * depth * (mi / total)
			}

			unit := axisUnit(axis)
			if bi.Kind == Dynamic {
				bi.Transform.Position = bi.Transform.Position.Add(unit.Mul(moveI))
				bi.Velocity = stopAlong(bi.Velocity, axis)
			}
			if bj.Kind == Dynamic {
				bj.Transform.Position = bj.Transform.Position.Add(unit.Mul(moveJ))
				bj.Velocity = stopAlong(bj.Velocity, axis)
			}
			boxI = bi.Bounds()
		}
	}
}

// penetrationAxis returns the overlap depth and axis (0=X, 1=Y, 2=Z) of
// least penetration, or (0, -1) when the boxes do not overlap.
func penetrationAxis(a, b scene.AABB) (depth float32, axis int) {
	overlapX := math32.Min(a.Max.X, b.Max.X) - math32.Max(a.Min.X, b.Min.X)
	overlapY := math32.Min(a.Max.Y, b.Max.Y) - math32.Max(a.Min.Y, b.Min.Y)
	overlapZ := math32.Min(a.Max.Z, b.Max.Z) - math32.Max(a.Min.Z, b.Min.Z)
	if overlapX <= 0 || overlapY <= 0 || overlapZ <= 0 {
		return 0, -1
	}
	depth, axis = overlapX, 0
	if overlapY < depth {
		depth, axis = overlapY, 1
	}
	if overlapZ < depth {
		depth, axis = overlapZ, 2
	}
	return depth, axis
}

func axisUnit(axis int) remath.Vec3 {
	switch axis {
	case 0:
		return remath.Vec3{X: 1}
	case 1:
		return remath.Vec3{Y: 1}
	default:
		return remath.Vec3{Z: 1}
	}
}

func stopAlong(v remath.Vec3, axis int) remath.Vec3 {
	return v.Sub(axisUnit(axis).Mul(v.Component(axis)))
}
