package physics

import (
	"debris-sandbox/collider"
	"debris-sandbox/core"
	"debris-sandbox/materials"
	remath "debris-sandbox/math"
	"debris-sandbox/scene"
)

type BodyKind int

const (
	// Fixed bodies never move and ignore gravity.
	Fixed BodyKind = iota
	Dynamic
)

func (k BodyKind) String() string {
	if k == Fixed {
		return "fixed"
	}
	return "dynamic"
}

// RigidBody is a simulated object. Collider and Mesh may be shared between
// bodies; neither is modified by the world.
type RigidBody struct {
	ID       uint64
	Name     string
	Kind     BodyKind
	Collider *collider.ConvexCollider
	Mesh     *scene.TriangleMesh

	Transform core.Transform
	Material  *materials.Material

	// GravityScale overrides the world's gravity multiplier when set.
	GravityScale *float32
	Velocity     remath.Vec3
}

// GravityScale returns a pointer suitable for RigidBody.GravityScale.
func GravityScale(s float32) *float32 {
	return &s
}

// EffectiveGravityScale is the multiplier applied to world gravity; 1 when
// no override is set.
func (b *RigidBody) EffectiveGravityScale() float32 {
	if b.GravityScale == nil {
		return 1
	}
	return *b.GravityScale
}

// Mass is derived from hull volume so bigger chunks push smaller ones.
func (b *RigidBody) Mass() float32 {
	if b.Collider == nil {
		return 1
	}
	return b.Collider.Volume()
}

// Bounds returns the world-space AABB of the body's collider.
func (b *RigidBody) Bounds() scene.AABB {
	local := b.Collider.Bounds()
	if b.Transform.Rotation == remath.QuaternionIdentity() {
		return local.Translate(b.Transform.Position)
	}
	return local.Transform(b.Transform.GetMatrix())
}
