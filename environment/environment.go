// Package environment builds the fixed level geometry: a ground slab and
// three walls that keep debris inside the play area.
package environment

import (
	"errors"
	"fmt"

	"debris-sandbox/collider"
	"debris-sandbox/core"
	"debris-sandbox/materials"
	remath "debris-sandbox/math"
	"debris-sandbox/physics"
	"debris-sandbox/scene"
)

// ErrStaticCollider means a level shape produced no collider. The level
// cannot be built without it.
var ErrStaticCollider = errors.New("static collider synthesis failed")

// Inserter is the part of the world the builder needs.
type Inserter interface {
	Insert(b *physics.RigidBody) error
}

// Level dimensions.
var (
	GroundSize     = remath.Vec3{X: 10000, Y: 1, Z: 10000}
	GroundPosition = remath.Vec3{X: 0, Y: -2, Z: 0}

	SideWallSize      = remath.Vec3{X: 1, Y: 40, Z: 100}
	LeftWallPosition  = remath.Vec3{X: -40, Y: 18, Z: 0}
	RightWallPosition = remath.Vec3{X: 40, Y: 18, Z: 0}

	BackWallSize     = remath.Vec3{X: 81, Y: 40, Z: 1}
	BackWallPosition = remath.Vec3{X: 0, Y: 18, Z: -50}
)

// Layout is what Build inserted.
type Layout struct {
	Ground    *physics.RigidBody
	LeftWall  *physics.RigidBody
	RightWall *physics.RigidBody
	BackWall  *physics.RigidBody
}

// Bodies returns the four bodies in insertion order.
func (l *Layout) Bodies() []*physics.RigidBody {
	return []*physics.RigidBody{l.Ground, l.LeftWall, l.RightWall, l.BackWall}
}

type shape struct {
	mesh     *scene.TriangleMesh
	collider *collider.ConvexCollider
}

func buildShape(name string, size remath.Vec3) (shape, error) {
	mesh := scene.CreateBox(size.X, size.Y, size.Z)
	mesh.Name = name
	c, ok := collider.Synthesize(mesh)
	if !ok {
		return shape{}, fmt.Errorf("%s: %w", name, ErrStaticCollider)
	}
	return shape{mesh: mesh, collider: c}, nil
}

// Build inserts the ground and walls as fixed bodies. The two side walls
// share one mesh and one collider. Any failure aborts the whole build.
func Build(w Inserter, f materials.Factory) (*Layout, error) {
	ground, err := buildShape("ground", GroundSize)
	if err != nil {
		return nil, err
	}
	side, err := buildShape("side_wall", SideWallSize)
	if err != nil {
		return nil, err
	}
	back, err := buildShape("back_wall", BackWallSize)
	if err != nil {
		return nil, err
	}

	groundMat := f.ForColor(core.ColorGround)
	wallMat := f.ForColor(core.ColorWall)

	fixed := func(name string, s shape, pos remath.Vec3, m *materials.Material) *physics.RigidBody {
		return &physics.RigidBody{
			Name:      name,
			Kind:      physics.Fixed,
			Collider:  s.collider,
			Mesh:      s.mesh,
			Transform: core.NewTransform(pos),
			Material:  m,
		}
	}

	layout := &Layout{
		Ground:    fixed("ground", ground, GroundPosition, groundMat),
		LeftWall:  fixed("left_wall", side, LeftWallPosition, wallMat),
		RightWall: fixed("right_wall", side, RightWallPosition, wallMat),
		BackWall:  fixed("back_wall", back, BackWallPosition, wallMat),
	}
	for _, b := range layout.Bodies() {
		if err := w.Insert(b); err != nil {
			return nil, fmt.Errorf("insert %s: %w", b.Name, err)
		}
	}
	return layout, nil
}
