package core

import (
	"debris-sandbox/math"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}

	// Debris palette entries.
	ColorRed    = Color{1, 0, 0, 1}
	ColorBlue   = Color{0, 0, 1, 1}
	ColorPink   = Color{1, 0.08, 0.58, 1}
	ColorOrange = Color{1, 0.65, 0, 1}
	ColorPurple = Color{0.5, 0, 0.5, 1}
	ColorCyan   = Color{0, 1, 1, 1}

	// Level geometry.
	ColorGround = Color{0.7, 0.7, 0.8, 0.5}
	ColorWall   = Color{1, 0.8, 0.067, 1}
	ColorSky    = Color{0.08, 0.09, 0.11, 1}
)

// Transform is a rigid pose. Bodies never scale, so there is no Scale field.
type Transform struct {
	Position math.Vec3
	Rotation math.Quaternion
}

func NewTransform(position math.Vec3) Transform {
	return Transform{
		Position: position,
		Rotation: math.QuaternionIdentity(),
	}
}

// GetMatrix returns the model matrix: rotate about the origin, then translate.
func (t Transform) GetMatrix() math.Mat4 {
	return t.Rotation.ToMat4().Mul(math.Mat4Translation(t.Position))
}

// Apply maps a local-space point into world space.
func (t Transform) Apply(p math.Vec3) math.Vec3 {
	return t.Rotation.RotateVector(p).Add(t.Position)
}
