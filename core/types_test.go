package core

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"

	"debris-sandbox/math"
)

func TestNewTransformIsUnrotated(t *testing.T) {
	tr := NewTransform(math.Vec3{X: 1, Y: 2, Z: 3})
	assert.Equal(t, math.QuaternionIdentity(), tr.Rotation)
	assert.Equal(t, math.Vec3{X: 2, Y: 2, Z: 3}, tr.Apply(math.Vec3{X: 1}))
}

func TestGetMatrixMatchesApply(t *testing.T) {
	tr := NewTransform(math.Vec3{X: 5, Y: -1, Z: 2})
	tr.Rotation = math.QuaternionFromAxisAngle(math.Vec3Up, math32.Pi/2)

	m := tr.GetMatrix()
	for _, p := range []math.Vec3{{X: 1}, {Y: 1}, {Z: 1}, {X: 1, Y: 2, Z: 3}} {
		want := tr.Apply(p)
		got := m.MulPoint(p)
		assert.True(t, want.ApproxEqual(got, 1e-5), "p=%v want %v got %v", p, want, got)
	}
}
