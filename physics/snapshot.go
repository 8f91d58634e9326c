package physics

import (
	"encoding/json"
	"fmt"
	"os"

	remath "debris-sandbox/math"
)

const snapshotVersion = "1"

// Snapshot is a JSON-friendly dump of world state. Geometry is not stored;
// Name identifies the mesh a body was built from.
type Snapshot struct {
	Version string      `json:"version"`
	Gravity [3]float32  `json:"gravity"`
	Bodies  []BodyState `json:"bodies"`
}

type BodyState struct {
	ID           uint64     `json:"id"`
	Name         string     `json:"name"`
	Kind         string     `json:"kind"`
	Position     [3]float32 `json:"position"`
	Rotation     [4]float32 `json:"rotation"` // x, y, z, w
	Velocity     [3]float32 `json:"velocity"`
	Mass         float32    `json:"mass"`
	GravityScale float32    `json:"gravity_scale"`
	Material     string     `json:"material,omitempty"`
	Color        [4]float32 `json:"color"`
}

// Snapshot captures every body in insertion order.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Version: snapshotVersion,
		Gravity: vec3ToArray(w.Gravity),
		Bodies:  make([]BodyState, 0, len(w.bodies)),
	}
	for _, b := range w.bodies {
		q := b.Transform.Rotation
		st := BodyState{
			ID:           b.ID,
			Name:         b.Name,
			Kind:         b.Kind.String(),
			Position:     vec3ToArray(b.Transform.Position),
			Rotation:     [4]float32{q.X, q.Y, q.Z, q.W},
			Velocity:     vec3ToArray(b.Velocity),
			Mass:         b.Mass(),
			GravityScale: b.EffectiveGravityScale(),
		}
		if m := b.Material; m != nil {
			st.Material = m.Name
			st.Color = [4]float32{m.Color.R, m.Color.G, m.Color.B, m.Color.A}
		}
		s.Bodies = append(s.Bodies, st)
	}
	return s
}

// SaveSnapshot writes s to path as indented JSON.
func SaveSnapshot(path string, s Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %q: %w", path, err)
	}
	return nil
}

func LoadSnapshot(path string) (Snapshot, error) {
	var s Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse snapshot %q: %w", path, err)
	}
	return s, nil
}

func vec3ToArray(v remath.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
