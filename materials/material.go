package materials

import (
	"fmt"

	"debris-sandbox/core"
)

// Material is an opaque handle the world and renderer share. Bodies only
// ever hold the pointer handed out by a Factory.
type Material struct {
	ID    int
	Name  string
	Color core.Color

	// Opacity below 1 asks the renderer to blend.
	Opacity float32
}

// NewMaterial creates a new material with default values
func NewMaterial(id int, name string, color core.Color) *Material {
	return &Material{
		ID:      id,
		Name:    name,
		Color:   color,
		Opacity: color.A,
	}
}

// Translucent reports whether the material needs alpha blending.
func (m *Material) Translucent() bool {
	return m.Opacity < 1
}

func (m *Material) String() string {
	return fmt.Sprintf("%s#%d", m.Name, m.ID)
}

// Factory turns a colour into a material reference.
type Factory interface {
	ForColor(c core.Color) *Material
}

// --- Default Material Library ---

var colorNames = map[core.Color]string{
	core.ColorWhite:  "white",
	core.ColorBlack:  "black",
	core.ColorRed:    "red",
	core.ColorBlue:   "blue",
	core.ColorPink:   "pink",
	core.ColorOrange: "orange",
	core.ColorPurple: "purple",
	core.ColorCyan:   "cyan",
	core.ColorGround: "ground",
	core.ColorWall:   "westrac",
}

// Library is the default Factory. It hands out one material per distinct
// colour, so every red debris body shares the same *Material. Not safe for
// concurrent use; it lives on the tick goroutine with the world.
type Library struct {
	byColor map[core.Color]*Material
	order   []*Material
}

func NewLibrary() *Library {
	return &Library{byColor: make(map[core.Color]*Material)}
}

// ForColor returns the cached material for c, creating it on first use.
func (l *Library) ForColor(c core.Color) *Material {
	if m, ok := l.byColor[c]; ok {
		return m
	}
	name, ok := colorNames[c]
	if !ok {
		name = fmt.Sprintf("rgba(%.3g,%.3g,%.3g,%.3g)", c.R, c.G, c.B, c.A)
	}
	m := NewMaterial(len(l.order), name, c)
	l.byColor[c] = m
	l.order = append(l.order, m)
	return m
}

// Len returns the number of distinct materials created so far.
func (l *Library) Len() int {
	return len(l.order)
}

// All returns the materials in creation order.
func (l *Library) All() []*Material {
	out := make([]*Material, len(l.order))
	copy(out, l.order)
	return out
}
