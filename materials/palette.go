package materials

import "debris-sandbox/core"

// Palette is the ordered list of debris colours. Asset i is painted with
// At(i), so colours repeat every len(p) assets.
type Palette []core.Color

func DefaultPalette() Palette {
	return Palette{
		core.ColorRed,
		core.ColorBlue,
		core.ColorPink,
		core.ColorOrange,
		core.ColorPurple,
		core.ColorCyan,
	}
}

// At returns p[i mod len(p)]. An empty palette paints everything white.
func (p Palette) At(i int) core.Color {
	if len(p) == 0 {
		return core.ColorWhite
	}
	i %= len(p)
	if i < 0 {
		i += len(p)
	}
	return p[i]
}
