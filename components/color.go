package components

import (
	"fmt"

	"github.com/pthm-cable/habitat/stochastic"
)

// Color is an RGB triple. Creatures sharing a Color form a family.
type Color struct {
	R, G, B uint8
}

// RandomColor draws each channel uniformly from [50, 255].
func RandomColor(v stochastic.Variates) Color {
	return Color{
		R: uint8(v.IntRange(50, 255)),
		G: uint8(v.IntRange(50, 255)),
		B: uint8(v.IntRange(50, 255)),
	}
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// ParseHex parses a color written by Hex.
func ParseHex(s string) (Color, error) {
	var c Color
	if len(s) != 7 {
		return c, fmt.Errorf("invalid color %q", s)
	}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// Name returns the closest named color, used as a readable family label.
func (c Color) Name() string {
	best := ""
	bestD := -1
	for _, n := range namedColors {
		dr := int(c.R) - int(n.c.R)
		dg := int(c.G) - int(n.c.G)
		db := int(c.B) - int(n.c.B)
		d := dr*dr + dg*dg + db*db
		if bestD < 0 || d < bestD {
			best, bestD = n.name, d
		}
	}
	return best
}

type namedColor struct {
	name string
	c    Color
}

// CSS color keywords reachable from channels >= 50.
var namedColors = []namedColor{
	{"aquamarine", Color{127, 255, 212}},
	{"beige", Color{245, 245, 220}},
	{"blueviolet", Color{138, 43, 226}},
	{"burlywood", Color{222, 184, 135}},
	{"cadetblue", Color{95, 158, 160}},
	{"chartreuse", Color{127, 255, 0}},
	{"chocolate", Color{210, 105, 30}},
	{"coral", Color{255, 127, 80}},
	{"cornflowerblue", Color{100, 149, 237}},
	{"crimson", Color{220, 20, 60}},
	{"cyan", Color{0, 255, 255}},
	{"darkcyan", Color{0, 139, 139}},
	{"darkgoldenrod", Color{184, 134, 11}},
	{"darkgray", Color{169, 169, 169}},
	{"darkkhaki", Color{189, 183, 107}},
	{"darkolivegreen", Color{85, 107, 47}},
	{"darkorange", Color{255, 140, 0}},
	{"darkorchid", Color{153, 50, 204}},
	{"darksalmon", Color{233, 150, 122}},
	{"darkseagreen", Color{143, 188, 143}},
	{"darkslateblue", Color{72, 61, 139}},
	{"darkslategray", Color{47, 79, 79}},
	{"deeppink", Color{255, 20, 147}},
	{"deepskyblue", Color{0, 191, 255}},
	{"dimgray", Color{105, 105, 105}},
	{"dodgerblue", Color{30, 144, 255}},
	{"firebrick", Color{178, 34, 34}},
	{"forestgreen", Color{34, 139, 34}},
	{"gold", Color{255, 215, 0}},
	{"goldenrod", Color{218, 165, 32}},
	{"gray", Color{128, 128, 128}},
	{"greenyellow", Color{173, 255, 47}},
	{"hotpink", Color{255, 105, 180}},
	{"indianred", Color{205, 92, 92}},
	{"khaki", Color{240, 230, 140}},
	{"lavender", Color{230, 230, 250}},
	{"lightblue", Color{173, 216, 230}},
	{"lightcoral", Color{240, 128, 128}},
	{"lightgreen", Color{144, 238, 144}},
	{"lightpink", Color{255, 182, 193}},
	{"lightsalmon", Color{255, 160, 122}},
	{"lightseagreen", Color{32, 178, 170}},
	{"lightskyblue", Color{135, 206, 250}},
	{"lightslategray", Color{119, 136, 153}},
	{"lightsteelblue", Color{176, 196, 222}},
	{"limegreen", Color{50, 205, 50}},
	{"mediumaquamarine", Color{102, 205, 170}},
	{"mediumorchid", Color{186, 85, 211}},
	{"mediumpurple", Color{147, 112, 219}},
	{"mediumseagreen", Color{60, 179, 113}},
	{"mediumslateblue", Color{123, 104, 238}},
	{"mediumvioletred", Color{199, 21, 133}},
	{"olivedrab", Color{107, 142, 35}},
	{"orange", Color{255, 165, 0}},
	{"orchid", Color{218, 112, 214}},
	{"palegreen", Color{152, 251, 152}},
	{"paleturquoise", Color{175, 238, 238}},
	{"palevioletred", Color{219, 112, 147}},
	{"peru", Color{205, 133, 63}},
	{"pink", Color{255, 192, 203}},
	{"plum", Color{221, 160, 221}},
	{"rosybrown", Color{188, 143, 143}},
	{"royalblue", Color{65, 105, 225}},
	{"salmon", Color{250, 128, 114}},
	{"sandybrown", Color{244, 164, 96}},
	{"seagreen", Color{46, 139, 87}},
	{"sienna", Color{160, 82, 45}},
	{"silver", Color{192, 192, 192}},
	{"skyblue", Color{135, 206, 235}},
	{"slateblue", Color{106, 90, 205}},
	{"slategray", Color{112, 128, 144}},
	{"springgreen", Color{0, 255, 127}},
	{"steelblue", Color{70, 130, 180}},
	{"tan", Color{210, 180, 140}},
	{"thistle", Color{216, 191, 216}},
	{"tomato", Color{255, 99, 71}},
	{"turquoise", Color{64, 224, 208}},
	{"violet", Color{238, 130, 238}},
	{"wheat", Color{245, 222, 179}},
	{"white", Color{255, 255, 255}},
	{"yellow", Color{255, 255, 0}},
	{"yellowgreen", Color{154, 205, 50}},
}
