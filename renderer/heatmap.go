package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/analysis"
)

// HeatColor maps a normalized value in [0, 1] onto black, red, then yellow.
func HeatColor(value float32, alpha uint8) rl.Color {
	value = min(max(value, 0), 1)
	switch {
	case value < 0.3:
		t := value / 0.3
		return rl.Color{R: uint8(120 * t), G: 0, B: 0, A: alpha}
	case value < 0.6:
		t := (value - 0.3) / 0.3
		return rl.Color{R: uint8(120 + 135*t), G: uint8(60 * t), B: 0, A: alpha}
	default:
		t := (value - 0.6) / 0.4
		return rl.Color{R: 255, G: uint8(60 + 195*t), B: uint8(80 * t), A: alpha}
	}
}

// DrawHeatmap renders hm scaled into the rectangle at (x, y) of size w x h,
// with y increasing upwards.
func DrawHeatmap(hm analysis.Heatmap, x, y, w, h int32, alpha uint8) {
	rl.DrawRectangleLines(x, y, w, h, rl.Gray)
	peak := hm.Max()
	if peak == 0 {
		rl.DrawText("no movement recorded", x+8, y+h/2-6, 12, rl.Gray)
		return
	}

	cellW := float32(w) / float32(hm.Width)
	cellH := float32(h) / float32(hm.Height)
	for i := 0; i < hm.Width; i++ {
		for j := 0; j < hm.Height; j++ {
			count := hm.Counts[i][j]
			if count == 0 {
				continue
			}
			row := hm.Height - 1 - j
			rl.DrawRectangle(
				x+int32(float32(i)*cellW),
				y+int32(float32(row)*cellH),
				int32(cellW)+1,
				int32(cellH)+1,
				HeatColor(float32(count/peak), alpha),
			)
		}
	}
}
