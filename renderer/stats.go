package renderer

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/analysis"
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/telemetry"
)

// StatsData is what the end-of-run screen shows.
type StatsData struct {
	Run         int
	Reason      string
	Ticks       int
	SimTime     float64
	Population  int
	Dead        int
	Leaderboard *telemetry.Leaderboard
	Heatmap     analysis.Heatmap
}

// DrawStats renders the end-of-run leaderboards and walk heatmap and
// reports whether Restart was pressed (or Enter).
func DrawStats(d StatsData, width, height int32) bool {
	rl.ClearBackground(rl.RayWhite)

	x := int32(40)
	y := int32(20)
	rl.DrawText(fmt.Sprintf("Run %d ended: %s", d.Run, d.Reason), x, y, 24, rl.DarkGray)
	y += 30
	rl.DrawText(fmt.Sprintf("%d ticks, %.1fs simulated, %d creatures, %d dead", d.Ticks, d.SimTime, d.Population, d.Dead), x, y, 14, rl.Gray)
	y += 30

	if lb := d.Leaderboard; lb != nil {
		y = drawBoard(x, y, "Top creatures by time alive", lb.TimeAlive, "%.2fs alive")
		y = drawBoard(x, y, "Top creatures by food eaten", lb.FoodEaten, "%.0f eaten")
		y = drawBoard(x, y, "Top creatures by litters", lb.Reproductions, "%.0f litters")

		rl.DrawText("Largest families", x, y, 18, rl.Black)
		y += 24
		for _, f := range lb.Families {
			rl.DrawText(fmt.Sprintf("%s: %d members", f.Family, f.Members), x, y, 14, entryColor(f.Color))
			y += 18
		}
	}

	side := min(width/3, height/3)
	hx := width - side - 40
	rl.DrawText("Walk displacement", hx, 60, 14, rl.DarkGray)
	DrawHeatmap(d.Heatmap, hx, 80, side, side, 255)

	return gui.Button(rl.Rectangle{X: float32(width/2 - 125), Y: float32(height - 70), Width: 250, Height: 40}, "Restart") ||
		rl.IsKeyPressed(rl.KeyEnter)
}

func drawBoard(x, y int32, title string, entries []telemetry.LeaderEntry, scoreFormat string) int32 {
	rl.DrawText(title, x, y, 18, rl.Black)
	y += 24
	for _, e := range entries {
		color := entryColor(e.Color)
		score := fmt.Sprintf(scoreFormat, e.Score)
		rl.DrawText(fmt.Sprintf("ID %d - %s - speed %.2f - size %d - family %s", e.ID, score, e.Speed, e.Size, e.Family), x, y, 14, color)
		y += 16
		kind := "herbivore"
		if e.Carnivore {
			kind = "carnivore"
		}
		rl.DrawText(fmt.Sprintf("%s, %s", kind, e.Personality), x+12, y, 12, color)
		y += 20
	}
	return y + 8
}

func entryColor(hex string) rl.Color {
	c, err := components.ParseHex(hex)
	if err != nil {
		return rl.Black
	}
	return rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
}
