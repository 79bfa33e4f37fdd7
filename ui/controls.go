package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/telemetry"
)

// RunControls is the state of the running simulation as the player controls it.
type RunControls struct {
	Paused      bool
	Speedup     int
	MaxSpeedup  int
	TicksPerSec int
	Selected    components.ID
}

// controlRow is one key binding line. Dim rows have no effect right now.
type controlRow struct {
	Key    string
	Label  string
	Toggle bool
	On     bool
	Dim    bool
}

// controlRows lists the run bindings for rc followed by the overlay toggles.
func controlRows(rc RunControls, overlays *OverlayRegistry) []controlRow {
	pause := "Pause"
	if rc.Paused {
		pause = "Resume"
	}
	inspect := controlRow{Key: "LMB", Label: "Inspect creature"}
	if rc.Selected != 0 {
		inspect = controlRow{Key: "RMB", Label: fmt.Sprintf("Release #%d", rc.Selected)}
	}
	rows := []controlRow{
		{Key: "SPACE", Label: pause},
		{Key: ",", Label: "Slower", Dim: rc.Speedup <= 1},
		{Key: ".", Label: "Faster", Dim: rc.Speedup >= rc.MaxSpeedup},
		{Key: "ESC", Label: "Stop run"},
		inspect,
		{Key: "TAB", Label: "Hide controls"},
	}
	for _, d := range overlays.All() {
		rows = append(rows, controlRow{Key: d.KeyLabel, Label: d.Name, Toggle: true, On: overlays.IsEnabled(d.ID)})
	}
	return rows
}

// ControlsPanel lists the run controls and overlay toggles in the sidebar.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool { return c.visible }

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and returns the y below it.
func (c *ControlsPanel) Draw(rc RunControls, overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}
	r := c.renderer
	t := r.Theme
	rows := controlRows(rc, overlays)

	height := t.Pad*2 + t.Line*int32(len(rows)+6) + 8
	r.DrawPanel(c.x, c.y, c.width, height)

	x := c.x + t.Pad
	y := c.y + t.Pad
	y = r.DrawSectionHeader(x, y, "Run")

	status, color := fmt.Sprintf("Running, %d ticks/s", rc.TicksPerSec), t.Fed
	if rc.Paused {
		status, color = "Paused", t.Hungry
	}
	rl.DrawText(status, x, y, t.Font, color)
	y += t.Line
	y = r.DrawBar(x, y, fmt.Sprintf("x%d", rc.Speedup), float32(rc.Speedup)/float32(max(rc.MaxSpeedup, 1)), c.width-t.Pad*2, t.Header)

	for _, row := range rows {
		c.drawRow(x, y, row)
		y += t.Line
	}

	y += 4
	c.drawLegend(x, y)
	return y + t.Line*2
}

func (c *ControlsPanel) drawRow(x, y int32, row controlRow) {
	t := c.renderer.Theme
	keyColor, labelColor := t.Header, t.Value
	if row.Dim {
		keyColor, labelColor = t.Muted, t.Muted
	}
	rl.DrawText(row.Key, x, y, t.Font, keyColor)

	lx := x + 48
	if row.Toggle {
		box := t.Track
		if row.On {
			box = t.Fed
		} else {
			labelColor = t.Label
		}
		rl.DrawRectangle(lx, y+2, 8, 8, box)
		lx += 14
	}
	rl.DrawText(row.Label, lx, y, t.Font, labelColor)
}

// drawLegend explains the grid symbols in two rows. Fill is the family colour.
func (c *ControlsPanel) drawLegend(x, y int32) {
	t := c.renderer.Theme
	dots := []struct {
		label string
		color rl.Color
		ring  bool
	}{
		{"creature", t.Label, false},
		{"carnivore", t.Carnivore, true},
		{"food", t.Food, false},
		{"kill", t.Kill, true},
		{"starved", t.Starve, true},
	}
	cx, cy := x, y
	for i, d := range dots {
		if i == 3 {
			cx, cy = x, y+t.Line
		}
		if d.ring {
			rl.DrawCircleLines(cx+5, cy+6, 5, d.color)
		} else {
			rl.DrawCircle(cx+5, cy+6, 5, d.color)
		}
		rl.DrawText(d.label, cx+14, cy, t.Font, t.Label)
		cx += 14 + rl.MeasureText(d.label, t.Font) + 12
	}
}

// QuickStatsPanel renders the most recent telemetry window.
type QuickStatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewQuickStatsPanel creates a new quick stats panel.
func NewQuickStatsPanel(x, y, width int32) *QuickStatsPanel {
	return &QuickStatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the quick stats panel.
func (q *QuickStatsPanel) Draw(stats telemetry.WindowStats) int32 {
	r := q.renderer
	padding := r.Theme.Pad
	lineHeight := r.Theme.Line

	panelHeight := lineHeight*9 + padding*2
	r.DrawPanel(q.x, q.y, q.width, panelHeight)

	y := q.y + padding
	rl.DrawText(fmt.Sprintf("Window to tick %d", stats.WindowEndTick), q.x+padding, y, 14, rl.White)
	y += lineHeight + 2

	x := q.x + padding
	y = r.DrawLabelValue(x, y, "Births", fmt.Sprintf("%d herb / %d carn", stats.HerbivoreBirths, stats.CarnivoreBirths))
	y = r.DrawLabelValue(x, y, "Deaths", fmt.Sprintf("%d (%d kills, %d starved)", stats.HerbivoreDeaths+stats.CarnivoreDeaths, stats.Kills, stats.Starvations))
	y = r.DrawLabelValue(x, y, "Grazed", fmt.Sprintf("%d of %d spawned", stats.Grazed, stats.Spawned))
	y = r.DrawBar(x, y, "Wander", float32(stats.WanderRate), q.width-padding*2, r.Theme.Muted)
	y = r.DrawLabelValue(x, y, "Size", fmt.Sprintf("%.1f +- %.1f", stats.SizeMean, stats.SizeStd))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%.2f +- %.2f", stats.SpeedMean, stats.SpeedStd))
	y = r.DrawLabelValue(x, y, "Families", fmt.Sprintf("%d", stats.ActiveFamilies))

	return y
}
