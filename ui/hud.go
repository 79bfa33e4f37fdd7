package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Run        int
	Herbivores int
	Carnivores int
	Food       int
	Dead       int
	Population int
	Regime     string
	Tick       int
	SimTime    float64
	FPS        int32
	Paused     bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD in a strip at the top of the screen.
func (h *HUD) Draw(data HUDData, width int32) {
	h.renderer.DrawPanel(0, 0, width, 64)

	rl.DrawText(fmt.Sprintf("%s  run %d", data.Title, data.Run), 10, 6, 18, rl.White)

	t := h.renderer.Theme
	x := int32(10)
	for _, part := range []struct {
		text  string
		color rl.Color
	}{
		{fmt.Sprintf("Herbivores: %d", data.Herbivores), t.Diet(false)},
		{fmt.Sprintf("Carnivores: %d", data.Carnivores), t.Diet(true)},
		{fmt.Sprintf("Food: %d", data.Food), t.Food},
		{fmt.Sprintf("Dead: %d/%d", data.Dead, data.Population), t.Label},
	} {
		rl.DrawText(part.text, x, 28, 14, part.color)
		x += rl.MeasureText(part.text, 14) + 16
	}

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Time: %.1fs | Regime: %s | FPS: %d", data.Tick, data.SimTime, data.Regime, data.FPS),
		10, 46, 14, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", width-80, 6, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-20, 12, rl.Gray)
}

// PerfPanel renders step phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the average step, then one line per phase with its share of
// the step and the time per handled item.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	t := p.renderer.Theme
	x, y := p.x, p.y

	p.renderer.DrawPanel(x-6, y-6, 236, t.Line*int32(telemetry.NumPerfPhases+2)+12)

	y = p.renderer.DrawSectionHeader(x, y, "Step")
	rl.DrawText(fmt.Sprintf("%s avg, %.0f ticks/s", stats.AvgStep.Round(time.Microsecond), stats.TicksPerSecond), x, y, t.Font, t.Value)
	y += t.Line

	for i, ph := range stats.Phases {
		color := t.Label
		if ph.Pct > 50 {
			color = t.Starving
		} else if ph.Pct > 25 {
			color = t.Hungry
		}
		line := fmt.Sprintf("%-10s %5.1f%%", telemetry.PerfPhase(i), ph.Pct)
		if ph.Work > 0 {
			line += fmt.Sprintf("  %5.1f x %s", ph.Work, ph.PerWork().Round(time.Microsecond/10))
		}
		rl.DrawText(line, x, y, t.Font, color)
		y += t.Line
	}
}
