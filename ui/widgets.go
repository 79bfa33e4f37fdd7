// Package ui draws the setup screen, HUD and side panels of the graphical front end.
package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/renderer"
)

// Theme holds panel styling and the colours shared with the grid.
type Theme struct {
	Panel, Border rl.Color
	Header        rl.Color
	Label, Value  rl.Color
	Muted         rl.Color
	Track         rl.Color

	Herbivore, Carnivore, Food rl.Color
	Kill, Starve               rl.Color

	// Hunger bar by share of time to live used: Fed below 0.4, Starving above 0.7
	Fed, Hungry, Starving rl.Color

	Pad, Line, LabelW, BarH int32
	Font, HeaderFont        int32
}

var defaultTheme = Theme{
	Panel:  rl.Color{R: 24, G: 28, B: 24, A: 235},
	Border: rl.Color{R: 70, G: 90, B: 70, A: 255},
	Header: rl.Color{R: 235, G: 215, B: 120, A: 255},
	Label:  rl.Color{R: 170, G: 180, B: 170, A: 255},
	Value:  rl.Color{R: 230, G: 235, B: 230, A: 255},
	Muted:  rl.Color{R: 110, G: 120, B: 110, A: 255},
	Track:  rl.Color{R: 45, G: 50, B: 45, A: 255},

	Herbivore: rl.Color{R: 120, G: 190, B: 255, A: 255},
	Carnivore: renderer.Carnivore,
	Food:      renderer.FoodColor,
	Kill:      rl.Color{R: renderer.KillColor.R, G: renderer.KillColor.G, B: renderer.KillColor.B, A: 255},
	Starve:    rl.Color{R: renderer.StarveColor.R, G: renderer.StarveColor.G, B: renderer.StarveColor.B, A: 255},

	Fed:      renderer.FoodColor,
	Hungry:   rl.Color{R: 220, G: 180, B: 60, A: 255},
	Starving: renderer.KillColor,

	Pad: 10, Line: 16, LabelW: 64, BarH: 10,
	Font: 12, HeaderFont: 14,
}

// Diet returns the accent colour for a diet.
func (t Theme) Diet(carnivore bool) rl.Color {
	if carnivore {
		return t.Carnivore
	}
	return t.Herbivore
}

// HungerColor picks the bar colour for the share of time to live since the last meal.
func (t Theme) HungerColor(ratio float32) rl.Color {
	switch {
	case ratio > 0.7:
		return t.Starving
	case ratio > 0.4:
		return t.Hungry
	}
	return t.Fed
}

// Renderer draws widgets in one theme.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: defaultTheme}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.Panel)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.Border)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFont, r.Theme.Header)
	return y + r.Theme.Line
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.Font, r.Theme.Label)
	rl.DrawText(value, x+r.Theme.LabelW, y, r.Theme.Font, r.Theme.Value)
	return y + r.Theme.Line
}

// DrawBar draws a progress bar for [0, 1] values filled with fill.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, width int32, fill rl.Color) int32 {
	value = clamp01(value)

	barX := x + r.Theme.LabelW
	barWidth := width - r.Theme.LabelW - 50

	rl.DrawText(label+":", x, y, r.Theme.Font, r.Theme.Label)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarH, r.Theme.Track)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*value), r.Theme.BarH, fill)
	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, r.Theme.Font, r.Theme.Value)

	return y + r.Theme.Line + 2
}

// DrawHungerBar draws time since the last meal against the time to live,
// turning red as starvation nears.
func (r *Renderer) DrawHungerBar(x, y int32, label string, hungry, ttl float64, width int32) int32 {
	ratio := float32(0)
	if ttl > 0 {
		ratio = clamp01(float32(hungry / ttl))
	}

	barX := x + r.Theme.LabelW
	barWidth := width - r.Theme.LabelW - 80

	rl.DrawText(label+":", x, y, r.Theme.Font, r.Theme.Label)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarH, r.Theme.Track)

	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*ratio), r.Theme.BarH, r.Theme.HungerColor(ratio))
	rl.DrawText(fmt.Sprintf("%.1f/%.0fs", hungry, ttl), barX+barWidth+5, y, r.Theme.Font, r.Theme.Value)

	return y + r.Theme.Line + 2
}

// DrawColorSwatch draws a color preview square with label.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, c components.Color) int32 {
	rl.DrawText(label+":", x, y, r.Theme.Font, r.Theme.Label)
	rl.DrawRectangle(x+r.Theme.LabelW, y, 20, 12, ToRL(c))
	rl.DrawRectangleLines(x+r.Theme.LabelW, y, 20, 12, rl.White)
	rl.DrawText(c.Name(), x+r.Theme.LabelW+26, y, r.Theme.Font, r.Theme.Value)
	return y + r.Theme.Line
}

// ToRL converts a creature color to a raylib color.
func ToRL(c components.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}
