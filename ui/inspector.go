package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/components"
)

// Inspector shows the state of one selected creature.
type Inspector struct {
	renderer *Renderer
	width    int32
	selected components.ID
}

// NewInspector creates an inspector panel of the given width.
func NewInspector(width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		width:    width,
	}
}

// Select remembers id as the inspected creature; 0 clears the selection.
func (in *Inspector) Select(id components.ID) { in.selected = id }

// Selected returns the inspected creature id, or 0.
func (in *Inspector) Selected() components.ID { return in.selected }

// Draw renders c at the given position. A nil or dead creature clears the selection.
func (in *Inspector) Draw(c *components.Creature, x, y int32, now, ttl float64) {
	if c == nil || c.Dead() {
		in.selected = 0
		return
	}

	r := in.renderer
	padding := r.Theme.Pad
	height := r.Theme.Line*12 + padding*2
	r.DrawPanel(x, y, in.width, height)

	px := x + padding
	py := y + padding
	rl.DrawText(fmt.Sprintf("Creature #%d", c.ID), px, py, 16, rl.White)
	py += r.Theme.Line + 4

	py = r.DrawColorSwatch(px, py, "Family", c.Color)
	py = r.DrawLabelValue(px, py, "Diet", c.Kind())
	py = r.DrawLabelValue(px, py, "Persona", c.Personality.String())
	py = r.DrawLabelValue(px, py, "Size", fmt.Sprintf("%d", c.Size))
	py = r.DrawLabelValue(px, py, "Speed", fmt.Sprintf("%.2f", c.Speed))
	py = r.DrawLabelValue(px, py, "Cell", fmt.Sprintf("(%d, %d)", c.Pos.X, c.Pos.Y))
	py = r.DrawLabelValue(px, py, "Age", fmt.Sprintf("%.1fs", c.Age(now)))
	py = r.DrawLabelValue(px, py, "Food", fmt.Sprintf("%d held, %d spent", c.FoodEaten, c.TotalFoodEaten))
	py = r.DrawLabelValue(px, py, "Litters", fmt.Sprintf("%d", c.Reproductions))
	r.DrawHungerBar(px, py, "Hunger", now-c.LastEatTime, ttl, in.width-padding*2)
}
