// Package renderer draws the simulation grid and the end-of-run screen with raylib.
package renderer

import (
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/sim"
)

// Palette used on the white grid.
var (
	Background  = rl.RayWhite
	GridLine    = rl.Color{R: 220, G: 220, B: 220, A: 255}
	FoodColor   = rl.Color{R: 0, G: 200, B: 0, A: 255}
	Threat      = rl.Color{R: 230, G: 40, B: 40, A: 40}
	ReachColor  = rl.Color{R: 40, G: 40, B: 230, A: 70}
	KillColor   = rl.Color{R: 200, G: 30, B: 30, A: 200}
	StarveColor = rl.Color{R: 100, G: 80, B: 60, A: 150}
)

// Layers selects optional drawing passes.
type Layers struct {
	Grid      bool
	IDs       bool
	Families  bool
	Detection bool
	Reach     bool
}

// GridRenderer draws food and live creatures cell by cell.
type GridRenderer struct {
	cellSize int32
	offsetY  int32

	detectionRadius float64
	eatDivisor      float64
}

// NewGridRenderer creates a renderer drawing cellSize-pixel cells below offsetY.
func NewGridRenderer(cellSize, offsetY int32, detectionRadius, eatDivisor float64) *GridRenderer {
	return &GridRenderer{
		cellSize:        cellSize,
		offsetY:         offsetY,
		detectionRadius: detectionRadius,
		eatDivisor:      eatDivisor,
	}
}

// CellCenter returns the screen position of a cell's centre.
func (g *GridRenderer) CellCenter(p components.Position) (int32, int32) {
	return int32(p.X)*g.cellSize + g.cellSize/2, int32(p.Y)*g.cellSize + g.cellSize/2 + g.offsetY
}

// CellAt maps a screen point to a grid cell.
func (g *GridRenderer) CellAt(x, y int32) components.Position {
	return components.Position{
		X: int(x / g.cellSize),
		Y: int((y - g.offsetY) / g.cellSize),
	}
}

// Draw renders the view. Must be called between BeginDrawing and EndDrawing.
func (g *GridRenderer) Draw(v sim.View, layers Layers) {
	side := int32(v.GridSize) * g.cellSize
	rl.DrawRectangle(0, g.offsetY, side, side, Background)

	if layers.Grid {
		for i := int32(0); i <= int32(v.GridSize); i++ {
			rl.DrawLine(i*g.cellSize, g.offsetY, i*g.cellSize, g.offsetY+side, GridLine)
			rl.DrawLine(0, g.offsetY+i*g.cellSize, side, g.offsetY+i*g.cellSize, GridLine)
		}
	}

	for _, f := range v.Food {
		x, y := g.CellCenter(f)
		rl.DrawCircle(x, y, float32(g.cellSize)/3, FoodColor)
	}

	scale := float32(g.cellSize)
	for _, c := range v.Creatures {
		x, y := g.CellCenter(c.Pos)
		if layers.Detection && !c.Carnivore {
			rl.DrawCircle(x, y, float32(g.detectionRadius)*scale, Threat)
		}
		if layers.Reach {
			rl.DrawCircleLines(x, y, float32(float64(c.Size)/g.eatDivisor)*scale, ReachColor)
		}
	}

	for _, c := range v.Creatures {
		x, y := g.CellCenter(c.Pos)
		// Size is in pixels at the default 40px cell, scaled with the cell
		radius := float32(c.Size) * scale / 80
		rl.DrawCircle(x, y, radius, rl.Color{R: c.Color.R, G: c.Color.G, B: c.Color.B, A: 255})
		if c.Carnivore {
			rl.DrawCircleLines(x, y, radius+1, Carnivore)
		}

		var label string
		switch {
		case layers.IDs:
			label = strconv.FormatUint(uint64(c.ID), 10)
		case layers.Families:
			label = c.Color.Name()
		}
		if label == "" {
			continue
		}
		color := rl.Black
		if c.Carnivore {
			color = Carnivore
		}
		rl.DrawText(label, x-g.cellSize/2, y-g.cellSize/2, 12, color)
	}
}
