// Package components defines the entity data of the simulation.
package components

import "math"

// Position is an integer grid cell.
type Position struct {
	X, Y int
}

// Add returns p translated by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Located is anything with a grid position.
type Located interface {
	Location() Position
}

// Distance returns the Euclidean distance between two cells.
func Distance(a, b Position) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// Clamp keeps p inside a size x size grid.
func Clamp(p Position, size int) Position {
	return Position{X: clampInt(p.X, 0, size-1), Y: clampInt(p.Y, 0, size-1)}
}

// InBounds reports whether p lies inside a size x size grid.
func InBounds(p Position, size int) bool {
	return p.X >= 0 && p.X < size && p.Y >= 0 && p.Y < size
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
