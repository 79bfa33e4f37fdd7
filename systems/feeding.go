package systems

import (
	"slices"

	"github.com/pthm-cable/habitat/components"
)

// Reach is the Euclidean distance within which c can eat.
func Reach(c *components.Creature, divisor float64) float64 {
	return float64(c.Size) / divisor
}

// Graze lets a live herbivore eat the first food point within reach.
// Returns the food slice with that point removed and whether anything was eaten.
func Graze(c *components.Creature, food []components.Food, divisor, now float64) ([]components.Food, bool) {
	if c.Dead() || c.Carnivore {
		return food, false
	}
	reach := Reach(c, divisor)
	for i, f := range food {
		if components.Distance(c.Pos, f.Position) <= reach {
			c.Eat(now)
			return slices.Delete(food, i, i+1), true
		}
	}
	return food, false
}

// Predate lets a live carnivore kill and eat the first live foreign-family
// creature within reach. Returns the victim or nil.
func Predate(c *components.Creature, population []*components.Creature, divisor, now float64) *components.Creature {
	if c.Dead() || !c.Carnivore {
		return nil
	}
	reach := Reach(c, divisor)
	for _, prey := range population {
		if !prey.Alive() || c.SameFamily(prey) {
			continue
		}
		if components.Distance(c.Pos, prey.Pos) <= reach {
			prey.Die(now)
			c.Eat(now)
			return prey
		}
	}
	return nil
}
