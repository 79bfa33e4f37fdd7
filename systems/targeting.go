package systems

import (
	"math"

	"github.com/pthm-cable/habitat/components"
)

// Nearest returns the candidate closest to from among those accepted by keep.
// Ties go to the first minimum in slice order. A nil keep accepts everything.
func Nearest[T components.Located](from components.Position, candidates []T, keep func(T) bool) (T, float64, bool) {
	var best T
	bestD := math.Inf(1)
	found := false
	for _, c := range candidates {
		if keep != nil && !keep(c) {
			continue
		}
		d := components.Distance(from, c.Location())
		if d < bestD {
			best, bestD, found = c, d, true
		}
	}
	return best, bestD, found
}

// preyOf accepts live creatures outside c's family.
func preyOf(c *components.Creature) func(*components.Creature) bool {
	return func(o *components.Creature) bool {
		return o.Alive() && !c.SameFamily(o)
	}
}

// threatOf accepts live foreign carnivores.
func threatOf(c *components.Creature) func(*components.Creature) bool {
	return func(o *components.Creature) bool {
		return o.Carnivore && o.Alive() && !c.SameFamily(o)
	}
}
