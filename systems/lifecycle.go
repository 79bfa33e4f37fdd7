package systems

import (
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/stochastic"
)

// Starve kills c when it has gone more than ttl seconds without eating.
// Returns true only on the transition to dead.
func Starve(c *components.Creature, now, ttl float64) bool {
	if c.Dead() || now-c.LastEatTime <= ttl {
		return false
	}
	return c.Die(now)
}

// Reproduce runs one reproduction event for an eligible parent and returns
// its litter. Ineligible or dead parents yield nil.
// The parent's unspent food moves to its lifetime total and Reproductions
// counts litters.
func Reproduce(
	parent *components.Creature,
	ids *components.IDAllocator,
	chain *PersonalityChain,
	env Env,
	now float64,
	v stochastic.Variates,
) []*components.Creature {
	if !parent.CanReproduce(env.ReproductionThreshold) {
		return nil
	}

	parent.Reproductions++
	parent.TotalFoodEaten += parent.FoodEaten
	parent.FoodEaten = 0

	litter := make([]*components.Creature, 0, env.LitterSize)
	for i := 0; i < env.LitterSize; i++ {
		traits := parent.Traits
		pos := components.Position{X: v.IntN(env.GridSize), Y: v.IntN(env.GridSize)}
		if env.Inheritance == InheritMarkov && chain != nil {
			traits.Personality = chain.Next(parent.Personality, v)
		}
		litter = append(litter, components.NewCreature(ids.Next(), pos, traits, now))
	}
	return litter
}
