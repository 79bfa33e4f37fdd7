package systems

import (
	"fmt"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/stochastic"
)

// Action is what a creature did with its move this tick.
type Action uint8

const (
	Idle   Action = iota // Dead creatures
	Chase                // Carnivore moved toward prey
	Forage               // Herbivore moved toward food
	Flee                 // Herbivore moved away from a carnivore
	Wander               // Random step
)

// NumActions is the number of Action values.
const NumActions = 5

func (a Action) String() string {
	switch a {
	case Idle:
		return "idle"
	case Chase:
		return "chase"
	case Forage:
		return "forage"
	case Flee:
		return "flee"
	case Wander:
		return "wander"
	}
	return fmt.Sprintf("action(%d)", a)
}

// Behave runs one movement decision for c against the current world state.
func Behave(
	c *components.Creature,
	food []components.Food,
	population []*components.Creature,
	policy PersonalityPolicy,
	env Env,
	v stochastic.Variates,
) Action {
	if c.Dead() {
		return Idle
	}

	if c.Carnivore {
		prey, _, ok := Nearest(c.Pos, population, preyOf(c))
		if ok && policy.ShouldPursue(c, food, population, v) {
			MoveTowards(c, prey.Pos, env.GridSize)
			return Chase
		}
		MoveRandomly(c, v, env.RandomStep, env.GridSize)
		return Wander
	}

	// Fleeing pre-empts foraging and ignores personality
	if threat, d, ok := Nearest(c.Pos, population, threatOf(c)); ok && d < env.DetectionRadius {
		MoveAway(c, threat.Pos, env.GridSize)
		return Flee
	}

	target, _, ok := Nearest(c.Pos, food, nil)
	if ok && policy.ShouldPursue(c, food, population, v) {
		MoveTowards(c, target.Position, env.GridSize)
		return Forage
	}
	MoveRandomly(c, v, env.RandomStep, env.GridSize)
	return Wander
}
