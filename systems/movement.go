package systems

import (
	"math"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/stochastic"
)

// MoveTowards steps c at most Speed toward target. Within one stride it lands
// on the target. Displacements truncate toward zero.
func MoveTowards(c *components.Creature, target components.Position, grid int) {
	d := components.Distance(c.Pos, target)
	if d == 0 {
		return
	}
	if d <= c.Speed {
		c.Pos = components.Clamp(target, grid)
		return
	}
	c.Pos = components.Clamp(c.Pos.Add(stride(c.Pos, target, c.Speed, d)), grid)
}

// MoveAway steps c a full Speed stride directly away from threat.
func MoveAway(c *components.Creature, threat components.Position, grid int) {
	d := components.Distance(c.Pos, threat)
	if d == 0 {
		return
	}
	c.Pos = components.Clamp(c.Pos.Add(stride(threat, c.Pos, c.Speed, d)), grid)
}

// stride is the integer displacement of length speed along from->to.
func stride(from, to components.Position, speed, d float64) components.Position {
	return components.Position{
		X: int(speed * float64(to.X-from.X) / d),
		Y: int(speed * float64(to.Y-from.Y) / d),
	}
}

// MoveRandomly takes an unbiased step per axis scaled by floor(Speed), and
// appends the unit step to the walk history. Returns the unit step.
func MoveRandomly(c *components.Creature, v stochastic.Variates, variant StepVariant, grid int) components.Position {
	step := components.Position{X: unitStep(v, variant), Y: unitStep(v, variant)}
	scale := int(math.Floor(c.Speed))
	c.Pos = components.Clamp(c.Pos.Add(components.Position{X: step.X * scale, Y: step.Y * scale}), grid)

	last := components.Position{}
	if n := len(c.History); n > 0 {
		last = c.History[n-1]
	}
	c.History = append(c.History, last.Add(step))
	return step
}

func unitStep(v stochastic.Variates, variant StepVariant) int {
	if variant == StepSimplified {
		if v.Bool() {
			return 1
		}
		return -1
	}
	return v.IntRange(-1, 1)
}
