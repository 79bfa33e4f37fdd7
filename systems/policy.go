package systems

import (
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/stochastic"
)

// PersonalityPolicy decides, per tick, whether a creature pursues its nearest target.
type PersonalityPolicy struct {
	// PreyMin is the live herbivore count a conservative carnivore needs to exceed.
	PreyMin int
}

// ShouldPursue applies the personality gate. Neutral creatures flip a fresh coin each call.
func (p PersonalityPolicy) ShouldPursue(c *components.Creature, food []components.Food, population []*components.Creature, v stochastic.Variates) bool {
	switch c.Personality {
	case components.Egoista:
		return true
	case components.Conservadora:
		return p.EvaluateResources(c, food, population)
	default:
		return v.Bool()
	}
}

// EvaluateResources reports whether the environment looks rich enough to compete.
// Herbivores compare visible food with their live family herbivores, themselves included.
// Carnivores need more than PreyMin live herbivores.
func (p PersonalityPolicy) EvaluateResources(c *components.Creature, food []components.Food, population []*components.Creature) bool {
	if c.Carnivore {
		herbivores := 0
		for _, o := range population {
			if o.Alive() && !o.Carnivore {
				herbivores++
			}
		}
		return herbivores > p.PreyMin
	}

	family := 0
	for _, o := range population {
		if o.Alive() && !o.Carnivore && c.SameFamily(o) {
			family++
		}
	}
	return len(food) > family
}

// PersonalityChain is the 3-state Markov chain over personalities.
type PersonalityChain struct {
	matrix [components.NumPersonalities][components.NumPersonalities]float64
}

// NewPersonalityChain creates a chain from a row-stochastic matrix.
func NewPersonalityChain(matrix [components.NumPersonalities][components.NumPersonalities]float64) *PersonalityChain {
	return &PersonalityChain{matrix: matrix}
}

// Next draws the successor of p.
func (pc *PersonalityChain) Next(p components.Personality, v stochastic.Variates) components.Personality {
	row := pc.matrix[p]
	return components.Personality(v.Categorical(row[:]))
}
