package sim

import (
	"cmp"
	"slices"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/systems"
)

// CreatureView is the per-creature state a renderer needs.
type CreatureView struct {
	ID          components.ID
	Pos         components.Position
	Size        int
	Color       components.Color
	Carnivore   bool
	Alive       bool
	Personality components.Personality
}

// View is a read-only snapshot for rendering. It shares nothing with the simulation.
type View struct {
	Tick       int
	Now        float64
	GridSize   int
	Regime     systems.Regime
	Creatures  []CreatureView // Live creatures only
	Food       []components.Position
	Dead       int
	Population int
	Carnivores int
	Herbivores int
}

// View captures the current state.
func (s *Simulation) View() View {
	v := View{
		Tick:       s.tick,
		Now:        s.Now(),
		GridSize:   s.env.GridSize,
		Regime:     s.regime.State(),
		Food:       make([]components.Position, len(s.food)),
		Dead:       s.deadCount,
		Population: len(s.population),
	}
	for i, f := range s.food {
		v.Food[i] = f.Position
	}
	for _, c := range s.population {
		if c.Dead() {
			continue
		}
		if c.Carnivore {
			v.Carnivores++
		} else {
			v.Herbivores++
		}
		v.Creatures = append(v.Creatures, CreatureView{
			ID:          c.ID,
			Pos:         c.Pos,
			Size:        c.Size,
			Color:       c.Color,
			Carnivore:   c.Carnivore,
			Alive:       true,
			Personality: c.Personality,
		})
	}
	return v
}

// Lookup returns the creature with id, or nil. Ids increase along the population.
func (s *Simulation) Lookup(id components.ID) *components.Creature {
	i, ok := slices.BinarySearchFunc(s.population, id, func(c *components.Creature, id components.ID) int {
		return cmp.Compare(c.ID, id)
	})
	if !ok {
		return nil
	}
	return s.population[i]
}

// AliveAt returns the live creatures standing on p, in population order.
func (s *Simulation) AliveAt(p components.Position) []*components.Creature {
	var out []*components.Creature
	for _, c := range s.population {
		if c.Alive() && c.Pos == p {
			out = append(out, c)
		}
	}
	return out
}
