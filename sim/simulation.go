// Package sim owns the population and food of one run and advances them tick by tick.
package sim

import (
	"fmt"
	"math"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/stochastic"
	"github.com/pthm-cable/habitat/systems"
)

// Simulation is a single-threaded, deterministic run. Every draw goes through v.
type Simulation struct {
	cfg    *config.Config
	env    systems.Env
	policy systems.PersonalityPolicy
	chain  *systems.PersonalityChain
	regime *systems.FoodRegime
	v      stochastic.Variates

	ids        components.IDAllocator
	population []*components.Creature // Append-only, parents before offspring
	food       []components.Food

	tick      int
	deadCount int

	hook PhaseHook
}

// TickReport summarizes what happened during one Step.
type TickReport struct {
	Tick    int
	Now     float64
	Actions [systems.NumActions]int

	Grazed  int
	Kills   int
	Starved int
	Deaths  []*components.Creature // Kills and starvations in order
	Killed  []*components.Creature

	Births []*components.Creature

	Spawned        int
	RegimeSwitched bool
}

// Wandered returns the number of random-move ticks.
func (r TickReport) Wandered() int { return r.Actions[systems.Wander] }

// New builds the founder population and initial food from cfg.
// The first ceil(n * carnivore_percent / 100) founders are carnivores.
func New(cfg *config.Config, v stochastic.Variates) (*Simulation, error) {
	env, err := systems.EnvFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	initial, err := systems.ParseRegime(cfg.Food.Regime.Initial)
	if err != nil {
		return nil, err
	}
	if cfg.Population.SpeedMode != "inverse_size" && cfg.Population.SpeedMode != "range" {
		return nil, fmt.Errorf("unknown speed mode %q", cfg.Population.SpeedMode)
	}

	s := &Simulation{
		cfg:    cfg,
		env:    env,
		policy: systems.PersonalityPolicy{PreyMin: cfg.Personality.ConservativePreyMin},
		chain:  systems.NewPersonalityChain(cfg.Derived.PersonalityMatrix),
		regime: systems.NewFoodRegime(initial, cfg.Derived.RegimeMatrix, cfg.Derived.RegimeRates),
		v:      v,
	}

	n := cfg.Population.Initial
	carnivores := int(math.Ceil(float64(n) * cfg.Population.CarnivorePercent / 100))
	for i := 0; i < n; i++ {
		s.Spawn(s.founderTraits(i < carnivores), s.randomPosition())
	}
	s.spawnFood(cfg.Food.Initial)

	return s, nil
}

func (s *Simulation) founderTraits(carnivore bool) components.Traits {
	p := s.cfg.Population
	color := components.RandomColor(s.v)
	size := s.v.IntRange(p.SizeMin, p.SizeMax)

	var speed float64
	if p.SpeedMode == "range" {
		speed = float64(s.v.IntRange(int(math.Ceil(p.SpeedMin)), int(math.Floor(p.SpeedMax))))
	} else {
		speed = components.DefaultSpeed(size, p.SpeedFactor)
	}

	weights := s.cfg.Derived.PersonalityWeight
	return components.Traits{
		Color:       color,
		Size:        size,
		Speed:       speed,
		Carnivore:   carnivore,
		Personality: components.Personality(s.v.Categorical(weights[:])),
	}
}

func (s *Simulation) randomPosition() components.Position {
	return components.Position{X: s.v.IntN(s.env.GridSize), Y: s.v.IntN(s.env.GridSize)}
}

// Spawn adds a creature with a fresh id, born now, clamped into the grid.
func (s *Simulation) Spawn(traits components.Traits, pos components.Position) *components.Creature {
	c := components.NewCreature(s.ids.Next(), components.Clamp(pos, s.env.GridSize), traits, s.Now())
	s.population = append(s.population, c)
	return c
}

// AddFood places a food point at pos, clamped into the grid.
func (s *Simulation) AddFood(pos components.Position) {
	s.food = append(s.food, components.Food{Position: components.Clamp(pos, s.env.GridSize)})
}

func (s *Simulation) spawnFood(n int) {
	for i := 0; i < n; i++ {
		s.food = append(s.food, components.Food{Position: s.randomPosition()})
	}
}

// Tick advances the clock and runs movement, feeding, predation and
// starvation for every live creature in population order. Updates are
// sequential: later creatures see earlier creatures' moves.
func (s *Simulation) Tick() TickReport {
	s.tick++
	now := s.Now()
	r := TickReport{Tick: s.tick, Now: now}

	// Offspring are adopted between ticks, so the slice is stable here
	for _, c := range s.population {
		if c.Dead() {
			continue
		}
		s.enter(PhaseBehave)
		r.Actions[systems.Behave(c, s.food, s.population, s.policy, s.env, s.v)]++

		s.enter(PhaseFeed)
		var ate bool
		if s.food, ate = systems.Graze(c, s.food, s.env.EatDivisor, now); ate {
			r.Grazed++
		}
		if victim := systems.Predate(c, s.population, s.env.EatDivisor, now); victim != nil {
			r.Kills++
			s.deadCount++
			r.Deaths = append(r.Deaths, victim)
			r.Killed = append(r.Killed, victim)
		}
		s.enter(PhaseStarve)
		if systems.Starve(c, now, s.env.TimeToLive) {
			r.Starved++
			s.deadCount++
			r.Deaths = append(r.Deaths, c)
		}
	}
	return r
}

// Reproduce runs one reproduction event per live eligible creature and
// returns the offspring in population order. Call Adopt to add them.
func (s *Simulation) Reproduce() []*components.Creature {
	var offspring []*components.Creature
	now := s.Now()
	for _, c := range s.population {
		offspring = append(offspring, systems.Reproduce(c, &s.ids, s.chain, s.env, now, s.v)...)
	}
	return offspring
}

// Adopt appends offspring to the population.
func (s *Simulation) Adopt(offspring []*components.Creature) {
	s.population = append(s.population, offspring...)
}

// ReplenishFood evolves the food regime and spawns new food, capped at
// food.max active points. In interval mode a fixed amount is spawned every
// interval instead. Returns the number spawned and whether the regime switched.
func (s *Simulation) ReplenishFood() (int, bool) {
	var amount int
	var switched bool
	if s.cfg.Food.Mode == "interval" {
		if s.tick%s.cfg.Derived.IntervalTicks == 0 {
			amount = s.cfg.Food.IntervalAmount
		}
	} else {
		switched = s.regime.Update(s.v)
		amount = s.regime.FoodAmount(s.v)
	}

	if limit := s.cfg.Food.Max; limit > 0 {
		amount = min(amount, max(0, limit-len(s.food)))
	}
	s.spawnFood(amount)
	return amount, switched
}

// Step runs one full tick: Tick, Reproduce, Adopt, ReplenishFood.
func (s *Simulation) Step() TickReport {
	r := s.Tick()
	s.enter(PhaseReproduce)
	r.Births = s.Reproduce()
	s.Adopt(r.Births)
	s.enter(PhaseReplenish)
	r.Spawned, r.RegimeSwitched = s.ReplenishFood()
	return r
}

// TickCount returns the number of ticks run.
func (s *Simulation) TickCount() int { return s.tick }

// Now returns simulated seconds elapsed.
func (s *Simulation) Now() float64 { return float64(s.tick) * s.cfg.Grid.TickSeconds }

// DeadCount returns the number of deaths so far.
func (s *Simulation) DeadCount() int { return s.deadCount }

// PopulationSize returns the number of creatures ever created.
func (s *Simulation) PopulationSize() int { return len(s.population) }

// FoodCount returns the number of active food points.
func (s *Simulation) FoodCount() int { return len(s.food) }

// Regime returns the current food regime.
func (s *Simulation) Regime() systems.Regime { return s.regime.State() }

// AliveCarnivores returns the live carnivore count.
func (s *Simulation) AliveCarnivores() int {
	n := 0
	for _, c := range s.population {
		if c.Alive() && c.Carnivore {
			n++
		}
	}
	return n
}

// AliveHerbivores returns the live herbivore count.
func (s *Simulation) AliveHerbivores() int {
	n := 0
	for _, c := range s.population {
		if c.Alive() && !c.Carnivore {
			n++
		}
	}
	return n
}

// All returns every creature ever created, in creation order.
// Callers must not mutate the slice.
func (s *Simulation) All() []*components.Creature { return s.population }

// Alive returns the live creatures in population order.
func (s *Simulation) Alive() []*components.Creature {
	out := make([]*components.Creature, 0, len(s.population)-s.deadCount)
	for _, c := range s.population {
		if c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

// Food returns a copy of the active food points.
func (s *Simulation) Food() []components.Food {
	return append([]components.Food(nil), s.food...)
}

// Config returns the configuration the run was built from.
func (s *Simulation) Config() *config.Config { return s.cfg }
