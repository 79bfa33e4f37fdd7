package telemetry

import (
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/sim"
	"github.com/pthm-cable/habitat/systems"
)

// Collector accumulates tick reports within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int
	dt                  float64

	// Current window tracking
	windowStartTick int

	// Event counters for current window
	herbivoreBirths int
	carnivoreBirths int
	herbivoreDeaths int
	carnivoreDeaths int
	kills           int
	starvations     int
	grazed          int
	spawned         int
	regimeSwitches  int
	actions         [systems.NumActions]int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record folds one tick report into the current window.
func (c *Collector) Record(r sim.TickReport) {
	for _, b := range r.Births {
		if b.Carnivore {
			c.carnivoreBirths++
		} else {
			c.herbivoreBirths++
		}
	}
	for _, d := range r.Deaths {
		if d.Carnivore {
			c.carnivoreDeaths++
		} else {
			c.herbivoreDeaths++
		}
	}
	c.kills += r.Kills
	c.starvations += r.Starved
	c.grazed += r.Grazed
	c.spawned += r.Spawned
	if r.RegimeSwitched {
		c.regimeSwitches++
	}
	for i, n := range r.Actions {
		c.actions[i] += n
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the counters and the live population,
// then resets counters for the next window.
func (c *Collector) Flush(currentTick int, s *sim.Simulation) WindowStats {
	now := s.Now()
	var herbAges, carnAges, sizes, speeds []float64
	families := make(map[components.Color]struct{})
	for _, cr := range s.Alive() {
		if cr.Carnivore {
			carnAges = append(carnAges, cr.Age(now))
		} else {
			herbAges = append(herbAges, cr.Age(now))
		}
		sizes = append(sizes, float64(cr.Size))
		speeds = append(speeds, cr.Speed)
		families[cr.Color] = struct{}{}
	}

	herbMean, herbP10, herbP50, herbP90 := ComputeAgeStats(herbAges)
	carnMean, carnP10, carnP50, carnP90 := ComputeAgeStats(carnAges)
	sizeMean, sizeStd := ComputeTraitStats(sizes)
	speedMean, speedStd := ComputeTraitStats(speeds)

	var moves int
	for _, n := range c.actions {
		moves += n
	}
	var wanderRate float64
	if moves > 0 {
		wanderRate = float64(c.actions[systems.Wander]) / float64(moves)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Herbivores: len(herbAges),
		Carnivores: len(carnAges),
		Food:       s.FoodCount(),
		Regime:     s.Regime().String(),

		HerbivoreBirths: c.herbivoreBirths,
		CarnivoreBirths: c.carnivoreBirths,
		HerbivoreDeaths: c.herbivoreDeaths,
		CarnivoreDeaths: c.carnivoreDeaths,
		Kills:           c.kills,
		Starvations:     c.starvations,
		Grazed:          c.grazed,
		Spawned:         c.spawned,
		RegimeSwitches:  c.regimeSwitches,

		Chases:     c.actions[systems.Chase],
		Forages:    c.actions[systems.Forage],
		Flights:    c.actions[systems.Flee],
		Wanders:    c.actions[systems.Wander],
		WanderRate: wanderRate,

		HerbivoreAgeMean: herbMean,
		HerbivoreAgeP10:  herbP10,
		HerbivoreAgeP50:  herbP50,
		HerbivoreAgeP90:  herbP90,

		CarnivoreAgeMean: carnMean,
		CarnivoreAgeP10:  carnP10,
		CarnivoreAgeP50:  carnP50,
		CarnivoreAgeP90:  carnP90,

		SizeMean:  sizeMean,
		SizeStd:   sizeStd,
		SpeedMean: speedMean,
		SpeedStd:  speedStd,

		ActiveFamilies: len(families),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.herbivoreBirths = 0
	c.carnivoreBirths = 0
	c.herbivoreDeaths = 0
	c.carnivoreDeaths = 0
	c.kills = 0
	c.starvations = 0
	c.grazed = 0
	c.spawned = 0
	c.regimeSwitches = 0
	c.actions = [systems.NumActions]int{}

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int {
	return c.windowDurationTicks
}
