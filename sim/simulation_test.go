package sim

import (
	"math"
	"reflect"
	"testing"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/stochastic"
)

// emptyConfig returns defaults with no founders and no food, for scripted scenarios.
func emptyConfig() *config.Config {
	cfg := config.Default()
	cfg.Population.Initial = 0
	cfg.Food.Initial = 0
	cfg.Food.Regime.Rates = []float64{1e-9, 1e-9}
	cfg.Food.Regime.Transitions = [][]float64{{1, 0}, {0, 1}}
	return cfg.Clone()
}

func mustNew(t *testing.T, cfg *config.Config, seed uint64) *Simulation {
	t.Helper()
	s, err := New(cfg, stochastic.New(seed))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewFounders(t *testing.T) {
	cfg := config.Default()
	cfg.Population.Initial = 10
	cfg.Population.CarnivorePercent = 25
	s := mustNew(t, cfg, 1)

	if s.PopulationSize() != 10 {
		t.Fatalf("PopulationSize = %d, want 10", s.PopulationSize())
	}
	if s.FoodCount() != cfg.Food.Initial {
		t.Errorf("FoodCount = %d, want %d", s.FoodCount(), cfg.Food.Initial)
	}
	// ceil(10 * 0.25) = 3, and they come first
	for i, c := range s.All() {
		if want := i < 3; c.Carnivore != want {
			t.Errorf("founder %d carnivore = %v, want %v", i, c.Carnivore, want)
		}
		if c.Size < cfg.Population.SizeMin || c.Size > cfg.Population.SizeMax {
			t.Errorf("founder %d size %d out of range", i, c.Size)
		}
		if math.Abs(c.Speed-40/float64(c.Size)) > 1e-12 {
			t.Errorf("founder %d speed %v, want 40/size", i, c.Speed)
		}
	}
	if s.AliveCarnivores() != 3 || s.AliveHerbivores() != 7 {
		t.Errorf("alive carnivores=%d herbivores=%d, want 3 and 7", s.AliveCarnivores(), s.AliveHerbivores())
	}
}

func TestNewSpeedRange(t *testing.T) {
	cfg := config.Default()
	cfg.Population.SpeedMode = "range"
	cfg.Population.Initial = 50
	s := mustNew(t, cfg, 2)
	seen := map[float64]bool{}
	for _, c := range s.All() {
		if c.Speed < cfg.Population.SpeedMin || c.Speed > cfg.Population.SpeedMax {
			t.Errorf("speed %v outside [%v,%v]", c.Speed, cfg.Population.SpeedMin, cfg.Population.SpeedMax)
		}
		if c.Speed != math.Trunc(c.Speed) {
			t.Errorf("speed %v is not a whole number", c.Speed)
		}
		seen[c.Speed] = true
	}
	if len(seen) < 2 {
		t.Errorf("50 founders drew speeds %v", seen)
	}

	// Fractional bounds narrow to the whole speeds inside them
	cfg.Population.SpeedMin, cfg.Population.SpeedMax = 1.5, 2.5
	for _, c := range mustNew(t, cfg, 3).All() {
		if c.Speed != 2 {
			t.Fatalf("speed %v, want 2 for range [1.5,2.5]", c.Speed)
		}
	}
}

type snapshot struct {
	Pos   []components.Position
	Alive []bool
	Food  int
}

func record(s *Simulation) snapshot {
	var snap snapshot
	for _, c := range s.All() {
		snap.Pos = append(snap.Pos, c.Pos)
		snap.Alive = append(snap.Alive, c.Alive())
	}
	snap.Food = s.FoodCount()
	return snap
}

func TestDeterminism(t *testing.T) {
	cfg := config.Default()
	cfg.Population.Initial = 30
	a := mustNew(t, cfg, 1234)
	b := mustNew(t, cfg.Clone(), 1234)

	for tick := 0; tick < 200; tick++ {
		a.Step()
		b.Step()
		if !reflect.DeepEqual(record(a), record(b)) {
			t.Fatalf("runs diverged at tick %d", tick)
		}
	}
}

func TestInvariantsOverLongRun(t *testing.T) {
	cfg := config.Default()
	cfg.Population.Initial = 40
	cfg.Population.CarnivorePercent = 30
	s := mustNew(t, cfg, 99)

	type frozen struct {
		pos       components.Position
		deathTime float64
		timeAlive float64
	}
	dead := map[components.ID]frozen{}
	all := s.All()
	lastID := all[len(all)-1].ID

	for tick := 0; tick < 300; tick++ {
		foodBefore := s.FoodCount()
		r := s.Tick()
		if got := foodBefore - s.FoodCount(); got != r.Grazed {
			t.Fatalf("tick %d: food dropped by %d, grazed %d", tick, got, r.Grazed)
		}

		r.Births = s.Reproduce()
		s.Adopt(r.Births)
		s.ReplenishFood()

		for _, c := range s.All() {
			if !components.InBounds(c.Pos, cfg.Grid.Size) {
				t.Fatalf("creature %d at %v escaped", c.ID, c.Pos)
			}
			if c.Dead() {
				if f, ok := dead[c.ID]; ok {
					if f.pos != c.Pos || f.deathTime != c.DeathTime || f.timeAlive != c.TimeAlive {
						t.Fatalf("dead creature %d changed", c.ID)
					}
				} else {
					dead[c.ID] = frozen{c.Pos, c.DeathTime, c.TimeAlive}
				}
			}
		}
		for _, c := range r.Births {
			if c.ID <= lastID {
				t.Fatalf("id %d not greater than %d", c.ID, lastID)
			}
			lastID = c.ID
		}
		if s.DeadCount() != len(dead) {
			t.Fatalf("DeadCount = %d, tracked %d", s.DeadCount(), len(dead))
		}
	}
}

func TestStarvationScenario(t *testing.T) {
	cfg := emptyConfig()
	s := mustNew(t, cfg, 7)
	c := s.Spawn(components.Traits{Color: components.Color{R: 90, G: 90, B: 90}, Size: 10, Speed: 4}, components.Position{X: 10, Y: 10})

	for i := 0; i < 100 && c.Alive(); i++ {
		s.Step()
	}
	if c.Alive() {
		t.Fatal("lone herbivore never starved")
	}
	if math.Abs(c.TimeAlive-5) > cfg.Grid.TickSeconds+1e-9 {
		t.Errorf("TimeAlive = %v, want ~5", c.TimeAlive)
	}
	if s.DeadCount() != 1 {
		t.Errorf("DeadCount = %d, want 1", s.DeadCount())
	}
}

func TestPredationScenario(t *testing.T) {
	cfg := emptyConfig()
	s := mustNew(t, cfg, 7)
	hunter := s.Spawn(components.Traits{Color: components.Color{R: 200, G: 60, B: 60}, Size: 10, Speed: 4, Carnivore: true}, components.Position{X: 5, Y: 5})
	prey := s.Spawn(components.Traits{Color: components.Color{R: 60, G: 60, B: 200}, Size: 10, Speed: 4}, components.Position{X: 5, Y: 5})

	r := s.Tick()
	if prey.Alive() {
		t.Fatal("prey survived at distance 0")
	}
	if hunter.FoodEaten != 1 {
		t.Errorf("hunter FoodEaten = %d, want 1", hunter.FoodEaten)
	}
	if r.Kills != 1 || s.DeadCount() != 1 {
		t.Errorf("Kills=%d DeadCount=%d, want 1 and 1", r.Kills, s.DeadCount())
	}
	if len(r.Killed) != 1 || r.Killed[0] != prey {
		t.Errorf("Killed = %v, want the prey", r.Killed)
	}
}

func TestReproductionThroughStep(t *testing.T) {
	cfg := emptyConfig()
	s := mustNew(t, cfg, 3)
	parent := s.Spawn(components.Traits{Color: components.Color{R: 80, G: 80, B: 80}, Size: 10, Speed: 4}, components.Position{X: 0, Y: 0})
	parent.FoodEaten = cfg.Lifecycle.ReproductionThreshold

	r := s.Step()
	if len(r.Births) != cfg.Lifecycle.LitterSize {
		t.Fatalf("births = %d, want %d", len(r.Births), cfg.Lifecycle.LitterSize)
	}
	if s.PopulationSize() != 1+cfg.Lifecycle.LitterSize {
		t.Errorf("PopulationSize = %d", s.PopulationSize())
	}
	if parent.FoodEaten != 0 || parent.TotalFoodEaten != cfg.Lifecycle.ReproductionThreshold {
		t.Errorf("parent FoodEaten=%d TotalFoodEaten=%d", parent.FoodEaten, parent.TotalFoodEaten)
	}
	if all := s.All(); all[0] != parent {
		t.Error("parent must precede offspring")
	}
}

func TestReplenishFoodCap(t *testing.T) {
	cfg := config.Default()
	cfg.Population.Initial = 0
	cfg.Food.Initial = 0
	cfg.Food.Max = 7
	cfg.Food.Regime.Rates = []float64{50, 50}
	s := mustNew(t, cfg.Clone(), 1)

	for i := 0; i < 20; i++ {
		s.Tick()
		s.ReplenishFood()
		if s.FoodCount() > 7 {
			t.Fatalf("FoodCount = %d exceeds cap 7", s.FoodCount())
		}
	}
	if s.FoodCount() != 7 {
		t.Errorf("FoodCount = %d, want 7", s.FoodCount())
	}
}

func TestReplenishFoodInterval(t *testing.T) {
	cfg := config.Default()
	cfg.Population.Initial = 0
	cfg.Food.Initial = 0
	cfg.Food.Max = 0
	cfg.Food.Mode = "interval"
	cfg.Food.IntervalSeconds = 1
	cfg.Food.IntervalAmount = 2
	s := mustNew(t, cfg.Clone(), 1)

	for i := 0; i < 10; i++ {
		s.Tick()
		s.ReplenishFood()
	}
	// 10 ticks of 0.5s, spawning every 2 ticks
	if s.FoodCount() != 10 {
		t.Errorf("FoodCount = %d, want 10", s.FoodCount())
	}
}

func TestView(t *testing.T) {
	cfg := emptyConfig()
	s := mustNew(t, cfg, 1)
	a := s.Spawn(components.Traits{Size: 10, Carnivore: true}, components.Position{X: 1, Y: 1})
	s.Spawn(components.Traits{Size: 12}, components.Position{X: 2, Y: 2})
	s.AddFood(components.Position{X: 3, Y: 3})
	a.Die(0)

	v := s.View()
	if len(v.Creatures) != 1 || v.Creatures[0].Pos != (components.Position{X: 2, Y: 2}) {
		t.Errorf("View creatures = %+v, want only the live herbivore", v.Creatures)
	}
	if len(v.Food) != 1 || v.Food[0] != (components.Position{X: 3, Y: 3}) {
		t.Errorf("View food = %v", v.Food)
	}
	if v.Carnivores != 0 || v.Herbivores != 1 {
		t.Errorf("View counts carnivores=%d herbivores=%d", v.Carnivores, v.Herbivores)
	}
}

func TestLookupAndAliveAt(t *testing.T) {
	s := mustNew(t, emptyConfig(), 1)
	a := s.Spawn(components.Traits{Size: 10}, components.Position{X: 4, Y: 4})
	b := s.Spawn(components.Traits{Size: 10}, components.Position{X: 4, Y: 4})
	c := s.Spawn(components.Traits{Size: 10}, components.Position{X: 1, Y: 0})

	for _, want := range []*components.Creature{a, b, c} {
		if got := s.Lookup(want.ID); got != want {
			t.Errorf("Lookup(%d) = %v", want.ID, got)
		}
	}
	if s.Lookup(c.ID+1) != nil {
		t.Error("Lookup of unknown id returned a creature")
	}

	b.Die(0)
	got := s.AliveAt(components.Position{X: 4, Y: 4})
	if len(got) != 1 || got[0] != a {
		t.Errorf("AliveAt = %v, want only a", got)
	}
}
