package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/stochastic"
)

func TestStarve(t *testing.T) {
	c := herbivore(1, famA)
	const dt = 0.5
	var died float64
	for tick := 1; tick <= 40; tick++ {
		now := float64(tick) * dt
		if Starve(c, now, 5) {
			died = now
			break
		}
	}
	if c.Alive() {
		t.Fatal("creature never starved")
	}
	if math.Abs(died-5) > dt+1e-9 {
		t.Errorf("died at %v, want ~5", died)
	}
	if math.Abs(c.TimeAlive-5) > dt+1e-9 {
		t.Errorf("TimeAlive = %v, want ~5", c.TimeAlive)
	}

	before := c.DeathTime
	if Starve(c, 100, 5) {
		t.Error("Starve transitioned a dead creature")
	}
	if c.DeathTime != before {
		t.Error("DeathTime changed after death")
	}
}

func TestStarveResetByEating(t *testing.T) {
	c := herbivore(1, famA)
	c.Eat(4)
	if Starve(c, 8, 5) {
		t.Error("starved 4s after eating with ttl 5")
	}
	if !Starve(c, 9.5, 5) {
		t.Error("should starve 5.5s after eating")
	}
}

func TestReproduceConservation(t *testing.T) {
	v := stochastic.New(12)
	env := testEnv()
	var ids components.IDAllocator
	parent := components.NewCreature(ids.Next(), components.Position{X: 3, Y: 3},
		components.Traits{Color: famA, Size: 12, Speed: 40.0 / 12, Personality: components.Conservadora}, 0)
	parent.FoodEaten = 4
	parent.TotalFoodEaten = 3

	litter := Reproduce(parent, &ids, nil, env, 7, v)
	if len(litter) != env.LitterSize {
		t.Fatalf("litter size = %d, want %d", len(litter), env.LitterSize)
	}
	if parent.FoodEaten != 0 {
		t.Errorf("parent FoodEaten = %d, want 0", parent.FoodEaten)
	}
	if parent.TotalFoodEaten != 7 {
		t.Errorf("parent TotalFoodEaten = %d, want 7", parent.TotalFoodEaten)
	}
	if parent.Reproductions != 1 {
		t.Errorf("parent Reproductions = %d, want 1", parent.Reproductions)
	}

	prev := parent.ID
	for _, child := range litter {
		if child.Traits != parent.Traits {
			t.Errorf("child traits %+v differ from parent %+v", child.Traits, parent.Traits)
		}
		if child.ID <= prev {
			t.Errorf("child id %d not after %d", child.ID, prev)
		}
		prev = child.ID
		if child.BirthTime != 7 || child.LastEatTime != 7 {
			t.Errorf("child born at %v, last ate %v, want 7", child.BirthTime, child.LastEatTime)
		}
		if !components.InBounds(child.Pos, env.GridSize) {
			t.Errorf("child placed at %v", child.Pos)
		}
	}

	if again := Reproduce(parent, &ids, nil, env, 8, v); again != nil {
		t.Error("parent reproduced again with no food")
	}
}

func TestReproduceMarkovInheritance(t *testing.T) {
	v := stochastic.New(12)
	env := testEnv()
	env.Inheritance = InheritMarkov
	env.LitterSize = 50
	chain := NewPersonalityChain([3][3]float64{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}})
	var ids components.IDAllocator
	parent := herbivore(ids.Next(), famA)
	parent.Personality = components.Egoista
	parent.FoodEaten = 3

	for _, child := range Reproduce(parent, &ids, chain, env, 1, v) {
		if child.Personality != components.Conservadora {
			t.Fatalf("child personality = %v, want conservadora", child.Personality)
		}
	}
	if parent.Personality != components.Egoista {
		t.Error("parent personality changed")
	}
}

func TestReproduceDeadParent(t *testing.T) {
	v := stochastic.New(1)
	var ids components.IDAllocator
	parent := herbivore(ids.Next(), famA)
	parent.FoodEaten = 10
	parent.Die(1)
	if litter := Reproduce(parent, &ids, nil, testEnv(), 2, v); litter != nil {
		t.Error("dead parent reproduced")
	}
}
