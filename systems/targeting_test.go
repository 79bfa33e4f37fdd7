package systems

import (
	"testing"

	"github.com/pthm-cable/habitat/components"
)

func TestNearestFood(t *testing.T) {
	food := []components.Food{
		{Position: components.Position{X: 5, Y: 0}},
		{Position: components.Position{X: 0, Y: 3}},
		{Position: components.Position{X: 3, Y: 0}}, // ties with index 1
	}

	got, d, ok := Nearest(components.Position{}, food, nil)
	if !ok {
		t.Fatal("Nearest found nothing")
	}
	if got.Position != (components.Position{X: 0, Y: 3}) || d != 3 {
		t.Errorf("Nearest = %v at %v, want first minimum (0,3) at 3", got.Position, d)
	}

	if _, _, ok := Nearest(components.Position{}, []components.Food(nil), nil); ok {
		t.Error("Nearest on empty slice should report not found")
	}
}

func TestNearestCreatureFilter(t *testing.T) {
	red := components.Color{R: 200, G: 50, B: 50}
	blue := components.Color{R: 50, G: 50, B: 200}
	self := components.NewCreature(1, components.Position{X: 0, Y: 0}, components.Traits{Color: red, Carnivore: true}, 0)
	kin := components.NewCreature(2, components.Position{X: 1, Y: 0}, components.Traits{Color: red}, 0)
	deadPrey := components.NewCreature(3, components.Position{X: 0, Y: 1}, components.Traits{Color: blue}, 0)
	deadPrey.Die(0)
	prey := components.NewCreature(4, components.Position{X: 4, Y: 4}, components.Traits{Color: blue}, 0)
	pop := []*components.Creature{self, kin, deadPrey, prey}

	got, _, ok := Nearest(self.Pos, pop, preyOf(self))
	if !ok || got != prey {
		t.Errorf("Nearest prey = %v, want id 4", got)
	}
}
