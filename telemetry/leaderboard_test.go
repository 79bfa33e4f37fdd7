package telemetry

import (
	"testing"

	"github.com/pthm-cable/habitat/components"
)

func TestBuildLeaderboard(t *testing.T) {
	red := components.Color{R: 250, G: 60, B: 60}
	blue := components.Color{R: 60, G: 60, B: 250}
	var creatures []*components.Creature
	for i := 1; i <= 5; i++ {
		color := blue
		if i <= 3 {
			color = red
		}
		c := components.NewCreature(components.ID(i), components.Position{}, components.Traits{Color: color}, 0)
		c.TotalFoodEaten = i
		c.FoodEaten = 10 - i
		c.Reproductions = 5 - i
		c.Die(float64(i * 2))
		creatures = append(creatures, c)
	}
	alive := components.NewCreature(6, components.Position{}, components.Traits{Color: blue}, 1)
	creatures = append(creatures, alive)

	lb := BuildLeaderboard(creatures, 100, 3)

	ids := func(entries []LeaderEntry) []components.ID {
		var out []components.ID
		for _, e := range entries {
			out = append(out, e.ID)
		}
		return out
	}

	tests := []struct {
		name  string
		board []LeaderEntry
		want  []components.ID
	}{
		{"time alive includes live creature at now", lb.TimeAlive, []components.ID{6, 5, 4}},
		{"food eaten", lb.FoodEaten, []components.ID{5, 4, 3}},
		{"reproductions", lb.Reproductions, []components.ID{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(tt.board)
			if len(got) != len(tt.want) {
				t.Fatalf("board = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("board = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}

	if len(lb.Families) != 2 {
		t.Fatalf("families = %+v, want 2", lb.Families)
	}
	// Red and blue both have 3 members; red was seen first
	if lb.Families[0].Color != red.Hex() || lb.Families[0].Members != 3 {
		t.Errorf("top family = %+v", lb.Families[0])
	}
}

func TestLeaderboardTiesKeepFirst(t *testing.T) {
	lb := NewLeaderboard(2)
	for i := 1; i <= 4; i++ {
		lb.Consider(components.NewCreature(components.ID(i), components.Position{}, components.Traits{}, 0), 0)
	}
	if len(lb.Reproductions) != 2 || lb.Reproductions[0].ID != 1 || lb.Reproductions[1].ID != 2 {
		t.Errorf("tie order = %+v, want ids 1 and 2", lb.Reproductions)
	}
}
