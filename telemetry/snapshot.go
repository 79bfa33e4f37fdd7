package telemetry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/sim"
)

// Snapshot holds the end-of-run world, including walk histories for trajectory analysis.
type Snapshot struct {
	Run      int     `json:"run"`
	Seed     uint64  `json:"seed"`
	GridSize int     `json:"grid_size"`
	Tick     int     `json:"tick"`
	SimTime  float64 `json:"sim_time"`
	Regime   string  `json:"regime"`

	Creatures []CreatureState       `json:"creatures"`
	Food      []components.Position `json:"food"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// CreatureState holds one creature's complete state.
type CreatureState struct {
	ID          components.ID `json:"id"`
	X           int           `json:"x"`
	Y           int           `json:"y"`
	Color       string        `json:"color"`
	Size        int           `json:"size"`
	Speed       float64       `json:"speed"`
	Carnivore   bool          `json:"carnivore"`
	Personality string        `json:"personality"`

	Alive          bool    `json:"alive"`
	BirthTime      float64 `json:"birth_time"`
	TimeAlive      float64 `json:"time_alive"`
	FoodEaten      int     `json:"food_eaten"`
	TotalFoodEaten int     `json:"total_food_eaten"`
	Reproductions  int     `json:"reproductions"`

	History []components.Position `json:"history"`
}

// NewSnapshot captures the state of every creature ever created.
func NewSnapshot(run int, seed uint64, s *sim.Simulation) *Snapshot {
	now := s.Now()
	snap := &Snapshot{
		Run:      run,
		Seed:     seed,
		GridSize: s.Config().Grid.Size,
		Tick:     s.TickCount(),
		SimTime:  now,
		Regime:   s.Regime().String(),
	}
	for _, f := range s.Food() {
		snap.Food = append(snap.Food, f.Position)
	}
	for _, c := range s.All() {
		snap.Creatures = append(snap.Creatures, CreatureState{
			ID:             c.ID,
			X:              c.Pos.X,
			Y:              c.Pos.Y,
			Color:          c.Color.Hex(),
			Size:           c.Size,
			Speed:          c.Speed,
			Carnivore:      c.Carnivore,
			Personality:    c.Personality.String(),
			Alive:          c.Alive(),
			BirthTime:      c.BirthTime,
			TimeAlive:      c.Age(now),
			FoodEaten:      c.FoodEaten,
			TotalFoodEaten: c.TotalFoodEaten,
			Reproductions:  c.Reproductions,
			History:        c.History,
		})
	}
	return snap
}

// Histories returns the walk history of every creature.
func (s *Snapshot) Histories() [][]components.Position {
	out := make([][]components.Position, len(s.Creatures))
	for i, c := range s.Creatures {
		out[i] = c.History
	}
	return out
}

// LoadSnapshot reads a snapshot written by OutputManager.WriteSnapshot.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &snap, nil
}
