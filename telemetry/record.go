package telemetry

import (
	"fmt"
	"math"

	"github.com/pthm-cable/habitat/components"
)

// CreatureRecord is one row of the creature log.
type CreatureRecord struct {
	ID             string                 `csv:"id"`
	Family         string                 `csv:"family"`
	Size           int                    `csv:"size"`
	Speed          float64                `csv:"speed"`
	TimeAlive      float64                `csv:"time_alive"`
	FoodEatenTotal int                    `csv:"food_eaten_total"`
	Reproductions  int                    `csv:"reproductions"`
	IsCarnivore    bool                   `csv:"is_carnivore"`
	Personality    components.Personality `csv:"personality"`
}

// RecordID formats a creature id scoped to a run.
func RecordID(run int, id components.ID) string {
	return fmt.Sprintf("%d_%d", run, id)
}

// NewCreatureRecord builds the log row for c. Creatures still alive report
// their age at now. food_eaten_total counts only food spent on litters.
func NewCreatureRecord(run int, c *components.Creature, now float64) CreatureRecord {
	return CreatureRecord{
		ID:             RecordID(run, c.ID),
		Family:         c.Color.Name(),
		Size:           c.Size,
		Speed:          round2(c.Speed),
		TimeAlive:      round2(c.Age(now)),
		FoodEatenTotal: c.TotalFoodEaten,
		Reproductions:  c.Reproductions,
		IsCarnivore:    c.Carnivore,
		Personality:    c.Personality,
	}
}

// NewCreatureRecords builds rows for every creature in order.
func NewCreatureRecords(run int, creatures []*components.Creature, now float64) []CreatureRecord {
	out := make([]CreatureRecord, len(creatures))
	for i, c := range creatures {
		out[i] = NewCreatureRecord(run, c, now)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
