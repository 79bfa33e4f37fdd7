package components

// ID identifies a creature within a run. Never reused.
type ID uint64

// IDAllocator hands out strictly increasing ids. The zero value starts at 1.
type IDAllocator struct {
	last ID
}

// Next returns a fresh id.
func (a *IDAllocator) Next() ID {
	a.last++
	return a.last
}

// Last returns the most recently allocated id (0 if none).
func (a *IDAllocator) Last() ID { return a.last }

// Traits are fixed at construction and copied to offspring.
type Traits struct {
	Color       Color
	Size        int
	Speed       float64
	Carnivore   bool
	Personality Personality
}

// DefaultSpeed is the inverse size relation: bigger creatures move slower.
func DefaultSpeed(size int, factor float64) float64 {
	if size <= 0 {
		return factor
	}
	return factor / float64(size)
}

// Creature is a single agent. Times are simulated seconds.
type Creature struct {
	ID  ID
	Pos Position
	Traits

	alive       bool
	BirthTime   float64
	LastEatTime float64
	DeathTime   float64 // Valid only when Dead()
	TimeAlive   float64 // DeathTime - BirthTime, valid only when Dead()

	FoodEaten      int // Since last reproduction
	TotalFoodEaten int // Spent on reproduction so far
	Reproductions  int // Litters produced

	// History holds cumulative random-walk offsets starting at the origin.
	History []Position
}

// NewCreature creates a live creature born at now.
func NewCreature(id ID, pos Position, traits Traits, now float64) *Creature {
	return &Creature{
		ID:          id,
		Pos:         pos,
		Traits:      traits,
		alive:       true,
		BirthTime:   now,
		LastEatTime: now,
		History:     []Position{{}},
	}
}

// Location implements Located.
func (c *Creature) Location() Position { return c.Pos }

// Alive reports whether the creature is alive.
func (c *Creature) Alive() bool { return c.alive }

// Dead reports whether the creature has died.
func (c *Creature) Dead() bool { return !c.alive }

// Die transitions the creature to dead at now. Returns false if it was already dead.
func (c *Creature) Die(now float64) bool {
	if !c.alive {
		return false
	}
	c.alive = false
	c.DeathTime = now
	c.TimeAlive = now - c.BirthTime
	return true
}

// Eat records one unit of food consumed at now.
func (c *Creature) Eat(now float64) {
	c.FoodEaten++
	c.LastEatTime = now
}

// SameFamily reports whether o shares this creature's lineage color.
func (c *Creature) SameFamily(o *Creature) bool {
	return c.Color == o.Color
}

// CanReproduce reports whether enough food has been eaten since the last litter.
func (c *Creature) CanReproduce(threshold int) bool {
	return c.alive && c.FoodEaten >= threshold
}

// Age returns TimeAlive for dead creatures and now-BirthTime otherwise.
func (c *Creature) Age(now float64) float64 {
	if !c.alive {
		return c.TimeAlive
	}
	return now - c.BirthTime
}

// Kind returns "carnivore" or "herbivore".
func (c *Creature) Kind() string {
	if c.Carnivore {
		return "carnivore"
	}
	return "herbivore"
}
