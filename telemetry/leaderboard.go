package telemetry

import (
	"log/slog"
	"sort"

	"github.com/pthm-cable/habitat/components"
)

// LeaderEntry is one creature's standing on a board.
type LeaderEntry struct {
	ID          components.ID `json:"id"`
	Family      string        `json:"family"`
	Color       string        `json:"color"`
	Size        int           `json:"size"`
	Speed       float64       `json:"speed"`
	Carnivore   bool          `json:"carnivore"`
	Personality string        `json:"personality"`
	Score       float64       `json:"score"`
}

// FamilyEntry counts the members of one lineage.
type FamilyEntry struct {
	Family  string `json:"family"`
	Color   string `json:"color"`
	Members int    `json:"members"`
}

// Leaderboard holds the top creatures by lifespan, food and litters, and the largest families.
type Leaderboard struct {
	maxSize int

	TimeAlive     []LeaderEntry `json:"time_alive"`
	FoodEaten     []LeaderEntry `json:"food_eaten"`
	Reproductions []LeaderEntry `json:"reproductions"`
	Families      []FamilyEntry `json:"families"`
}

// NewLeaderboard creates an empty leaderboard keeping maxSize entries per board.
func NewLeaderboard(maxSize int) *Leaderboard {
	if maxSize < 1 {
		maxSize = 3
	}
	return &Leaderboard{maxSize: maxSize}
}

// BuildLeaderboard ranks every creature. Live creatures are scored by age at now.
func BuildLeaderboard(creatures []*components.Creature, now float64, maxSize int) *Leaderboard {
	lb := NewLeaderboard(maxSize)
	counts := make(map[components.Color]int)
	var order []components.Color
	for _, c := range creatures {
		lb.Consider(c, now)
		if counts[c.Color] == 0 {
			order = append(order, c.Color)
		}
		counts[c.Color]++
	}

	// Stable sort keeps first-seen order among equal sizes
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	for i := 0; i < len(order) && i < lb.maxSize; i++ {
		lb.Families = append(lb.Families, FamilyEntry{
			Family:  order[i].Name(),
			Color:   order[i].Hex(),
			Members: counts[order[i]],
		})
	}
	return lb
}

// Consider offers c to every creature board.
func (lb *Leaderboard) Consider(c *components.Creature, now float64) {
	entry := LeaderEntry{
		ID:          c.ID,
		Family:      c.Color.Name(),
		Color:       c.Color.Hex(),
		Size:        c.Size,
		Speed:       round2(c.Speed),
		Carnivore:   c.Carnivore,
		Personality: c.Personality.String(),
	}

	entry.Score = c.Age(now)
	lb.TimeAlive = lb.insertEntry(lb.TimeAlive, entry)

	entry.Score = float64(c.TotalFoodEaten)
	lb.FoodEaten = lb.insertEntry(lb.FoodEaten, entry)

	entry.Score = float64(c.Reproductions)
	lb.Reproductions = lb.insertEntry(lb.Reproductions, entry)
}

// insertEntry adds an entry to the board, maintaining sorted order by score.
// Earlier entries win ties. If the board is full, the lowest entry is removed.
func (lb *Leaderboard) insertEntry(board []LeaderEntry, entry LeaderEntry) []LeaderEntry {
	idx := sort.Search(len(board), func(i int) bool {
		return board[i].Score < entry.Score
	})

	if len(board) >= lb.maxSize && idx >= lb.maxSize {
		return board
	}

	board = append(board, LeaderEntry{})
	copy(board[idx+1:], board[idx:])
	board[idx] = entry

	if len(board) > lb.maxSize {
		board = board[:lb.maxSize]
	}
	return board
}

// LogLeaderboard logs the leaders of every board.
func (lb *Leaderboard) LogLeaderboard() {
	for _, board := range []struct {
		name    string
		entries []LeaderEntry
	}{
		{"time_alive", lb.TimeAlive},
		{"food_eaten", lb.FoodEaten},
		{"reproductions", lb.Reproductions},
	} {
		for rank, e := range board.entries {
			slog.Info("leaderboard",
				"board", board.name,
				"rank", rank+1,
				"id", e.ID,
				"family", e.Family,
				"carnivore", e.Carnivore,
				"personality", e.Personality,
				"score", e.Score,
			)
		}
	}
	for rank, f := range lb.Families {
		slog.Info("leaderboard",
			"board", "families",
			"rank", rank+1,
			"family", f.Family,
			"members", f.Members,
		)
	}
}
