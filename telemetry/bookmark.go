package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkCarnivoresExtinct BookmarkType = "carnivores_extinct"
	BookmarkHerbivoresExtinct BookmarkType = "herbivores_extinct"
	BookmarkPopulationPeak    BookmarkType = "population_peak"
	BookmarkFamine            BookmarkType = "famine"
	BookmarkPredationSpike    BookmarkType = "predation_spike"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int          `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	peakPopulation int  // highest live count seen
	peakReported   int  // peak value at last population_peak bookmark
	carnivoresGone bool // extinction bookmarks fire once
	herbivoresGone bool
	inFamine       bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3 // minimum for rolling averages
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	for _, check := range []func(WindowStats) *Bookmark{
		bd.checkExtinctions(BookmarkCarnivoresExtinct, &bd.carnivoresGone, stats.Carnivores),
		bd.checkExtinctions(BookmarkHerbivoresExtinct, &bd.herbivoresGone, stats.Herbivores),
		bd.checkPopulationPeak,
		bd.checkFamine,
		bd.checkPredationSpike,
	} {
		if b := check(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkExtinctions fires once when a class that was present drops to zero.
func (bd *BookmarkDetector) checkExtinctions(kind BookmarkType, gone *bool, count int) func(WindowStats) *Bookmark {
	return func(stats WindowStats) *Bookmark {
		if *gone || count > 0 || len(bd.getHistory()) == 0 {
			return nil
		}
		prev := bd.history[(bd.historyIdx+bd.historySize-1)%bd.historySize]
		prevCount := prev.Carnivores
		if kind == BookmarkHerbivoresExtinct {
			prevCount = prev.Herbivores
		}
		if prevCount == 0 {
			return nil
		}
		*gone = true
		return &Bookmark{
			Type:        kind,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Last of %d died by t=%.1fs", prevCount, stats.SimTimeSec),
		}
	}
}

// checkPopulationPeak fires when the live population grows 50% past the last reported peak.
func (bd *BookmarkDetector) checkPopulationPeak(stats WindowStats) *Bookmark {
	live := stats.Herbivores + stats.Carnivores
	if live > bd.peakPopulation {
		bd.peakPopulation = live
	}
	if bd.peakReported == 0 {
		bd.peakReported = live
		return nil
	}
	if live >= bd.peakReported*3/2 && live >= bd.peakReported+5 {
		old := bd.peakReported
		bd.peakReported = live
		return &Bookmark{
			Type:        BookmarkPopulationPeak,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population grew from %d to %d", old, live),
		}
	}
	return nil
}

// checkFamine fires when food runs out while herbivores are alive.
func (bd *BookmarkDetector) checkFamine(stats WindowStats) *Bookmark {
	famine := stats.Food == 0 && stats.Herbivores > 0
	defer func() { bd.inFamine = famine }()
	if !famine || bd.inFamine {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkFamine,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("No food left for %d herbivores (%s regime)", stats.Herbivores, stats.Regime),
	}
}

// checkPredationSpike fires when kills exceed twice the rolling average.
func (bd *BookmarkDetector) checkPredationSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Kills
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Kills) > avg*2.0 && stats.Kills >= 3 {
		return &Bookmark{
			Type:        BookmarkPredationSpike,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d kills is %.1fx average (%.2f)", stats.Kills, float64(stats.Kills)/avg, avg),
		}
	}
	return nil
}

// PeakPopulation returns the highest live population seen.
func (bd *BookmarkDetector) PeakPopulation() int {
	return bd.peakPopulation
}
