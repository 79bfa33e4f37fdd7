package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/habitat/config"
)

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir           string
	telemetryFile *os.File
	perfFile      *os.File
	bookmarkFile  *os.File

	// Track if headers have been written
	telemetryHeaderWritten bool
	perfHeaderWritten      bool
	bookmarkHeaderWritten  bool
}

// File names inside the output directory.
const (
	CreaturesFile     = "creatures.csv"
	LastCreaturesFile = "creatures_last.csv"
	TelemetryFile     = "telemetry.csv"
	PerfFile          = "perf.csv"
	BookmarksFile     = "bookmarks.csv"
	ConfigFile        = "config.yaml"
	LeaderboardFile   = "leaderboard.json"
	SnapshotFile      = "snapshot.json"
	RunIndexFile      = "index.txt"
)

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, TelemetryFile))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", TelemetryFile, err)
	}
	om.telemetryFile = f

	f, err = os.Create(filepath.Join(dir, PerfFile))
	if err != nil {
		om.telemetryFile.Close()
		return nil, fmt.Errorf("creating %s: %w", PerfFile, err)
	}
	om.perfFile = f

	f, err = os.Create(filepath.Join(dir, BookmarksFile))
	if err != nil {
		om.telemetryFile.Close()
		om.perfFile.Close()
		return nil, fmt.Errorf("creating %s: %w", BookmarksFile, err)
	}
	om.bookmarkFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// writeRecords marshals records, with headers only on the first write.
func writeRecords[T any](f *os.File, headerWritten *bool, records []T) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.telemetryFile, &om.telemetryHeaderWritten, []WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.perfFile, &om.perfHeaderWritten, []PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.bookmarkFile, &om.bookmarkHeaderWritten, []Bookmark{b}); err != nil {
		return fmt.Errorf("writing bookmark: %w", err)
	}
	return nil
}

// WriteCreatures appends records to creatures.csv, which accumulates across
// runs, and rewrites creatures_last.csv with this run only.
func (om *OutputManager) WriteCreatures(records []CreatureRecord) error {
	if om == nil {
		return nil
	}
	if err := AppendCreatures(filepath.Join(om.dir, CreaturesFile), records); err != nil {
		return err
	}
	return om.WriteLastCreatures(records)
}

// WriteLastCreatures rewrites creatures_last.csv with records.
func (om *OutputManager) WriteLastCreatures(records []CreatureRecord) error {
	if om == nil {
		return nil
	}
	last, err := os.Create(filepath.Join(om.dir, LastCreaturesFile))
	if err != nil {
		return fmt.Errorf("creating %s: %w", LastCreaturesFile, err)
	}
	defer last.Close()
	if err := gocsv.Marshal(records, last); err != nil {
		return fmt.Errorf("writing %s: %w", LastCreaturesFile, err)
	}
	return nil
}

// AppendCreatures appends records to path, writing the header only when the file is empty.
func AppendCreatures(path string, records []CreatureRecord) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening creature log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat creature log: %w", err)
	}
	headerWritten := info.Size() > 0
	if err := writeRecords(f, &headerWritten, records); err != nil {
		return fmt.Errorf("writing creature log: %w", err)
	}
	return nil
}

// WriteLeaderboard saves the leaderboard as JSON.
func (om *OutputManager) WriteLeaderboard(lb *Leaderboard) error {
	if om == nil || lb == nil {
		return nil
	}
	return writeJSON(filepath.Join(om.dir, LeaderboardFile), lb)
}

// WriteSnapshot saves the final world state as JSON.
func (om *OutputManager) WriteSnapshot(s *Snapshot) error {
	if om == nil || s == nil {
		return nil
	}
	return writeJSON(filepath.Join(om.dir, SnapshotFile), s)
}

// WriteBookmarkSnapshot saves a snapshot taken at a bookmark as
// snapshot_<tick>_<type>.json and returns its path.
func (om *OutputManager) WriteBookmarkSnapshot(s *Snapshot) (string, error) {
	if om == nil || s == nil || s.Bookmark == nil {
		return "", nil
	}
	name := fmt.Sprintf("snapshot_%d_%s.json", s.Tick, s.Bookmark.Type)
	path := filepath.Join(om.dir, name)
	return path, writeJSON(path, s)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// RunIndex returns the file-backed run index stored in the output directory.
func (om *OutputManager) RunIndex() *FileRunIndex {
	if om == nil {
		return nil
	}
	return NewFileRunIndex(filepath.Join(om.dir, RunIndexFile))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	for _, f := range []*os.File{om.telemetryFile, om.perfFile, om.bookmarkFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
