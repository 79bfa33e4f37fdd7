// Package analysis fits distributions to creature logs, builds trajectory
// heatmaps and runs Monte Carlo lineage projections.
package analysis

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/habitat/telemetry"
)

// LoadRecords reads a creature log written by telemetry.OutputManager.
func LoadRecords(path string) ([]telemetry.CreatureRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening creature log: %w", err)
	}
	defer f.Close()

	var recs []telemetry.CreatureRecord
	if err := gocsv.UnmarshalFile(f, &recs); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return recs, nil
}

// RunOf returns the run index encoded in a record id ("<run>_<id>").
func RunOf(id string) (int, error) {
	run, _, ok := strings.Cut(id, "_")
	if !ok {
		return 0, fmt.Errorf("record id %q has no run prefix", id)
	}
	n, err := strconv.Atoi(run)
	if err != nil {
		return 0, fmt.Errorf("record id %q: %w", id, err)
	}
	return n, nil
}

// Runs groups records by run index, preserving order within each run.
func Runs(recs []telemetry.CreatureRecord) (map[int][]telemetry.CreatureRecord, error) {
	out := make(map[int][]telemetry.CreatureRecord)
	for _, r := range recs {
		run, err := RunOf(r.ID)
		if err != nil {
			return nil, err
		}
		out[run] = append(out[run], r)
	}
	return out, nil
}
