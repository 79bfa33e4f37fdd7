package store

import (
	"path/filepath"
	"testing"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/telemetry"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunIndexIncreases(t *testing.T) {
	db := openTestDB(t)
	var idx telemetry.RunIndexer = db

	prev := 0
	for i := 0; i < 3; i++ {
		id, err := idx.NextRun()
		if err != nil {
			t.Fatal(err)
		}
		if id <= prev {
			t.Errorf("run id %d not greater than %d", id, prev)
		}
		prev = id
	}
}

func TestSaveAndLoadCreatures(t *testing.T) {
	db := openTestDB(t)
	run, err := db.BeginRun(42)
	if err != nil {
		t.Fatal(err)
	}

	records := []telemetry.CreatureRecord{
		{ID: telemetry.RecordID(run, 1), Family: "gold", Size: 12, Speed: 3.33, TimeAlive: 5.5,
			FoodEatenTotal: 4, Reproductions: 1, Personality: components.Egoista},
		{ID: telemetry.RecordID(run, 2), Family: "tomato", Size: 30, Speed: 1.33, TimeAlive: 2,
			IsCarnivore: true, Personality: components.Neutral},
	}
	if err := db.SaveCreatures(run, records); err != nil {
		t.Fatal(err)
	}
	if err := db.FinishRun(run, 120, "extinct", 2, 2); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadCreatures(run)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d records, want 2", len(got))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], records[i])
		}
	}

	other, _ := db.BeginRun(1)
	if err := db.SaveCreatures(other, records[:1]); err != nil {
		t.Fatal(err)
	}
	all, err := db.LoadCreatures(-1)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("all runs = %d records, want 3", len(all))
	}

	runs, err := db.Runs(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[1].StopReason != "extinct" || runs[1].Ticks != 120 || runs[1].Seed != 42 {
		t.Errorf("runs = %+v", runs)
	}
	if runs[0].UUID == runs[1].UUID || runs[0].UUID == "" {
		t.Error("run uuids should be unique")
	}
}
