// Package store provides SQLite-backed run history: one row per run and the
// creature log of every run.
package store

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/telemetry"
)

// DB wraps a SQLite connection for run history.
type DB struct {
	conn *sqlx.DB
}

// Run is one row of the runs table.
type Run struct {
	ID         int    `db:"id"`
	UUID       string `db:"uuid"`
	Seed       int64  `db:"seed"`
	StartedAt  string `db:"started_at"`
	Ticks      int    `db:"ticks"`
	StopReason string `db:"stop_reason"`
	Population int    `db:"population"`
	Dead       int    `db:"dead"`
}

type creatureRow struct {
	RunID          int     `db:"run_id"`
	RecordID       string  `db:"record_id"`
	Family         string  `db:"family"`
	Size           int     `db:"size"`
	Speed          float64 `db:"speed"`
	TimeAlive      float64 `db:"time_alive"`
	FoodEatenTotal int     `db:"food_eaten_total"`
	Reproductions  int     `db:"reproductions"`
	IsCarnivore    bool    `db:"is_carnivore"`
	Personality    string  `db:"personality"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uuid TEXT NOT NULL UNIQUE,
		seed INTEGER NOT NULL DEFAULT 0,
		started_at TEXT NOT NULL,
		ticks INTEGER NOT NULL DEFAULT 0,
		stop_reason TEXT NOT NULL DEFAULT '',
		population INTEGER NOT NULL DEFAULT 0,
		dead INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS creatures (
		run_id INTEGER NOT NULL REFERENCES runs(id),
		record_id TEXT NOT NULL,
		family TEXT NOT NULL,
		size INTEGER NOT NULL,
		speed REAL NOT NULL,
		time_alive REAL NOT NULL,
		food_eaten_total INTEGER NOT NULL,
		reproductions INTEGER NOT NULL,
		is_carnivore INTEGER NOT NULL,
		personality TEXT NOT NULL,
		PRIMARY KEY (run_id, record_id)
	);

	CREATE INDEX IF NOT EXISTS idx_creatures_run ON creatures(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// BeginRun inserts a new run row and returns its id, which serves as the run index.
func (db *DB) BeginRun(seed uint64) (int, error) {
	res, err := db.conn.Exec(
		"INSERT INTO runs (uuid, seed, started_at) VALUES (?, ?, ?)",
		uuid.NewString(), int64(seed), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	return int(id), nil
}

// NextRun implements telemetry.RunIndexer.
func (db *DB) NextRun() (int, error) {
	return db.BeginRun(0)
}

// FinishRun records how a run ended.
func (db *DB) FinishRun(id, ticks int, reason string, population, dead int) error {
	_, err := db.conn.Exec(
		"UPDATE runs SET ticks = ?, stop_reason = ?, population = ?, dead = ? WHERE id = ?",
		ticks, reason, population, dead, id,
	)
	if err != nil {
		return fmt.Errorf("finish run %d: %w", id, err)
	}
	return nil
}

// SaveCreatures writes the creature log of one run.
func (db *DB) SaveCreatures(runID int, records []telemetry.CreatureRecord) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO creatures
		(run_id, record_id, family, size, speed, time_alive, food_eaten_total,
		 reproductions, is_carnivore, personality)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		carnivore := 0
		if r.IsCarnivore {
			carnivore = 1
		}
		if _, err := stmt.Exec(runID, r.ID, r.Family, r.Size, r.Speed, r.TimeAlive,
			r.FoodEatenTotal, r.Reproductions, carnivore, r.Personality.String()); err != nil {
			return fmt.Errorf("insert creature %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("saved creatures", "run", runID, "count", len(records))
	return nil
}

// LoadCreatures returns the creature log of one run, or of every run when runID < 0.
func (db *DB) LoadCreatures(runID int) ([]telemetry.CreatureRecord, error) {
	var rows []creatureRow
	var err error
	if runID < 0 {
		err = db.conn.Select(&rows, "SELECT * FROM creatures ORDER BY run_id, rowid")
	} else {
		err = db.conn.Select(&rows, "SELECT * FROM creatures WHERE run_id = ? ORDER BY rowid", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("load creatures: %w", err)
	}

	out := make([]telemetry.CreatureRecord, len(rows))
	for i, r := range rows {
		p, err := components.ParsePersonality(r.Personality)
		if err != nil {
			return nil, fmt.Errorf("creature %s: %w", r.RecordID, err)
		}
		out[i] = telemetry.CreatureRecord{
			ID:             r.RecordID,
			Family:         r.Family,
			Size:           r.Size,
			Speed:          r.Speed,
			TimeAlive:      r.TimeAlive,
			FoodEatenTotal: r.FoodEatenTotal,
			Reproductions:  r.Reproductions,
			IsCarnivore:    r.IsCarnivore,
			Personality:    p,
		}
	}
	return out, nil
}

// Runs returns the most recent runs, newest first.
func (db *DB) Runs(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs, "SELECT * FROM runs ORDER BY id DESC LIMIT ?", limit)
	return runs, err
}
