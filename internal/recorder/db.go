// Package recorder archives finished runs for external plotting: run
// metadata, per-tick scalar series, and optional compressed snapshots.
// It is an output collaborator wired in through the runner's tick
// hook; the simulation core never imports it. See design doc Section 4.
package recorder

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection for the run archive.
type DB struct {
	conn *sqlx.DB
}

// Run is one archived simulation run.
type Run struct {
	ID        string `db:"id" json:"id"`
	Model     string `db:"model" json:"model"`
	Seed      int64  `db:"seed" json:"seed"`
	Ticks     int    `db:"ticks" json:"ticks"`
	Params    string `db:"params" json:"params"` // JSON-encoded construction parameters
	CreatedAt string `db:"created_at" json:"created_at"`
}

// Open opens or creates the archive database at the given path.
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
		id TEXT PRIMARY KEY,
		model TEXT NOT NULL,
		seed INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		params TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS series (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		value REAL NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		data BLOB NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE INDEX IF NOT EXISTS idx_series_run ON series(run_id);
	CREATE INDEX IF NOT EXISTS idx_snapshots_run ON snapshots(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// BeginRun registers a run and returns its id. params is stored as
// JSON alongside the seed so a plot can be reproduced exactly.
func (db *DB) BeginRun(model string, seed int64, ticks int, params any) (string, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encode params: %w", err)
	}

	id := uuid.NewString()
	_, err = db.conn.Exec(
		"INSERT INTO runs (id, model, seed, ticks, params, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, model, seed, ticks, string(paramsJSON), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// SaveSeries writes a run's full scalar series in one transaction,
// replacing any previous values for the run.
func (db *DB) SaveSeries(runID string, values []float64) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM series WHERE run_id = ?", runID); err != nil {
		return err
	}

	stmt, err := tx.Preparex("INSERT INTO series (run_id, tick, value) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, v := range values {
		if _, err := stmt.Exec(runID, i+1, v); err != nil {
			return fmt.Errorf("insert series tick %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("series archived", "run", runID, "ticks", len(values))
	return nil
}

// LoadSeries reads a run's series back in tick order.
func (db *DB) LoadSeries(runID string) ([]float64, error) {
	var values []float64
	err := db.conn.Select(&values,
		"SELECT value FROM series WHERE run_id = ? ORDER BY tick", runID)
	return values, err
}

// ListRuns returns archived runs, newest first.
func (db *DB) ListRuns() ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT id, model, seed, ticks, params, created_at FROM runs ORDER BY created_at DESC")
	return runs, err
}

// GetRun returns one archived run by id.
func (db *DB) GetRun(id string) (Run, error) {
	var run Run
	err := db.conn.Get(&run,
		"SELECT id, model, seed, ticks, params, created_at FROM runs WHERE id = ?", id)
	return run, err
}
