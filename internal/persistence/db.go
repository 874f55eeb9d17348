// Package persistence provides a SQLite ledger of generation runs. It keeps
// one summary per run, never the graph itself.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/torus-map/internal/mapgen"
)

// DB wraps a SQLite connection for the run ledger.
type DB struct {
	conn *sqlx.DB
}

// Run is one ledger row.
type Run struct {
	ID           string `db:"id"`
	Seed         int64  `db:"seed"`
	Width        int    `db:"width"`
	Height       int    `db:"height"`
	Players      int    `db:"players"`
	Nodes        int    `db:"nodes"`
	Connections  int    `db:"connections"`
	CaveAttempts int    `db:"cave_attempts"`
	WarningsJSON string `db:"warnings_json"`
	CreatedAt    int64  `db:"created_at"` // Unix seconds
}

// Warnings decodes the stored warning list.
func (r Run) Warnings() ([]string, error) {
	var out []string
	if r.WarningsJSON == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(r.WarningsJSON), &out); err != nil {
		return nil, fmt.Errorf("decode warnings: %w", err)
	}
	return out, nil
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
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
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		players INTEGER NOT NULL,
		nodes INTEGER NOT NULL,
		connections INTEGER NOT NULL,
		cave_attempts INTEGER NOT NULL,
		warnings_json TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_features (
		run_id TEXT NOT NULL REFERENCES runs(id),
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (run_id, kind, name)
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun records a summary and its feature counts and returns the new
// run id.
func (db *DB) SaveRun(s mapgen.Summary) (string, error) {
	warnings := s.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return "", fmt.Errorf("encode warnings: %w", err)
	}

	run := Run{
		ID:           uuid.NewString(),
		Seed:         s.Seed,
		Width:        s.Width,
		Height:       s.Height,
		Players:      s.Players,
		Nodes:        s.Nodes,
		Connections:  s.Connections,
		CaveAttempts: s.CaveAttempts,
		WarningsJSON: string(warningsJSON),
		CreatedAt:    time.Now().Unix(),
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.NamedExec(`INSERT INTO runs
		(id, seed, width, height, players, nodes, connections, cave_attempts, warnings_json, created_at)
		VALUES (:id, :seed, :width, :height, :players, :nodes, :connections, :cave_attempts, :warnings_json, :created_at)`,
		run,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, f := range s.Features() {
		_, err := tx.Exec(
			"INSERT INTO run_features (run_id, kind, name, count) VALUES (?, ?, ?, ?)",
			run.ID, f.Kind, f.Name, f.Count,
		)
		if err != nil {
			return "", fmt.Errorf("insert feature %s/%s: %w", f.Kind, f.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	slog.Debug("run saved", "id", run.ID, "seed", run.Seed)
	return run.ID, nil
}

// GetRun loads one run by id.
func (db *DB) GetRun(id string) (Run, error) {
	var run Run
	err := db.conn.Get(&run, "SELECT * FROM runs WHERE id = ?", id)
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// RecentRuns returns the most recent N runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT * FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// Features returns the stored counts of a run, sorted by kind then name.
func (db *DB) Features(runID string) ([]mapgen.Feature, error) {
	var features []mapgen.Feature
	err := db.conn.Select(&features,
		"SELECT kind, name, count FROM run_features WHERE run_id = ? ORDER BY kind, name",
		runID,
	)
	return features, err
}

// SaveMeta stores a key-value pair in ledger metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}
