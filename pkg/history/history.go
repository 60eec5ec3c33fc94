// Package history keeps a local SQLite record of completed build runs, so
// output files can be traced back to the config and depth that produced
// them.
package history

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	sql *sql.DB
}

// Run is one completed color build.
type Run struct {
	ID           int64
	ConfigName   string
	Color        string
	Depth        int
	OutputFile   string
	Games        int
	Variations   int
	AverageDepth float64
	CreatedAt    time.Time
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS build_runs (
  id            INTEGER PRIMARY KEY,
  config_name   TEXT NOT NULL,
  color         TEXT NOT NULL,
  depth         INTEGER NOT NULL,
  output_file   TEXT NOT NULL,
  games         INTEGER NOT NULL,
  variations    INTEGER NOT NULL,
  avg_depth     REAL NOT NULL,
  created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_config ON build_runs(config_name, created_at);
	`); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// RecordRun inserts one build run.
func (d *DB) RecordRun(ctx context.Context, r Run) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO build_runs(config_name, color, depth, output_file, games, variations, avg_depth, created_at) VALUES(?,?,?,?,?,?,?,?)`,
		r.ConfigName, r.Color, r.Depth, r.OutputFile, r.Games, r.Variations, r.AverageDepth, time.Now().UTC())
	return err
}

// ListRuns returns the most recent runs, newest first.
func (d *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, config_name, color, depth, output_file, games, variations, avg_depth, created_at FROM build_runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.ConfigName, &r.Color, &r.Depth, &r.OutputFile, &r.Games, &r.Variations, &r.AverageDepth, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
