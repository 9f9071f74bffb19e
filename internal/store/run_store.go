package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// RunResult is one row of the job report: the outcome of processing a
// single input file.
type RunResult struct {
	File       string
	RowsIn     int
	RowsOut    int
	Padded     int
	Status     string // "ok" or "error"
	Error      string // empty when Status == "ok"
	FinishedAt time.Time
}

// Run result statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// RunStore records per-file processing outcomes in a SQLite database so a
// job's results can be inspected after the fact.
type RunStore struct {
	db *sql.DB
}

// NewRunStore opens (or creates) a SQLite database at dbPath and ensures
// the runs table exists.
func NewRunStore(dbPath string) (*RunStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	file        TEXT NOT NULL,
	rows_in     INTEGER NOT NULL,
	rows_out    INTEGER NOT NULL,
	padded      INTEGER NOT NULL,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	finished_at TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating runs table: %w", err)
	}

	return &RunStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// Record inserts one run result.
func (s *RunStore) Record(ctx context.Context, r RunResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (file, rows_in, rows_out, padded, status, error, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.File, r.RowsIn, r.RowsOut, r.Padded, r.Status, r.Error,
		r.FinishedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting run result for %s: %w", r.File, err)
	}
	return nil
}

// List returns all recorded results matching status, or every result when
// status is empty, in insertion order.
func (s *RunStore) List(ctx context.Context, status string) ([]RunResult, error) {
	query := `SELECT file, rows_in, rows_out, padded, status, error, finished_at FROM runs`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunResult
	for rows.Next() {
		var r RunResult
		var finished string
		if err := rows.Scan(&r.File, &r.RowsIn, &r.RowsOut, &r.Padded, &r.Status, &r.Error, &finished); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}
