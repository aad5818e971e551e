// Package sqlite persists an optional history of runs and the findings they
// reported. The pipeline never reads this data; it exists for later
// inspection with ordinary sqlite tooling.
package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bkyoung/lintdiff/internal/usecase/lintdiff"
)

// Store implements the lintdiff.Store interface using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a store at the given path. Use ":memory:" for an
// in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return s, nil
}

func (s *Store) createSchema() error {
	schema := `
	-- One row per completed run
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		repository TEXT NOT NULL,
		head TEXT NOT NULL,
		changed_files INTEGER NOT NULL,
		new_findings INTEGER NOT NULL
	);

	-- Findings reported by a run
	CREATE TABLE IF NOT EXISTS findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		file TEXT NOT NULL,
		line INTEGER NOT NULL,
		col INTEGER NOT NULL,
		severity TEXT NOT NULL,
		message TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordRun stores a run and its findings in one transaction.
func (s *Store) RecordRun(ctx context.Context, run lintdiff.RunRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := runID(run)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, timestamp, repository, head, changed_files, new_findings)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, run.Timestamp.Unix(), run.Repository, run.Head, run.ChangedFiles, len(run.Findings),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, f := range run.Findings {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO findings (run_id, file, line, col, severity, message)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, f.File, f.Line, f.Column, f.Severity, f.Message,
		)
		if err != nil {
			return fmt.Errorf("insert finding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// RunCount returns the number of recorded runs.
func (s *Store) RunCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return count, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// runID derives a deterministic identifier from the run's repository, head
// and timestamp.
func runID(run lintdiff.RunRecord) string {
	payload := fmt.Sprintf("%s|%s|%d", run.Repository, run.Head, run.Timestamp.UnixNano())
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:8])
}
