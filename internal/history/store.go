// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps an opt-in ledger of conversion runs in SQLite and
// exports it as YAML or JSON.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pptx2pdf/pkg/types"
)

const (
	dbFile       = "pptx2pdf.db"
	defaultLimit = 20

	// timeLayout is fixed width so stored timestamps sort as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store manages the run ledger database.
type Store struct {
	db    *sql.DB
	dir   string
	limit int
}

// NewStore opens or creates the ledger at cfg.Dir/pptx2pdf.db and creates
// the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("history directory not configured")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	s := &Store{db: db, dir: cfg.Dir, limit: limit}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			backend TEXT NOT NULL,
			input_dir TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			converted INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			source_path TEXT NOT NULL,
			status TEXT NOT NULL,
			output_path TEXT,
			reason TEXT,
			pages INTEGER,
			duration_ms INTEGER,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts run and its per-file results in one transaction and
// returns the new run ID.
func (s *Store) Record(ctx context.Context, run types.Run) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (backend, input_dir, output_dir, started_at, finished_at, converted, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Backend, run.Job.InputDir, run.Job.OutputDir,
		formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.Summary.Converted, run.Summary.Failed,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO files (run_id, seq, name, source_path, status, output_path, reason, pages, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing file insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range run.Summary.Results {
		if _, err := stmt.ExecContext(ctx,
			id, i, r.Name, r.SourcePath, string(r.Status),
			r.OutputPath, r.Reason, r.Pages, r.Duration.Milliseconds(),
		); err != nil {
			return 0, fmt.Errorf("inserting result for %s: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// Recent returns up to limit runs, newest first, with their results. A
// non-positive limit uses the store default.
func (s *Store) Recent(ctx context.Context, limit int) ([]types.Run, error) {
	if limit <= 0 {
		limit = s.limit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, backend, input_dir, output_dir, started_at, finished_at, converted, failed
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.Run
	for rows.Next() {
		var (
			r                 types.Run
			started, finished string
		)
		if err := rows.Scan(&r.ID, &r.Backend, &r.Job.InputDir, &r.Job.OutputDir,
			&started, &finished, &r.Summary.Converted, &r.Summary.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished)
		r.Summary.OutputDir = r.Job.OutputDir
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		results, err := s.results(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Summary.Results = results
	}
	return runs, nil
}

func (s *Store) results(ctx context.Context, runID int64) ([]types.ConversionResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, source_path, status, COALESCE(output_path, ''), COALESCE(reason, ''),
		        COALESCE(pages, 0), COALESCE(duration_ms, 0)
		 FROM files WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying results for run %d: %w", runID, err)
	}
	defer rows.Close()

	var results []types.ConversionResult
	for rows.Next() {
		var (
			r          types.ConversionResult
			status     string
			durationMS int64
		)
		if err := rows.Scan(&r.Name, &r.SourcePath, &status, &r.OutputPath, &r.Reason, &r.Pages, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.Status = types.ConversionStatus(status)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		results = append(results, r)
	}
	return results, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
