// Package history keeps a local log of transcription runs in SQLite.
//
// The store is optional. Callers that cannot open or write it should log
// a warning and carry on; losing history never loses transcription work.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	apperrors "github.com/skillsenselab/batchscribe/errors"
	"github.com/skillsenselab/batchscribe/sink"
	"github.com/skillsenselab/batchscribe/validation"
)

// Run describes one invocation of a directory transcription.
type Run struct {
	ID         string
	Provider   string
	AudioDir   string
	OutputCSV  string
	Language   string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Succeeded  int
	Failed     int
}

// Result is one file's outcome within a run.
type Result struct {
	RunID    string
	Filename string
	Status   string
	Text     string
}

// Store is a SQLite-backed run log.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	provider TEXT NOT NULL,
	audio_dir TEXT NOT NULL,
	output_csv TEXT NOT NULL,
	language TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	total INTEGER NOT NULL,
	succeeded INTEGER NOT NULL,
	failed INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	run_id TEXT NOT NULL REFERENCES runs(id),
	filename TEXT NOT NULL,
	status TEXT NOT NULL,
	text TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id);
`

// Open opens the run log at path, creating the schema if needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// RecordRun stores a run and its per-file results in one transaction.
// The run's tallies are derived from the records; a missing ID is filled
// with a fresh UUID.
func (s *Store) RecordRun(ctx context.Context, run *Run, records []sink.Record) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	run.Total = len(records)
	run.Succeeded, run.Failed = tally(records)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history: begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op.

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, provider, audio_dir, output_csv, language, started_at, finished_at, total, succeeded, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Provider, run.AudioDir, run.OutputCSV, run.Language,
		run.StartedAt, run.FinishedAt, run.Total, run.Succeeded, run.Failed)
	if err != nil {
		return fmt.Errorf("history: insert run: %w", err)
	}

	for _, rec := range records {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO results (run_id, filename, status, text) VALUES (?, ?, ?, ?)`,
			run.ID, rec["filename"], rec["status"], rec["text"])
		if err != nil {
			return fmt.Errorf("history: insert result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("history: commit: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. The limit must be
// at least 1.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if appErr := validation.New().Min("limit", limit, 1).Validate(); appErr != nil {
		return nil, appErr
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, provider, audio_dir, output_csv, language, started_at, finished_at, total, succeeded, failed
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Provider, &r.AudioDir, &r.OutputCSV, &r.Language,
			&r.StartedAt, &r.FinishedAt, &r.Total, &r.Succeeded, &r.Failed); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	return runs, nil
}

// RunResults returns the per-file results of one run in insertion order.
// Run ids are UUIDs; anything else is rejected before the query runs. An
// id that parses but matches no recorded run is a NotFound error, so a
// mistyped id is distinguishable from a run that transcribed zero files.
func (s *Store) RunResults(ctx context.Context, runID string) ([]Result, error) {
	if appErr := validation.New().RequiredUUID("run_id", runID).Validate(); appErr != nil {
		return nil, appErr
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM runs WHERE id = ?)`, runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("history: look up run: %w", err)
	}
	if !exists {
		return nil, apperrors.NotFound("run", runID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, filename, status, text FROM results WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("history: run results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.RunID, &r.Filename, &r.Status, &r.Text); err != nil {
			return nil, fmt.Errorf("history: scan result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: run results: %w", err)
	}
	return results, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// tally counts completed outcomes. A completion with no detected speech
// is still a successful transcription.
func tally(records []sink.Record) (succeeded, failed int) {
	for _, rec := range records {
		switch rec["status"] {
		case "success", "no_speech_detected":
			succeeded++
		default:
			failed++
		}
	}
	return succeeded, failed
}
