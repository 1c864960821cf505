// Package runs keeps a history of crawl runs in SQLite.
package runs

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Store manages run history using SQLite.
type Store struct {
	db *sql.DB
}

// Run is one crawl run.
type Run struct {
	RunID           uuid.UUID  `json:"run_id"`
	RootURL         string     `json:"root_url"`
	Status          string     `json:"status"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	SectionsFound   int        `json:"sections_found"`
	SectionsFailed  int        `json:"sections_failed"`
	ArticlesSeen    int        `json:"articles_seen"`
	RecordsWritten  int        `json:"records_written"`
	ArticlesSkipped int        `json:"articles_skipped"`
	ArticlesFailed  int        `json:"articles_failed"`
	LastError       *string    `json:"last_error,omitempty"`
}

// FailureRecord is a section or article that could not be processed during
// a run.
type FailureRecord struct {
	RunID      uuid.UUID `json:"run_id"`
	Unit       string    `json:"unit"` // "section" or "article"
	URL        string    `json:"url"`
	Kind       string    `json:"kind"` // "structure", "parse", "transport", "other"
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewStore creates a new run store with the given database path.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the run tables if they don't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		root_url TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		sections_found INTEGER DEFAULT 0,
		sections_failed INTEGER DEFAULT 0,
		articles_seen INTEGER DEFAULT 0,
		records_written INTEGER DEFAULT 0,
		articles_skipped INTEGER DEFAULT 0,
		articles_failed INTEGER DEFAULT 0,
		last_error TEXT
	);

	CREATE TABLE IF NOT EXISTS run_failures (
		failure_id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
		unit TEXT NOT NULL,
		url TEXT NOT NULL,
		kind TEXT NOT NULL,
		message TEXT NOT NULL,
		occurred_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// StartRun records a new running run.
func (s *Store) StartRun(rootURL string, startedAt time.Time) (*Run, error) {
	run := &Run{
		RunID:     uuid.New(),
		RootURL:   rootURL,
		Status:    StatusRunning,
		StartedAt: startedAt.Truncate(0),
	}

	query := `
		INSERT INTO runs (run_id, root_url, status, started_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		run.RunID.String(),
		run.RootURL,
		run.Status,
		formatTime(&run.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	return run, nil
}

// FinishRun stores the final status and counters of run.
func (s *Store) FinishRun(run *Run) error {
	query := `
		UPDATE runs SET
			status = ?, finished_at = ?,
			sections_found = ?, sections_failed = ?,
			articles_seen = ?, records_written = ?,
			articles_skipped = ?, articles_failed = ?,
			last_error = ?
		WHERE run_id = ?
	`

	result, err := s.db.Exec(query,
		run.Status,
		formatTime(run.FinishedAt),
		run.SectionsFound,
		run.SectionsFailed,
		run.ArticlesSeen,
		run.RecordsWritten,
		run.ArticlesSkipped,
		run.ArticlesFailed,
		run.LastError,
		run.RunID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return ErrRunNotFound
	}

	return nil
}

// RecordFailure stores a failure against its run.
func (s *Store) RecordFailure(failure FailureRecord) error {
	query := `
		INSERT INTO run_failures (run_id, unit, url, kind, message, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		failure.RunID.String(),
		failure.Unit,
		failure.URL,
		failure.Kind,
		failure.Message,
		formatTime(&failure.OccurredAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert failure: %w", err)
	}

	return nil
}

const runColumns = `
	run_id, root_url, status, started_at, finished_at,
	sections_found, sections_failed, articles_seen, records_written,
	articles_skipped, articles_failed, last_error
`

// GetRun retrieves a run by ID.
func (s *Store) GetRun(runID uuid.UUID) (*Run, error) {
	query := "SELECT " + runColumns + " FROM runs WHERE run_id = ?"

	run, err := scanRun(s.db.QueryRow(query, runID.String()))
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	return run, nil
}

// ListRuns returns runs newest first. A limit of zero or less returns all
// runs.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// ListFailures returns the failures of a run in the order they were
// recorded.
func (s *Store) ListFailures(runID uuid.UUID) ([]FailureRecord, error) {
	query := `
		SELECT run_id, unit, url, kind, message, occurred_at
		FROM run_failures
		WHERE run_id = ?
		ORDER BY failure_id
	`

	rows, err := s.db.Query(query, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query failures: %w", err)
	}
	defer rows.Close()

	var failures []FailureRecord
	for rows.Next() {
		var runIDStr, occurredAtStr string
		var failure FailureRecord

		err := rows.Scan(
			&runIDStr, &failure.Unit, &failure.URL,
			&failure.Kind, &failure.Message, &occurredAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}

		failure.RunID, err = uuid.Parse(runIDStr)
		if err != nil {
			return nil, fmt.Errorf("invalid run_id: %w", err)
		}
		failure.OccurredAt = parseTime(occurredAtStr)

		failures = append(failures, failure)
	}

	return failures, rows.Err()
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var runIDStr, startedAtStr string
	var finishedAtStr, lastError sql.NullString
	var run Run

	err := row.Scan(
		&runIDStr, &run.RootURL, &run.Status, &startedAtStr, &finishedAtStr,
		&run.SectionsFound, &run.SectionsFailed, &run.ArticlesSeen, &run.RecordsWritten,
		&run.ArticlesSkipped, &run.ArticlesFailed, &lastError,
	)
	if err != nil {
		return nil, err
	}

	run.RunID, err = uuid.Parse(runIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid run_id: %w", err)
	}

	run.StartedAt = parseTime(startedAtStr)
	if finishedAtStr.Valid {
		t := parseTime(finishedAtStr.String)
		run.FinishedAt = &t
	}
	if lastError.Valid {
		run.LastError = &lastError.String
	}

	return &run, nil
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	// Strip monotonic clock for consistent storage and comparisons
	return t.Truncate(0).UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	// Try RFC3339Nano first, fall back to RFC3339 for compatibility
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t.Truncate(0)
}
