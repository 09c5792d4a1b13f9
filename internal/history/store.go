// Package history records finished download runs to SQLite so past outcomes
// can be reviewed. The scheduler never reads this database; it is strictly an
// audit trail, not a job queue.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"subfetch/internal/jobs"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; an old database must be deleted rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by a different version.
var ErrSchemaMismatch = errors.New("history schema version mismatch")

// Store persists run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one recorded download cycle.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Root       string
	Languages  []string
	Forced     bool
	Cancelled  bool
	Total      int
	Completed  int
	Failed     int
}

// JobRecord is one job outcome within a recorded run.
type JobRecord struct {
	Target        string
	Status        jobs.Status
	Reason        string
	SubtitleCount int
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return tx.Commit()
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// RecordRun stores one finished run with its job outcomes and returns the
// generated run ID.
func (s *Store) RecordRun(ctx context.Context, run Run, records []JobRecord) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, root, languages, forced, cancelled, total, completed, failed)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Root,
		strings.Join(run.Languages, ","),
		boolToInt(run.Forced),
		boolToInt(run.Cancelled),
		run.Total,
		run.Completed,
		run.Failed,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, record := range records {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_jobs (run_id, target, status, reason, subtitle_count)
             VALUES (?, ?, ?, ?, ?)`,
			run.ID, record.Target, string(record.Status), record.Reason, record.SubtitleCount)
		if err != nil {
			return "", fmt.Errorf("insert run job: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	return run.ID, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, root, languages, forced, cancelled, total, completed, failed
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished, languages string
		var forced, cancelled int
		if err := rows.Scan(&run.ID, &started, &finished, &run.Root, &languages,
			&forced, &cancelled, &run.Total, &run.Completed, &run.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		if languages != "" {
			run.Languages = strings.Split(languages, ",")
		}
		run.Forced = forced != 0
		run.Cancelled = cancelled != 0
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunJobs returns the job outcomes recorded for one run.
func (s *Store) RunJobs(ctx context.Context, runID string) ([]JobRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT target, status, reason, subtitle_count FROM run_jobs WHERE run_id = ? ORDER BY target`, runID)
	if err != nil {
		return nil, fmt.Errorf("list run jobs: %w", err)
	}
	defer rows.Close()

	var records []JobRecord
	for rows.Next() {
		var record JobRecord
		var status string
		if err := rows.Scan(&record.Target, &status, &record.Reason, &record.SubtitleCount); err != nil {
			return nil, fmt.Errorf("scan run job: %w", err)
		}
		record.Status = jobs.Status(status)
		records = append(records, record)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
