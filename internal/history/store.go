package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"contactsheet/internal/config"
	"contactsheet/internal/match"
	"contactsheet/internal/report"
	"contactsheet/internal/services"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; old databases must be deleted rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was written by a different
// schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Store persists run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one recorded invocation.
type Run struct {
	ID              string    `json:"id"`
	Mode            string    `json:"mode"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	ContactsFile    string    `json:"contacts_file"`
	SourceDir       string    `json:"source_dir"`
	OutputDir       string    `json:"output_dir"`
	TotalTags       int       `json:"total_tags"`
	MatchedTags     int       `json:"matched_tags"`
	TotalContacts   int       `json:"total_contacts"`
	MatchedContacts int       `json:"matched_contacts"`
}

// AssignmentRow is one tag outcome within a recorded run. A tag that
// resolved to several contacts contributes several rows.
type AssignmentRow struct {
	TagLabel           string `json:"tag_label"`
	TagSource          string `json:"tag_source"`
	Matched            bool   `json:"matched"`
	ContactName        string `json:"contact_name,omitempty"`
	ContactAffiliation string `json:"contact_affiliation,omitempty"`
}

// Open initializes or connects to the history database under the log
// directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "history", "open", "ensuring directories", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "history", "open", "opening sqlite db", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, services.Wrap(services.ErrConfiguration, "history", "open",
				fmt.Sprintf("applying pragma %q", pragma), execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
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

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "history", "init_schema", "checking schema_version table", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return services.Wrap(services.ErrConfiguration, "history", "init_schema", "reading schema version", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "history", "init_schema", "beginning schema tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return services.Wrap(services.ErrConfiguration, "history", "init_schema", "creating schema", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return services.Wrap(services.ErrConfiguration, "history", "init_schema", "writing schema version", err)
	}
	return tx.Commit()
}

// RecordRun stores one run with its per-tag outcomes and returns the
// generated run ID.
func (s *Store) RecordRun(ctx context.Context, run Run, summary report.Summary, assignments []match.Assignment) (string, error) {
	ctx = ensureContext(ctx)
	id := uuid.NewString()

	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		_, err = tx.ExecContext(ctx,
			`INSERT INTO runs (
                id, mode, started_at, finished_at,
                contacts_file, source_dir, output_dir,
                total_tags, matched_tags, total_contacts, matched_contacts
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id,
			run.Mode,
			run.StartedAt.UTC().Format(time.RFC3339Nano),
			run.FinishedAt.UTC().Format(time.RFC3339Nano),
			run.ContactsFile,
			run.SourceDir,
			run.OutputDir,
			summary.TotalTags,
			summary.MatchedTags,
			summary.TotalContacts,
			summary.MatchedContacts,
		)
		if err != nil {
			return err
		}

		for _, assignment := range assignments {
			if !assignment.Matched() {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO run_assignments (run_id, tag_label, tag_source, matched)
                     VALUES (?, ?, ?, 0)`,
					id, assignment.Tag.RawLabel, assignment.Tag.Source,
				); err != nil {
					return err
				}
				continue
			}
			for _, record := range assignment.Resolved {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO run_assignments (run_id, tag_label, tag_source, matched, contact_name, contact_affiliation)
                     VALUES (?, ?, ?, 1, ?, ?)`,
					id, assignment.Tag.RawLabel, assignment.Tag.Source, record.Name, record.Affiliation,
				); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "history", "record_run", "inserting run", err)
	}
	return id, nil
}

// ListRuns returns all recorded runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, started_at, finished_at,
                contacts_file, source_dir, output_dir,
                total_tags, matched_tags, total_contacts, matched_contacts
         FROM runs ORDER BY started_at DESC, id DESC`)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "history", "list_runs", "querying runs", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run      Run
			started  string
			finished string
		)
		if err := rows.Scan(
			&run.ID, &run.Mode, &started, &finished,
			&run.ContactsFile, &run.SourceDir, &run.OutputDir,
			&run.TotalTags, &run.MatchedTags, &run.TotalContacts, &run.MatchedContacts,
		); err != nil {
			return nil, services.Wrap(services.ErrTransient, "history", "list_runs", "scanning run", err)
		}
		run.StartedAt = parseTimestamp(started)
		run.FinishedAt = parseTimestamp(finished)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrTransient, "history", "list_runs", "iterating runs", err)
	}
	return runs, nil
}

// RunAssignments returns the per-tag outcomes of one run in insertion
// order. An unknown run ID yields ErrNotFound.
func (s *Store) RunAssignments(ctx context.Context, runID string) ([]AssignmentRow, error) {
	ctx = ensureContext(ctx)

	var exists int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM runs WHERE id = ?", runID).Scan(&exists); err != nil {
		return nil, services.Wrap(services.ErrTransient, "history", "run_assignments", "checking run", err)
	}
	if exists == 0 {
		return nil, services.Wrap(services.ErrNotFound, "history", "run_assignments",
			fmt.Sprintf("run %s", runID), nil)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT tag_label, tag_source, matched, contact_name, contact_affiliation
         FROM run_assignments WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "history", "run_assignments", "querying assignments", err)
	}
	defer rows.Close()

	var out []AssignmentRow
	for rows.Next() {
		var (
			row     AssignmentRow
			matched int
		)
		if err := rows.Scan(&row.TagLabel, &row.TagSource, &matched, &row.ContactName, &row.ContactAffiliation); err != nil {
			return nil, services.Wrap(services.ErrTransient, "history", "run_assignments", "scanning assignment", err)
		}
		row.Matched = matched != 0
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrTransient, "history", "run_assignments", "iterating assignments", err)
	}
	return out, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
