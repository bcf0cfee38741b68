// Package sqlite persists run history in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mediadex-dev/mediadex-cli/internal/core/ports/driven"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 20

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is a SQLite-backed implementation of driven.RunStore.
type RunStore struct {
	db   *sql.DB
	path string
}

// NewRunStore opens (creating if needed) the run-history database at
// dbPath.
func NewRunStore(dbPath string) (*RunStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &RunStore{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *RunStore) Path() string {
	return s.path
}

// migrate creates the runs table.
func (s *RunStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			repositories INTEGER NOT NULL,
			types INTEGER NOT NULL,
			files_found INTEGER NOT NULL,
			files_processed INTEGER NOT NULL,
			files_failed INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating runs table: %w", err)
	}
	return nil
}

// Save records a completed run.
func (s *RunStore) Save(ctx context.Context, record driven.RunRecord) error {
	startedAt := record.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, repositories, types, files_found, files_processed, files_failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_at = excluded.started_at,
			repositories = excluded.repositories,
			types = excluded.types,
			files_found = excluded.files_found,
			files_processed = excluded.files_processed,
			files_failed = excluded.files_failed
	`, record.ID, startedAt, record.Repositories, record.Types,
		record.Stats.FilesFound, record.Stats.FilesProcessed, record.Stats.FilesFailed)

	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *RunStore) List(ctx context.Context, limit int) ([]driven.RunRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, repositories, types, files_found, files_processed, files_failed
		FROM runs
		ORDER BY started_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []driven.RunRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r driven.RunRecord
		var startedAt sql.NullTime
		if err := rows.Scan(&r.ID, &startedAt, &r.Repositories, &r.Types,
			&r.Stats.FilesFound, &r.Stats.FilesProcessed, &r.Stats.FilesFailed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if startedAt.Valid {
			r.StartedAt = startedAt.Time
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return records, nil
}
