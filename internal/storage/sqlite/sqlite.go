// Package sqlite provides a SQLite implementation of the storage interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wcrbrm/serve-delayed/pkg/types"
	_ "modernc.org/sqlite"
)

// requestColumns is the column list for request queries.
const requestColumns = `id, method, path, resolved, fallback, status, bytes, delay_ms, duration_ms, remote, created_at`

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// New creates a new SQLite storage instance.
func New(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &SQLiteStorage{
		db:   db,
		path: path,
	}, nil
}

// Init initializes the database schema.
func (s *SQLiteStorage) Init(ctx context.Context) error {
	// Check current schema version
	var version int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		// Table doesn't exist, run all migrations
		version = 0
	}

	// Run migrations that haven't been applied
	for i := version; i < len(migrations); i++ {
		if _, err := s.db.ExecContext(ctx, migrations[i]); err != nil {
			return fmt.Errorf("failed to run migration %d: %w", i+1, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// RecordRequest stores a served request.
func (s *SQLiteStorage) RecordRequest(ctx context.Context, rec *types.RequestRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO requests (`+requestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Method, rec.Path, nullString(rec.Resolved), rec.Fallback, rec.Status,
		rec.Bytes, rec.DelayMs, rec.DurationMs, nullString(rec.Remote), rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record request: %w", err)
	}
	return nil
}

// ListRequests returns the most recent requests first.
func (s *SQLiteStorage) ListRequests(ctx context.Context, limit int) ([]*types.RequestRecord, error) {
	query := `SELECT ` + requestColumns + ` FROM requests ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var records []*types.RequestRecord
	for rows.Next() {
		rec, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// PruneRequests deletes requests recorded before the cutoff.
func (s *SQLiteStorage) PruneRequests(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM requests WHERE created_at < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune requests: %w", err)
	}
	return result.RowsAffected()
}

// scanRequest scans a request record from a SQL row.
func scanRequest(scanner interface{ Scan(...any) error }) (*types.RequestRecord, error) {
	var rec types.RequestRecord
	var resolved, remote sql.NullString

	err := scanner.Scan(
		&rec.ID, &rec.Method, &rec.Path, &resolved, &rec.Fallback, &rec.Status,
		&rec.Bytes, &rec.DelayMs, &rec.DurationMs, &remote, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Resolved = resolved.String
	rec.Remote = remote.String

	return &rec, nil
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
