// Package sqlite provides a durable registry implementation backed by an
// embedded SQLite database. It satisfies the same contract as the in-memory
// registry, so records survive process restarts without any other component
// changing.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jayanta8509/storage-audio/pkg/media"
	"github.com/jayanta8509/storage-audio/pkg/registry"
)

// ErrDatabase is returned when an underlying database operation fails.
var ErrDatabase = errors.New("registry database error")

// Store is the SQLite-backed registry.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore opens (or creates) the registry database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	database, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", ErrDatabase, err)
	}

	ctx := context.Background()

	// Enable WAL mode for better concurrency
	if _, err := database.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("%w: failed to enable WAL mode: %w", ErrDatabase, err)
	}

	if _, err := database.ExecContext(ctx, Schema); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("%w: failed to initialize schema: %w", ErrDatabase, err)
	}

	return &Store{db: database}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert adds a new record, failing with DuplicateTokenError if the token is
// already present.
func (s *Store) Insert(record registry.FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO files (token, category, stored_name, original_filename, file_path, size_bytes, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Token, string(record.Category), record.StoredName, record.OriginalFilename,
		record.FilePath, record.SizeBytes, record.CreatedAt.UnixNano(), record.ExpiresAt.UnixNano(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return registry.DuplicateTokenError{Token: record.Token}
		}
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return nil
}

// Get returns the record for token, or NotFoundError.
func (s *Store) Get(token string) (registry.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.scanRecord(s.db.QueryRowContext(context.Background(),
		`SELECT token, category, stored_name, original_filename, file_path, size_bytes, created_at, expires_at
		 FROM files WHERE token = ?`, token), token)
}

// SnapshotExpired returns the tokens of all records expired at now.
func (s *Store) SnapshotExpired(now time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(context.Background(),
		`SELECT token FROM files WHERE expires_at < ?`, now.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	defer func() { _ = rows.Close() }()

	var expired []string
	for rows.Next() {
		var token string
		if scanErr := rows.Scan(&token); scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabase, scanErr)
		}
		expired = append(expired, token)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return expired, nil
}

// Remove atomically removes and returns the record for token.
func (s *Store) Remove(token string) (registry.FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()

	record, err := s.scanRecord(s.db.QueryRowContext(ctx,
		`SELECT token, category, stored_name, original_filename, file_path, size_bytes, created_at, expires_at
		 FROM files WHERE token = ?`, token), token)
	if err != nil {
		return registry.FileRecord{}, err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE token = ?`, token); err != nil {
		return registry.FileRecord{}, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return record, nil
}

// Len returns the number of live records.
func (s *Store) Len() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM files`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	return count, nil
}

// scanRecord reads one row into a FileRecord, translating sql.ErrNoRows into
// the registry's NotFoundError.
func (s *Store) scanRecord(row *sql.Row, token string) (registry.FileRecord, error) {
	var (
		record             registry.FileRecord
		category           string
		createdAt, expires int64
	)

	err := row.Scan(&record.Token, &category, &record.StoredName, &record.OriginalFilename,
		&record.FilePath, &record.SizeBytes, &createdAt, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return registry.FileRecord{}, registry.NotFoundError{Token: token}
	}
	if err != nil {
		return registry.FileRecord{}, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	record.Category = media.Category(category)
	record.CreatedAt = time.Unix(0, createdAt)
	record.ExpiresAt = time.Unix(0, expires)
	return record, nil
}
