package state

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/doctoc/internal/foundation/errors"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens or creates the database at dbPath. Use ":memory:" for
// an in-memory database. Parent directories are created as needed.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, errors.WrapError(err, errors.CategoryState, "failed to create state directory").
				WithContext("path", dbPath).
				Build()
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryState, "could not open state database").
			WithContext("path", dbPath).
			Build()
	}
	// ":memory:" databases are per connection.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, errors.WrapError(err, errors.CategoryState, "failed to initialize state schema").
			WithContext("path", dbPath).
			Build()
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		path TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		signature TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the entry for path, or nil when none is stored.
func (s *SQLiteStore) Get(ctx context.Context, path string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		e       Entry
		updated int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT path, fingerprint, signature, updated_at FROM documents WHERE path = ?",
		path,
	).Scan(&e.Path, &e.Fingerprint, &e.Signature, &updated)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryState, "failed to query document state").
			WithContext("path", path).
			Build()
	}
	e.UpdatedAt = time.Unix(updated, 0)
	return &e, nil
}

// Put inserts or replaces the entry for entry.Path. A zero UpdatedAt is set
// to the current time.
func (s *SQLiteStore) Put(ctx context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (path, fingerprint, signature, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET fingerprint = excluded.fingerprint,
			signature = excluded.signature, updated_at = excluded.updated_at`,
		entry.Path, entry.Fingerprint, entry.Signature, entry.UpdatedAt.Unix(),
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryState, "failed to store document state").
			WithContext("path", entry.Path).
			Build()
	}
	return nil
}

// Delete forgets path. Deleting an unknown path is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE path = ?", path); err != nil {
		return errors.WrapError(err, errors.CategoryState, "failed to delete document state").
			WithContext("path", path).
			Build()
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
