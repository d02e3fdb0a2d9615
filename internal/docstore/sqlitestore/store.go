package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"routemigrate/internal/docstore"
)

// Store persists documents in SQLite.
type Store struct {
	db   *sql.DB
	path string

	// NewID generates ids for created documents. Defaults to uuid.NewString.
	NewID func() string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

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

// retryOnBusy waits out lock contention from another connection. It is the
// only retry in the write path and never retries store errors of other kinds.
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

// Open initializes or connects to the document database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// List implements docstore.Store.
func (s *Store) List(ctx context.Context, collectionPath string) ([]docstore.Document, error) {
	collection := strings.Trim(collectionPath, "/")
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, doc_id, data FROM documents WHERE collection = ? ORDER BY doc_id`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []docstore.Document
	for rows.Next() {
		var (
			path, id, raw string
		)
		if err := rows.Scan(&path, &id, &raw); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		fields, err := decodeFields(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		docs = append(docs, docstore.Document{ID: id, Path: path, Data: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return docs, nil
}

// Get implements docstore.Store.
func (s *Store) Get(ctx context.Context, docPath string) (docstore.Document, bool, error) {
	docPath = strings.Trim(docPath, "/")
	var id, raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc_id, data FROM documents WHERE path = ?`, docPath,
	).Scan(&id, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return docstore.Document{}, false, nil
	}
	if err != nil {
		return docstore.Document{}, false, fmt.Errorf("get %s: %w", docPath, err)
	}
	fields, err := decodeFields(raw)
	if err != nil {
		return docstore.Document{}, false, fmt.Errorf("decode %s: %w", docPath, err)
	}
	return docstore.Document{ID: id, Path: docPath, Data: fields}, true, nil
}

// NewBatch implements docstore.Store.
func (s *Store) NewBatch() docstore.Batch {
	return &batch{store: s}
}

func (s *Store) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}
