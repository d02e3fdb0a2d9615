package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"routemigrate/internal/docstore"
)

type batch struct {
	store  *Store
	writes []docstore.Write
}

func (b *batch) Add(w docstore.Write) {
	b.writes = append(b.writes, docstore.Write{Op: w.Op, Path: w.Path, Data: docstore.CloneFields(w.Data)})
}

func (b *batch) Len() int { return len(b.writes) }

// Commit applies all staged writes in one transaction.
func (b *batch) Commit(ctx context.Context) error {
	if len(b.writes) > docstore.HardBatchLimit {
		return fmt.Errorf("%w: %d operations", docstore.ErrBatchTooLarge, len(b.writes))
	}
	for _, w := range b.writes {
		if err := w.Validate(); err != nil {
			return err
		}
	}
	if err := retryOnBusy(ctx, func() error { return b.apply(ctx) }); err != nil {
		return err
	}
	b.writes = nil
	return nil
}

func (b *batch) apply(ctx context.Context) error {
	tx, err := b.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, w := range b.writes {
		switch w.Op {
		case docstore.OpMerge:
			err = mergeDocument(ctx, tx, w, now)
		case docstore.OpCreate:
			err = createDocument(ctx, tx, docstore.DocPath(w.Path, b.store.newID()), w.Data, now)
		}
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func mergeDocument(ctx context.Context, tx *sql.Tx, w docstore.Write, now string) error {
	var raw string
	err := tx.QueryRowContext(ctx, `SELECT data FROM documents WHERE path = ?`, w.Path).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return createDocument(ctx, tx, w.Path, w.Data, now)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", w.Path, err)
	}

	existing, err := decodeFields(raw)
	if err != nil {
		return fmt.Errorf("decode %s: %w", w.Path, err)
	}
	encoded, err := encodeFields(docstore.Merge(existing, w.Data))
	if err != nil {
		return fmt.Errorf("encode %s: %w", w.Path, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET data = ?, updated_at = ? WHERE path = ?`,
		encoded, now, w.Path,
	); err != nil {
		return fmt.Errorf("update %s: %w", w.Path, err)
	}
	return nil
}

func createDocument(ctx context.Context, tx *sql.Tx, path string, data map[string]any, now string) error {
	encoded, err := encodeFields(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	collection, id := docstore.SplitPath(path)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (path, collection, doc_id, data, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		path, collection, id, encoded, now, now,
	); err != nil {
		return fmt.Errorf("insert %s: %w", path, err)
	}
	return nil
}
