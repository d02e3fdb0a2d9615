package docstore

import (
	"context"
	"errors"
	"fmt"
)

// HardBatchLimit is the maximum number of operations a single commit accepts.
const HardBatchLimit = 500

// ErrBatchTooLarge is returned by Commit when a batch exceeds HardBatchLimit.
var ErrBatchTooLarge = errors.New("batch exceeds operation limit")

// Op identifies the kind of write staged in a batch.
type Op string

const (
	// OpMerge sets fields on a document path, leaving absent fields untouched.
	OpMerge Op = "merge"
	// OpCreate creates a new document with a store-assigned id inside a
	// collection path.
	OpCreate Op = "create"
)

// Write is a single staged mutation.
type Write struct {
	Op   Op
	Path string
	Data map[string]any
}

// Validate checks the write targets the right kind of path for its op.
func (w Write) Validate() error {
	switch w.Op {
	case OpMerge:
		if !IsDocPath(w.Path) {
			return fmt.Errorf("merge target %q is not a document path", w.Path)
		}
	case OpCreate:
		if !IsCollectionPath(w.Path) {
			return fmt.Errorf("create target %q is not a collection path", w.Path)
		}
	default:
		return fmt.Errorf("unknown write op %q", w.Op)
	}
	return nil
}

// Document is a snapshot of a stored document.
type Document struct {
	ID   string
	Path string
	Data map[string]any
}

// Store is the document store contract used by the pipeline.
type Store interface {
	// List returns every document directly inside collectionPath, ordered by
	// document id.
	List(ctx context.Context, collectionPath string) ([]Document, error)
	// Get fetches one document. The boolean is false when it does not exist.
	Get(ctx context.Context, docPath string) (Document, bool, error)
	// NewBatch starts an empty write batch.
	NewBatch() Batch
	Close() error
}

// Batch accumulates writes that commit together or not at all.
type Batch interface {
	Add(w Write)
	Len() int
	Commit(ctx context.Context) error
}
