// Package memstore is an in-memory docstore backend used by tests and
// fixtures. It records every committed batch so callers can assert commit
// boundaries, and supports injecting commit failures.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"routemigrate/internal/docstore"
)

// Store keeps documents in a map keyed by path.
type Store struct {
	mu      sync.Mutex
	docs    map[string]map[string]any
	commits []int
	gets    int
	lists   int

	// FailCommit, when set, is consulted before each commit with the
	// zero-based commit index. A non-nil error aborts that commit.
	FailCommit func(index int) error
	// FailList, when set, is returned from List for matching collections.
	FailList func(collectionPath string) error
	// NewID generates ids for created documents. Defaults to uuid.NewString.
	NewID func() string
}

// New returns an empty store.
func New() *Store {
	return &Store{docs: make(map[string]map[string]any)}
}

// Put stores fields at docPath, replacing any existing document.
func (s *Store) Put(docPath string, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[docPath] = docstore.CloneFields(fields)
}

// List implements docstore.Store.
func (s *Store) List(ctx context.Context, collectionPath string) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.FailList != nil {
		if err := s.FailList(collectionPath); err != nil {
			return nil, err
		}
	}

	prefix := strings.Trim(collectionPath, "/") + "/"
	var docs []docstore.Document
	for path, fields := range s.docs {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		id := strings.TrimPrefix(path, prefix)
		if strings.Contains(id, "/") {
			continue
		}
		docs = append(docs, docstore.Document{ID: id, Path: path, Data: docstore.CloneFields(fields)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Get implements docstore.Store.
func (s *Store) Get(ctx context.Context, docPath string) (docstore.Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return docstore.Document{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	fields, ok := s.docs[docPath]
	if !ok {
		return docstore.Document{}, false, nil
	}
	_, id := docstore.SplitPath(docPath)
	return docstore.Document{ID: id, Path: docPath, Data: docstore.CloneFields(fields)}, true, nil
}

// NewBatch implements docstore.Store.
func (s *Store) NewBatch() docstore.Batch {
	return &batch{store: s}
}

// Close implements docstore.Store.
func (s *Store) Close() error { return nil }

// Commits returns the operation count of every successful commit in order.
func (s *Store) Commits() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.commits...)
}

// Reads returns how many Get and List calls the store served.
func (s *Store) Reads() (gets, lists int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets, s.lists
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *Store) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

type batch struct {
	store  *Store
	writes []docstore.Write
}

func (b *batch) Add(w docstore.Write) {
	b.writes = append(b.writes, docstore.Write{Op: w.Op, Path: w.Path, Data: docstore.CloneFields(w.Data)})
}

func (b *batch) Len() int { return len(b.writes) }

func (b *batch) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(b.writes) > docstore.HardBatchLimit {
		return fmt.Errorf("%w: %d operations", docstore.ErrBatchTooLarge, len(b.writes))
	}
	for _, w := range b.writes {
		if err := w.Validate(); err != nil {
			return err
		}
	}

	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCommit != nil {
		if err := s.FailCommit(len(s.commits)); err != nil {
			return err
		}
	}

	staged := make(map[string]map[string]any, len(b.writes))
	lookup := func(path string) (map[string]any, bool) {
		if fields, ok := staged[path]; ok {
			return fields, true
		}
		fields, ok := s.docs[path]
		return fields, ok
	}
	for _, w := range b.writes {
		switch w.Op {
		case docstore.OpMerge:
			existing, _ := lookup(w.Path)
			staged[w.Path] = docstore.Merge(existing, w.Data)
		case docstore.OpCreate:
			path := docstore.DocPath(w.Path, s.newID())
			if _, exists := lookup(path); exists {
				return fmt.Errorf("create %s: document already exists", path)
			}
			staged[path] = docstore.CloneFields(w.Data)
		}
	}
	for path, fields := range staged {
		s.docs[path] = fields
	}
	s.commits = append(s.commits, len(b.writes))
	b.writes = nil
	return nil
}
