package testsupport

import (
	"context"
	"testing"

	"routemigrate/internal/config"
	"routemigrate/internal/docstore/memstore"
	"routemigrate/internal/docstore/sqlitestore"
)

// MustOpenStore opens the sqlite store configured in cfg and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *sqlitestore.Store {
	t.Helper()

	store, err := sqlitestore.Open(context.Background(), cfg.Store.SQLitePath)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// NewMemStore returns a memstore seeded with the given documents keyed by path.
func NewMemStore(docs map[string]map[string]any) *memstore.Store {
	store := memstore.New()
	for path, fields := range docs {
		store.Put(path, fields)
	}
	return store
}
