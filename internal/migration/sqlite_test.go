package migration

import (
	"context"
	"testing"

	"routemigrate/internal/docstore"
	"routemigrate/internal/testsupport"
)

func TestRunAgainstSQLiteStore(t *testing.T) {
	ctx := context.Background()
	cfg := testsupport.NewConfig(t, testsupport.WithBatchLimit(2))
	store := testsupport.MustOpenStore(t, cfg)

	seed := store.NewBatch()
	seed.Add(docstore.Write{Op: docstore.OpMerge, Path: "routes/r1", Data: linea1()})
	if err := seed.Commit(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	m := New(store, Options{Collections: cfg.Collections, BatchLimit: cfg.Migration.BatchLimit})
	summary, err := m.Run(ctx, Mode{Apply: true, Backup: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Commits != 2 || summary.Committed != 3 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	doc, ok, err := store.Get(ctx, "routes/r1")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	path, _ := doc.Data["path"].([]any)
	if len(path) != 2 {
		t.Fatalf("path = %#v", doc.Data["path"])
	}
	if _, ok := path[0].(docstore.GeoPoint); !ok {
		t.Fatalf("path element decoded as %T", path[0])
	}
	if doc.Data["schemaVersion"] != int64(1) {
		t.Fatalf("schemaVersion = %#v", doc.Data["schemaVersion"])
	}
	if _, ok, _ := store.Get(ctx, "routes_backup/r1"); !ok {
		t.Fatal("expected backup document")
	}
	stops, err := store.List(ctx, "routes/r1/stops")
	if err != nil || len(stops) != 1 {
		t.Fatalf("stops: %d err=%v", len(stops), err)
	}
}
