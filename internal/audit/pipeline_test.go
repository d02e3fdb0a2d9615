package audit_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"routemigrate/internal/audit"
	"routemigrate/internal/config"
	"routemigrate/internal/docstore/memstore"
	"routemigrate/internal/migration"
)

func TestMigrateThenVerifyLinea1(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	store.Put("routes/linea-1", map[string]any{
		"title": "Linea 1",
		"coordinates": []any{
			map[string]any{"latitude": -17.39, "longitude": -66.15},
			map[string]any{"latitude": -17.394, "longitude": -66.157},
		},
		"points": []any{
			map[string]any{"name": "Parada A", "latitude": -17.39, "longitude": -66.15},
		},
	})
	collections := config.Default().Collections

	if _, err := migration.New(store, migration.Options{Collections: collections}).Run(ctx, migration.Mode{Apply: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	report, err := audit.New(store, collections, nil, nil).Verify(ctx)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	want := &audit.Report{
		Checked: 1,
		Issues:  []audit.Issue{{ID: "linea-1", Problems: []string{audit.ProblemBackupMissing}}},
		Summary: audit.Summary{TotalRoutes: 1, IssuesCount: 1},
	}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestMigrateWithBackupVerifiesClean(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	store.Put("routes/r1", map[string]any{
		"name":        "Ruta",
		"coordinates": []any{[]any{19.43, -99.13}},
		"points":      []any{map[string]any{"lat": 19.43, "lng": -99.13}},
	})
	collections := config.Default().Collections

	if _, err := migration.New(store, migration.Options{Collections: collections}).Run(ctx, migration.Mode{Apply: true, Backup: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	report, err := audit.New(store, collections, nil, nil).Verify(ctx)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !report.Clean() {
		t.Fatalf("expected clean report, got %+v", report.Issues)
	}
}
