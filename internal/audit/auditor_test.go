package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"routemigrate/internal/config"
	"routemigrate/internal/docstore"
	"routemigrate/internal/docstore/memstore"
	"routemigrate/internal/services"
)

func newAuditor(store docstore.Store) *Auditor {
	return New(store, config.Default().Collections, nil, nil)
}

func goodRoute() map[string]any {
	return map[string]any{
		"name":          "Linea 1",
		"schemaVersion": 1,
		"path":          []any{docstore.GeoPoint{Latitude: -17.39, Longitude: -66.15}},
	}
}

func goodStop(order int) map[string]any {
	return map[string]any{
		"name":     "Parada",
		"order":    order,
		"location": docstore.GeoPoint{Latitude: -17.39, Longitude: -66.15},
	}
}

func TestVerifyCleanRoute(t *testing.T) {
	store := memstore.New()
	store.Put("routes/r1", goodRoute())
	store.Put("routes/r1/stops/s1", goodStop(0))
	store.Put("routes_backup/r1", map[string]any{"title": "Linea 1"})

	report, err := newAuditor(store).Verify(context.Background())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	want := &Report{Checked: 1, Issues: []Issue{}, Summary: Summary{TotalRoutes: 1, IssuesCount: 0}}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
	if !report.Clean() {
		t.Fatal("expected clean report")
	}
}

func TestVerifyProblemTags(t *testing.T) {
	cases := []struct {
		name   string
		route  map[string]any
		stops  map[string]map[string]any
		backup bool
		want   []string
	}{
		{
			name:   "missing path",
			route:  map[string]any{"name": "x"},
			stops:  map[string]map[string]any{"s1": goodStop(0)},
			backup: true,
			want:   []string{ProblemMissingPath},
		},
		{
			name:   "empty path",
			route:  map[string]any{"path": []any{}},
			stops:  map[string]map[string]any{"s1": goodStop(0)},
			backup: true,
			want:   []string{ProblemMissingPath},
		},
		{
			name:   "invalid path point",
			route:  map[string]any{"path": []any{docstore.GeoPoint{Latitude: 1, Longitude: 1}, map[string]any{"lat": 1, "lng": 1}}},
			stops:  map[string]map[string]any{"s1": goodStop(0)},
			backup: true,
			want:   []string{ProblemInvalidPathPoint},
		},
		{
			name: "coordinates not array",
			route: func() map[string]any {
				r := goodRoute()
				r["coordinates"] = "19.4,-99.1"
				return r
			}(),
			stops:  map[string]map[string]any{"s1": goodStop(0)},
			backup: true,
			want:   []string{ProblemCoordinatesNotArray},
		},
		{
			name: "coordinates bad first point",
			route: func() map[string]any {
				r := goodRoute()
				r["coordinates"] = []any{"nope", []any{1.0, 2.0}}
				return r
			}(),
			stops:  map[string]map[string]any{"s1": goodStop(0)},
			backup: true,
			want:   []string{ProblemCoordinatesBadFirst},
		},
		{
			name: "coordinates empty",
			route: func() map[string]any {
				r := goodRoute()
				r["coordinates"] = []any{}
				return r
			}(),
			stops:  map[string]map[string]any{"s1": goodStop(0)},
			backup: true,
			want:   []string{ProblemCoordinatesBadFirst},
		},
		{
			name: "legacy coordinates accepted",
			route: func() map[string]any {
				r := goodRoute()
				r["coordinates"] = []any{map[string]any{"latitude": 1, "longitude": 2}}
				return r
			}(),
			stops:  map[string]map[string]any{"s1": goodStop(0)},
			backup: true,
			want:   nil,
		},
		{
			name:   "no stops no backup",
			route:  goodRoute(),
			backup: false,
			want:   []string{ProblemNoStops, ProblemBackupMissing},
		},
		{
			name:  "stop checks stop at first failure",
			route: goodRoute(),
			stops: map[string]map[string]any{
				"a": {"order": "zero"},
				"b": {"location": docstore.GeoPoint{Latitude: 1, Longitude: 1}, "order": "1"},
				"c": goodStop(2),
				"d": {"location": docstore.GeoPoint{Latitude: 1, Longitude: 1}},
			},
			backup: true,
			want: []string{
				"stop_invalid_location:a",
				"stop_invalid_order:b",
				"stop_invalid_order:d",
			},
		},
		{
			name:   "everything wrong",
			route:  map[string]any{"coordinates": 5},
			backup: false,
			want:   []string{ProblemMissingPath, ProblemCoordinatesNotArray, ProblemNoStops, ProblemBackupMissing},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := memstore.New()
			store.Put("routes/r1", tc.route)
			for id, stop := range tc.stops {
				store.Put("routes/r1/stops/"+id, stop)
			}
			if tc.backup {
				store.Put("routes_backup/r1", map[string]any{})
			}
			report, err := newAuditor(store).Verify(context.Background())
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			var got []string
			if len(report.Issues) > 0 {
				got = report.Issues[0].Problems
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("problems mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVerifySummaryCountsRoutesWithIssues(t *testing.T) {
	store := memstore.New()
	store.Put("routes/a", goodRoute())
	store.Put("routes/a/stops/s", goodStop(0))
	store.Put("routes_backup/a", map[string]any{})
	store.Put("routes/b", map[string]any{})
	store.Put("routes/c", goodRoute())

	report, err := newAuditor(store).Verify(context.Background())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.Checked != 3 || report.Summary.TotalRoutes != 3 || report.Summary.IssuesCount != 2 {
		t.Fatalf("unexpected totals %+v", report)
	}
	if report.Issues[0].ID != "b" || report.Issues[1].ID != "c" {
		t.Fatalf("issues out of order: %+v", report.Issues)
	}
	counts := report.ProblemCounts()
	if counts[ProblemBackupMissing] != 2 || counts[ProblemMissingPath] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestVerifyIsReadOnly(t *testing.T) {
	store := memstore.New()
	store.Put("routes/r1", map[string]any{})
	auditor := newAuditor(store)
	for i := 0; i < 2; i++ {
		if _, err := auditor.Verify(context.Background()); err != nil {
			t.Fatalf("Verify: %v", err)
		}
	}
	if len(store.Commits()) != 0 || store.Len() != 1 {
		t.Fatal("verify must not write")
	}
	// Each pass lists routes and stops and looks up the backup once.
	gets, lists := store.Reads()
	if gets != 2 || lists != 4 {
		t.Fatalf("reads = %d gets, %d lists; want 2, 4", gets, lists)
	}
}

func TestVerifyStoreFailureAborts(t *testing.T) {
	store := memstore.New()
	store.Put("routes/r1", goodRoute())
	store.FailList = func(path string) error {
		if path == "routes/r1/stops" {
			return errors.New("unavailable")
		}
		return nil
	}
	if _, err := newAuditor(store).Verify(context.Background()); !errors.Is(err, services.ErrStore) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestBaseTag(t *testing.T) {
	if BaseTag("stop_invalid_order:abc") != ProblemStopInvalidOrder {
		t.Fatal("stop tag not folded")
	}
	if BaseTag(ProblemNoStops) != ProblemNoStops {
		t.Fatal("plain tag changed")
	}
}
