package docstore

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPathHelpers(t *testing.T) {
	if got := DocPath("routes", "r1"); got != "routes/r1" {
		t.Fatalf("DocPath = %q", got)
	}
	if got := SubcollectionPath("routes/r1", "stops"); got != "routes/r1/stops" {
		t.Fatalf("SubcollectionPath = %q", got)
	}
	if got := Join("/routes/", "", "r1"); got != "routes/r1" {
		t.Fatalf("Join = %q", got)
	}
	parent, id := SplitPath("routes/r1/stops/s1")
	if parent != "routes/r1/stops" || id != "s1" {
		t.Fatalf("SplitPath = %q, %q", parent, id)
	}
	parent, id = SplitPath("routes")
	if parent != "" || id != "routes" {
		t.Fatalf("SplitPath top = %q, %q", parent, id)
	}
}

func TestPathKinds(t *testing.T) {
	cases := []struct {
		path       string
		collection bool
		doc        bool
	}{
		{"routes", true, false},
		{"routes/r1", false, true},
		{"routes/r1/stops", true, false},
		{"routes/r1/stops/s1", false, true},
		{"", false, false},
		{"routes//r1", false, false},
	}
	for _, tc := range cases {
		if got := IsCollectionPath(tc.path); got != tc.collection {
			t.Fatalf("IsCollectionPath(%q) = %v", tc.path, got)
		}
		if got := IsDocPath(tc.path); got != tc.doc {
			t.Fatalf("IsDocPath(%q) = %v", tc.path, got)
		}
	}
}

func TestWriteValidate(t *testing.T) {
	if err := (Write{Op: OpMerge, Path: "routes/r1"}).Validate(); err != nil {
		t.Fatalf("merge on doc path: %v", err)
	}
	if err := (Write{Op: OpMerge, Path: "routes"}).Validate(); err == nil {
		t.Fatal("expected merge on collection path to fail")
	}
	if err := (Write{Op: OpCreate, Path: "routes/r1/stops"}).Validate(); err != nil {
		t.Fatalf("create on collection path: %v", err)
	}
	if err := (Write{Op: OpCreate, Path: "routes/r1"}).Validate(); err == nil {
		t.Fatal("expected create on doc path to fail")
	}
	if err := (Write{Op: "delete", Path: "routes/r1"}).Validate(); err == nil {
		t.Fatal("expected unknown op to fail")
	}
}

func TestMergeKeepsAbsentFieldsAndMergesNestedMaps(t *testing.T) {
	dst := map[string]any{
		"name":        "old",
		"coordinates": []any{[]any{1.0, 2.0}},
		"meta":        map[string]any{"a": 1, "b": 2},
	}
	src := map[string]any{
		"name": "new",
		"meta": map[string]any{"b": 3, "c": 4},
	}

	got := Merge(dst, src)
	want := map[string]any{
		"name":        "new",
		"coordinates": []any{[]any{1.0, 2.0}},
		"meta":        map[string]any{"a": 1, "b": 3, "c": 4},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if dst["name"] != "old" {
		t.Fatal("Merge must not modify dst")
	}
}

func TestCloneFieldsDoesNotAlias(t *testing.T) {
	src := map[string]any{"path": []any{GeoPoint{Latitude: 1, Longitude: 2}}}
	clone := CloneFields(src)
	clone["path"].([]any)[0] = "changed"
	if _, ok := src["path"].([]any)[0].(GeoPoint); !ok {
		t.Fatal("clone aliased the source slice")
	}
	if CloneFields(nil) != nil {
		t.Fatal("expected nil clone for nil map")
	}
}
