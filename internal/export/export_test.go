package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/twpayne/go-geom"

	"routemigrate/internal/config"
	"routemigrate/internal/docstore"
	"routemigrate/internal/docstore/memstore"
	"routemigrate/internal/services"
	"routemigrate/internal/testsupport"
)

func seededStore() *memstore.Store {
	return testsupport.NewMemStore(map[string]map[string]any{
		"routes/r1": {
			"name":          "Linea 1",
			"public":        true,
			"schemaVersion": 1,
			"path": []any{
				docstore.GeoPoint{Latitude: -17.39, Longitude: -66.15},
				docstore.GeoPoint{Latitude: -17.394, Longitude: -66.157},
			},
		},
		"routes/r1/stops/s1": {
			"name":     "Parada A",
			"order":    0,
			"location": docstore.GeoPoint{Latitude: -17.39, Longitude: -66.15},
		},
		"routes/r1/stops/s2": {"name": "Sin ubicacion", "order": 1},
		"routes/r2":          {"name": "Sin ruta"},
	})
}

func TestExportBuildsFeatures(t *testing.T) {
	fc, err := Export(context.Background(), seededStore(), config.Default().Collections)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("expected line + one stop, got %d features", len(fc.Features))
	}

	line, ok := fc.Features[0].Geometry.(*geom.LineString)
	if !ok {
		t.Fatalf("first feature is %T", fc.Features[0].Geometry)
	}
	if diff := cmp.Diff([]float64{-66.15, -17.39, -66.157, -17.394}, line.FlatCoords()); diff != "" {
		t.Fatalf("line coords (-want +got):\n%s", diff)
	}
	if fc.Features[0].ID != "r1" || fc.Features[0].Properties["stopCount"] != 2 {
		t.Fatalf("unexpected route feature %+v", fc.Features[0])
	}

	point, ok := fc.Features[1].Geometry.(*geom.Point)
	if !ok || point.X() != -66.15 || point.Y() != -17.39 {
		t.Fatalf("unexpected stop geometry %#v", fc.Features[1].Geometry)
	}
	if fc.Features[1].Properties["route"] != "r1" || fc.Features[1].Properties["kind"] != KindStop {
		t.Fatalf("unexpected stop properties %+v", fc.Features[1].Properties)
	}
	if fc.BBox == nil {
		t.Fatal("expected bounding box")
	}
}

func TestWriteProducesGeoJSON(t *testing.T) {
	fc, err := Export(context.Background(), seededStore(), config.Default().Collections)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, fc); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var decoded struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Type != "FeatureCollection" || len(decoded.Features) != 2 {
		t.Fatalf("unexpected document %s", buf.String())
	}
	if decoded.Features[0].Geometry.Type != "LineString" || decoded.Features[1].Geometry.Type != "Point" {
		t.Fatalf("unexpected geometry types %s", buf.String())
	}
}

func TestExportEmptyStore(t *testing.T) {
	fc, err := Export(context.Background(), memstore.New(), config.Default().Collections)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(fc.Features) != 0 || fc.BBox != nil {
		t.Fatalf("expected empty collection, got %+v", fc)
	}
}

func TestExportStoreFailure(t *testing.T) {
	store := memstore.New()
	store.FailList = func(string) error { return errors.New("unavailable") }
	if _, err := Export(context.Background(), store, config.Default().Collections); !errors.Is(err, services.ErrStore) {
		t.Fatalf("expected store error, got %v", err)
	}
}
