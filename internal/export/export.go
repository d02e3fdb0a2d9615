// Package export renders canonical routes as a GeoJSON FeatureCollection.
//
// Each route with a path becomes a LineString feature and each stop with a
// location becomes a Point feature. GeoJSON orders coordinates as
// [longitude, latitude]. Export only reads from the store.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"routemigrate/internal/config"
	"routemigrate/internal/docstore"
	"routemigrate/internal/geo"
	"routemigrate/internal/schema"
	"routemigrate/internal/services"
)

// Feature kinds stored in the "kind" property.
const (
	KindRoute = "route"
	KindStop  = "stop"
)

// Export builds a FeatureCollection from every route in the routes collection.
func Export(ctx context.Context, store docstore.Store, collections config.Collections) (*geojson.FeatureCollection, error) {
	routes, err := store.List(ctx, collections.Routes)
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "export", "list", collections.Routes, err)
	}

	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}
	bounds := geom.NewBounds(geom.XY)
	for _, route := range routes {
		routePath := docstore.DocPath(collections.Routes, route.ID)
		stops, err := store.List(ctx, docstore.SubcollectionPath(routePath, collections.Stops))
		if err != nil {
			return nil, services.Wrap(services.ErrStore, "export", "list stops", route.ID, err)
		}

		if line := routeLine(route.Data); line != nil {
			bounds.Extend(line)
			fc.Features = append(fc.Features, &geojson.Feature{
				ID:       route.ID,
				Geometry: line,
				Properties: map[string]any{
					"kind":          KindRoute,
					"name":          route.Data[schema.FieldName],
					"color":         route.Data[schema.FieldColor],
					"public":        route.Data[schema.FieldPublic],
					"schemaVersion": route.Data[schema.FieldSchemaVersion],
					"stopCount":     len(stops),
				},
			})
		}

		for _, stop := range stops {
			loc, ok := stop.Data[schema.FieldLocation].(docstore.GeoPoint)
			if !ok || !geo.IsGeoPoint(loc) {
				continue
			}
			point := geom.NewPointFlat(geom.XY, []float64{loc.Longitude, loc.Latitude})
			bounds.Extend(point)
			fc.Features = append(fc.Features, &geojson.Feature{
				ID:       route.ID + "/" + stop.ID,
				Geometry: point,
				Properties: map[string]any{
					"kind":   KindStop,
					"route":  route.ID,
					"name":   stop.Data[schema.FieldName],
					"street": stop.Data[schema.FieldStreet],
					"order":  stop.Data[schema.FieldOrder],
				},
			})
		}
	}
	if len(fc.Features) > 0 {
		fc.BBox = bounds
	}
	return fc, nil
}

// routeLine returns the route path as a LineString, skipping invalid points.
// A path with fewer than two valid points yields nil.
func routeLine(fields map[string]any) *geom.LineString {
	raw, _ := fields[schema.FieldPath].([]any)
	coords := make([]geom.Coord, 0, len(raw))
	for _, v := range raw {
		p, ok := v.(docstore.GeoPoint)
		if !ok || !geo.IsGeoPoint(p) {
			continue
		}
		coords = append(coords, geom.Coord{p.Longitude, p.Latitude})
	}
	if len(coords) < 2 {
		return nil
	}
	line, err := geom.NewLineString(geom.XY).SetCoords(coords)
	if err != nil {
		return nil
	}
	return line
}

// Write encodes the collection as indented JSON.
func Write(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}
	return nil
}
