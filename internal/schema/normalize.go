package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"routemigrate/internal/docstore"
	"routemigrate/internal/geo"
)

// RouteDraft is the canonical route produced from one legacy document.
type RouteDraft struct {
	ID            string
	Name          string
	Color         any
	FareBase      *float64
	Public        bool
	CreatedBy     any
	CreatedAt     *time.Time
	SchemaVersion int
	Path          []docstore.GeoPoint
}

// Fields renders the merge payload. Absent optional fields are left out so a
// merge never clears them, and an empty path is never written.
func (r RouteDraft) Fields() map[string]any {
	fields := map[string]any{
		FieldName:          r.Name,
		FieldPublic:        r.Public,
		FieldCreatedBy:     r.CreatedBy,
		FieldSchemaVersion: r.SchemaVersion,
	}
	if r.Color != nil {
		fields[FieldColor] = r.Color
	}
	if r.FareBase != nil {
		fields[FieldFareBase] = *r.FareBase
	}
	if r.CreatedAt != nil {
		fields[FieldCreatedAt] = *r.CreatedAt
	}
	if len(r.Path) > 0 {
		path := make([]any, len(r.Path))
		for i, p := range r.Path {
			path[i] = p
		}
		fields[FieldPath] = path
	}
	return fields
}

// StopDraft is one canonical stop, in legacy order.
type StopDraft struct {
	Name     string
	Street   any
	Order    int
	Location *docstore.GeoPoint
}

// Fields renders the create payload.
func (s StopDraft) Fields() map[string]any {
	fields := map[string]any{
		FieldName:   s.Name,
		FieldStreet: s.Street,
		FieldOrder:  s.Order,
	}
	if s.Location != nil {
		fields[FieldLocation] = *s.Location
	}
	return fields
}

// Normalizer converts legacy records using a coordinate Resolver.
type Normalizer struct {
	Resolver geo.Resolver
}

// NewNormalizer returns a Normalizer. A nil resolver selects geo.Heuristic.
func NewNormalizer(resolver geo.Resolver) *Normalizer {
	if resolver == nil {
		resolver = geo.Heuristic{}
	}
	return &Normalizer{Resolver: resolver}
}

// Normalize maps a legacy field map to a route draft and its stop drafts.
func (n *Normalizer) Normalize(legacy map[string]any, id string) (RouteDraft, []StopDraft) {
	resolver := n.Resolver
	if resolver == nil {
		resolver = geo.Heuristic{}
	}

	route := RouteDraft{
		ID:            id,
		Name:          textOr(coalesce(legacy[FieldName], legacy[FieldTitle]), ""),
		Color:         legacy[FieldColor],
		Public:        truthy(legacy[FieldPublic]),
		CreatedBy:     legacy[FieldCreatedBy],
		SchemaVersion: SchemaVersion,
	}
	if raw, ok := legacy[FieldFareBase]; ok && raw != nil {
		if fare, ok := geo.Number(raw); ok {
			route.FareBase = &fare
		}
	}
	if created, ok := parseTimestamp(legacy[FieldCreatedAt]); ok {
		route.CreatedAt = &created
	}
	if coords, ok := legacy[FieldCoordinates].([]any); ok {
		for _, c := range coords {
			if p, ok := resolver.Resolve(c); ok {
				route.Path = append(route.Path, p)
			}
		}
	}

	var stops []StopDraft
	if points, ok := legacy[FieldPoints].([]any); ok {
		stops = make([]StopDraft, 0, len(points))
		for i, p := range points {
			stop := StopDraft{
				Name:  fmt.Sprintf("stop-%d", i),
				Order: i,
			}
			if obj, ok := p.(map[string]any); ok {
				stop.Name = textOr(obj[FieldName], stop.Name)
				stop.Street = obj[FieldStreet]
			}
			if loc, ok := resolver.Resolve(p); ok {
				stop.Location = &loc
			}
			stops = append(stops, stop)
		}
	}
	return route, stops
}

func coalesce(values ...any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func textOr(v any, fallback string) string {
	switch typed := v.(type) {
	case nil:
		return fallback
	case string:
		return typed
	default:
		return fmt.Sprint(typed)
	}
}

// truthy follows loose boolean conversion: zero values, empty strings, NaN
// and nil are false, everything else is true.
func truthy(v any) bool {
	switch typed := v.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	case json.Number:
		f, err := typed.Float64()
		return err == nil && f != 0 && !math.IsNaN(f)
	case float64:
		return typed != 0 && !math.IsNaN(typed)
	case float32:
		return typed != 0 && !math.IsNaN(float64(typed))
	default:
		if f, ok := geo.Number(v); ok {
			return f != 0
		}
		return true
	}
}

// timestampLayouts covers ISO-8601 extended forms (with and without zone,
// second or minute precision, colon or compact offsets), basic forms, and
// reduced date precision.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"20060102T150405Z0700",
	"20060102T150405",
	"2006-01-02",
	"20060102",
	"2006-01",
	"2006",
}

// parseTimestamp accepts store timestamps, ISO-8601 strings and epoch
// milliseconds. Strings without a zone are read as UTC.
func parseTimestamp(v any) (time.Time, bool) {
	switch typed := v.(type) {
	case time.Time:
		return typed, true
	case *time.Time:
		if typed == nil {
			return time.Time{}, false
		}
		return *typed, true
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return time.Time{}, false
		}
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case bool:
		return time.Time{}, false
	default:
		ms, ok := geo.Number(v)
		if !ok || math.Abs(ms) > maxEpochMillis {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(ms)).UTC(), true
	}
}

// maxEpochMillis bounds epoch values to about ±273,000 years.
const maxEpochMillis = 8.64e15
