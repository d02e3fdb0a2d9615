package geo

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"routemigrate/internal/docstore"
)

// Resolver converts an arbitrary point encoding into a GeoPoint. The boolean
// is false when no valid point can be derived. Implementations must not panic.
type Resolver interface {
	Resolve(point any) (docstore.GeoPoint, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(point any) (docstore.GeoPoint, bool)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(point any) (docstore.GeoPoint, bool) { return f(point) }

// maxDepth bounds recursion through nested "coordinates" fields.
const maxDepth = 8

// Heuristic is the default Resolver.
type Heuristic struct{}

// Resolve implements Resolver.
func (Heuristic) Resolve(point any) (docstore.GeoPoint, bool) {
	return resolve(point, 0)
}

func resolve(point any, depth int) (docstore.GeoPoint, bool) {
	if depth > maxDepth {
		return docstore.GeoPoint{}, false
	}
	switch typed := point.(type) {
	case docstore.GeoPoint:
		return checked(typed.Latitude, typed.Longitude)
	case *docstore.GeoPoint:
		if typed == nil {
			return docstore.GeoPoint{}, false
		}
		return checked(typed.Latitude, typed.Longitude)
	case map[string]any:
		return resolveObject(typed, depth)
	case []any:
		return resolvePair(typed)
	case []float64:
		if len(typed) != 2 {
			return docstore.GeoPoint{}, false
		}
		return orient(typed[0], typed[1])
	default:
		return docstore.GeoPoint{}, false
	}
}

func resolveObject(obj map[string]any, depth int) (docstore.GeoPoint, bool) {
	if lat, lng, ok := numericPair(obj, "latitude", "longitude"); ok {
		return checked(lat, lng)
	}
	if lat, lng, ok := numericPair(obj, "lat", "lng"); ok {
		return checked(lat, lng)
	}
	if coords, ok := obj["coordinates"].([]any); ok && len(coords) > 0 {
		return resolve(coords[0], depth+1)
	}
	return docstore.GeoPoint{}, false
}

func numericPair(obj map[string]any, latKey, lngKey string) (float64, float64, bool) {
	lat, latOK := Number(obj[latKey])
	lng, lngOK := Number(obj[lngKey])
	return lat, lng, latOK && lngOK
}

func resolvePair(values []any) (docstore.GeoPoint, bool) {
	if len(values) != 2 {
		return docstore.GeoPoint{}, false
	}
	a, aOK := Number(values[0])
	b, bOK := Number(values[1])
	if !aOK || !bOK {
		return docstore.GeoPoint{}, false
	}
	return orient(a, b)
}

// orient reads [a, b] as [lat, lng] when that fits, otherwise as [lng, lat].
func orient(a, b float64) (docstore.GeoPoint, bool) {
	if math.Abs(a) <= 90 && math.Abs(b) <= 180 {
		return checked(a, b)
	}
	return checked(b, a)
}

func checked(lat, lng float64) (docstore.GeoPoint, bool) {
	if !Valid(lat, lng) {
		return docstore.GeoPoint{}, false
	}
	return docstore.GeoPoint{Latitude: lat, Longitude: lng}, true
}

// Valid reports whether lat/lng are finite and inside the WGS84 ranges.
func Valid(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// IsGeoPoint reports whether v is a store-native GeoPoint with valid
// components. Legacy encodings do not qualify.
func IsGeoPoint(v any) bool {
	switch typed := v.(type) {
	case docstore.GeoPoint:
		return Valid(typed.Latitude, typed.Longitude)
	case *docstore.GeoPoint:
		return typed != nil && Valid(typed.Latitude, typed.Longitude)
	default:
		return false
	}
}

// Number coerces numeric kinds, json.Number and numeric strings to float64.
// Booleans, empty strings and non-finite values are rejected.
func Number(v any) (float64, bool) {
	var f float64
	switch typed := v.(type) {
	case float64:
		f = typed
	case float32:
		f = float64(typed)
	case int:
		f = float64(typed)
	case int8:
		f = float64(typed)
	case int16:
		f = float64(typed)
	case int32:
		f = float64(typed)
	case int64:
		f = float64(typed)
	case uint:
		f = float64(typed)
	case uint8:
		f = float64(typed)
	case uint16:
		f = float64(typed)
	case uint32:
		f = float64(typed)
	case uint64:
		f = float64(typed)
	case json.Number:
		parsed, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
