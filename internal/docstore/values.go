package docstore

import (
	"encoding/json"
	"maps"
)

// GeoPoint is the store's native latitude/longitude value.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Merge applies src onto dst with merge-all semantics and returns the result.
// Fields in src overwrite, nested maps merge recursively and fields absent
// from src are kept. dst is not modified.
func Merge(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = CloneValue(v)
	}
	for k, v := range src {
		incoming, ok := v.(map[string]any)
		if !ok {
			out[k] = CloneValue(v)
			continue
		}
		if existing, ok := out[k].(map[string]any); ok {
			out[k] = Merge(existing, incoming)
			continue
		}
		out[k] = CloneValue(incoming)
	}
	return out
}

// CloneValue deep-copies maps and slices so stored documents never alias
// caller data.
func CloneValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, inner := range typed {
			out[k] = CloneValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, inner := range typed {
			out[i] = CloneValue(inner)
		}
		return out
	case []GeoPoint:
		out := make([]GeoPoint, len(typed))
		copy(out, typed)
		return out
	default:
		return v
	}
}

// CloneFields deep-copies a field map.
func CloneFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := maps.Clone(fields)
	for k, v := range out {
		out[k] = CloneValue(v)
	}
	return out
}

// DecodeNumber converts a JSON number to int64 when it is integral and to
// float64 otherwise.
func DecodeNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
