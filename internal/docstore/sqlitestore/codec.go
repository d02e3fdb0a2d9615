package sqlitestore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"routemigrate/internal/docstore"
)

// Typed values are stored as single-key objects under a tag. Field names
// starting with tagPrefix are escaped with one extra tagPrefix, so a stored
// "$geo" or "$ts" key is always a tag.
const (
	tagPrefix = "$"
	geoTag    = tagPrefix + "geo"
	tsTag     = tagPrefix + "ts"
)

func escapeKey(k string) string {
	if strings.HasPrefix(k, tagPrefix) {
		return tagPrefix + k
	}
	return k
}

func unescapeKey(k string) string {
	if strings.HasPrefix(k, tagPrefix+tagPrefix) {
		return k[len(tagPrefix):]
	}
	return k
}

func encodeFields(fields map[string]any) (string, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	data, err := json.Marshal(encodeValue(fields))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func encodeValue(v any) any {
	switch typed := v.(type) {
	case docstore.GeoPoint:
		return map[string]any{geoTag: map[string]any{"latitude": typed.Latitude, "longitude": typed.Longitude}}
	case *docstore.GeoPoint:
		if typed == nil {
			return nil
		}
		return encodeValue(*typed)
	case []docstore.GeoPoint:
		out := make([]any, len(typed))
		for i, p := range typed {
			out[i] = encodeValue(p)
		}
		return out
	case time.Time:
		return map[string]any{tsTag: typed.UTC().Format(time.RFC3339Nano)}
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, inner := range typed {
			out[escapeKey(k)] = encodeValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, inner := range typed {
			out[i] = encodeValue(inner)
		}
		return out
	default:
		return v
	}
}

func decodeFields(raw string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	decoded, err := decodeValue(fields)
	if err != nil {
		return nil, err
	}
	out, _ := decoded.(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func decodeValue(v any) (any, error) {
	switch typed := v.(type) {
	case json.Number:
		return docstore.DecodeNumber(typed), nil
	case map[string]any:
		if value, ok := decodeTagged(typed); ok {
			return value, nil
		}
		out := make(map[string]any, len(typed))
		for k, inner := range typed {
			decoded, err := decodeValue(inner)
			if err != nil {
				return nil, err
			}
			out[unescapeKey(k)] = decoded
		}
		return out, nil
	case []any:
		out := make([]any, len(typed))
		for i, inner := range typed {
			decoded, err := decodeValue(inner)
			if err != nil {
				return nil, err
			}
			out[i] = decoded
		}
		return out, nil
	default:
		return v, nil
	}
}

// decodeTagged returns the typed value held by a tag object. Rows written
// before keys were escaped may hold user maps that look like tags; those fail
// to parse and decode as plain maps.
func decodeTagged(fields map[string]any) (any, bool) {
	if len(fields) != 1 {
		return nil, false
	}
	if geo, ok := fields[geoTag].(map[string]any); ok {
		point, err := decodeGeo(geo)
		return point, err == nil
	}
	if ts, ok := fields[tsTag].(string); ok {
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		return parsed, err == nil
	}
	return nil, false
}

func decodeGeo(fields map[string]any) (any, error) {
	lat, latOK := fields["latitude"].(json.Number)
	lng, lngOK := fields["longitude"].(json.Number)
	if !latOK || !lngOK {
		return nil, fmt.Errorf("decode geo point: missing latitude/longitude")
	}
	latF, err := lat.Float64()
	if err != nil {
		return nil, fmt.Errorf("decode latitude: %w", err)
	}
	lngF, err := lng.Float64()
	if err != nil {
		return nil, fmt.Errorf("decode longitude: %w", err)
	}
	return docstore.GeoPoint{Latitude: latF, Longitude: lngF}, nil
}
