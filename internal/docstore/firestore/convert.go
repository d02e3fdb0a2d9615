package firestore

import (
	"google.golang.org/genproto/googleapis/type/latlng"

	"routemigrate/internal/docstore"
)

func toFirestoreFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = toFirestore(v)
	}
	return out
}

func toFirestore(v any) any {
	switch typed := v.(type) {
	case docstore.GeoPoint:
		return &latlng.LatLng{Latitude: typed.Latitude, Longitude: typed.Longitude}
	case *docstore.GeoPoint:
		if typed == nil {
			return nil
		}
		return &latlng.LatLng{Latitude: typed.Latitude, Longitude: typed.Longitude}
	case []docstore.GeoPoint:
		out := make([]any, len(typed))
		for i, p := range typed {
			out[i] = toFirestore(p)
		}
		return out
	case map[string]any:
		return toFirestoreFields(typed)
	case []any:
		out := make([]any, len(typed))
		for i, inner := range typed {
			out[i] = toFirestore(inner)
		}
		return out
	default:
		return v
	}
}

func fromFirestoreFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = fromFirestore(v)
	}
	return out
}

func fromFirestore(v any) any {
	switch typed := v.(type) {
	case *latlng.LatLng:
		if typed == nil {
			return nil
		}
		return docstore.GeoPoint{Latitude: typed.GetLatitude(), Longitude: typed.GetLongitude()}
	case map[string]any:
		return fromFirestoreFields(typed)
	case []any:
		out := make([]any, len(typed))
		for i, inner := range typed {
			out[i] = fromFirestore(inner)
		}
		return out
	default:
		return v
	}
}
