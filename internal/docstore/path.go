package docstore

import "strings"

// Join builds a store path from segments, ignoring empty ones.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.Trim(seg, "/")
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, "/")
}

// DocPath returns the path of document id inside collection.
func DocPath(collection, id string) string {
	return Join(collection, id)
}

// SubcollectionPath returns the path of a collection nested under a document.
func SubcollectionPath(docPath, name string) string {
	return Join(docPath, name)
}

// SplitPath splits a path into its parent and final segment.
func SplitPath(path string) (parent, last string) {
	path = strings.Trim(path, "/")
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

func segmentCount(path string) int {
	path = strings.Trim(path, "/")
	if path == "" {
		return 0
	}
	segs := strings.Split(path, "/")
	for _, s := range segs {
		if s == "" {
			return 0
		}
	}
	return len(segs)
}

// IsCollectionPath reports whether path has an odd number of segments.
func IsCollectionPath(path string) bool {
	n := segmentCount(path)
	return n > 0 && n%2 == 1
}

// IsDocPath reports whether path has an even, non-zero number of segments.
func IsDocPath(path string) bool {
	n := segmentCount(path)
	return n > 0 && n%2 == 0
}
