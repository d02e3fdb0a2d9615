// Package seed loads JSON fixtures into a route collection through a
// batch.Writer, so imports honor dry-run and batch limits the same way a
// migration does.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"routemigrate/internal/batch"
	"routemigrate/internal/docstore"
	"routemigrate/internal/services"
)

// Import reads a JSON object keyed by document id and stages one merge write
// per document into collection. Documents are staged in id order. It returns
// the number of documents staged; the caller flushes the writer.
func Import(ctx context.Context, r io.Reader, writer *batch.Writer, collection string) (int, error) {
	docs, err := Decode(r)
	if err != nil {
		return 0, err
	}

	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for i, id := range ids {
		if err := writer.Stage(ctx, docstore.Write{
			Op:   docstore.OpMerge,
			Path: docstore.DocPath(collection, id),
			Data: docs[id],
		}); err != nil {
			return i, err
		}
	}
	return len(ids), nil
}

// Decode parses a fixture document. Integral numbers decode as int64 and
// other numbers as float64.
func Decode(r io.Reader) (map[string]map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw map[string]map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, services.Wrap(services.ErrValidation, "import", "decode", "expected an object of documents keyed by id", err)
	}

	out := make(map[string]map[string]any, len(raw))
	for id, fields := range raw {
		if strings.TrimSpace(id) == "" || strings.Contains(id, "/") {
			return nil, services.Wrap(services.ErrValidation, "import", "decode", fmt.Sprintf("invalid document id %q", id), nil)
		}
		if fields == nil {
			fields = map[string]any{}
		}
		out[id] = convertNumbers(fields).(map[string]any)
	}
	return out, nil
}

func convertNumbers(v any) any {
	switch typed := v.(type) {
	case json.Number:
		return docstore.DecodeNumber(typed)
	case map[string]any:
		for k, inner := range typed {
			typed[k] = convertNumbers(inner)
		}
		return typed
	case []any:
		for i, inner := range typed {
			typed[i] = convertNumbers(inner)
		}
		return typed
	default:
		return v
	}
}
