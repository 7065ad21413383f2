package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cleared-dev/statements/internal/model"
)

// JSONDecoder reads a top-level array of objects, or an object with a "data" array.
type JSONDecoder struct{}

// Format returns the decoder extension.
func (JSONDecoder) Format() string { return "json" }

// Decode parses the document. Any other shape yields no rows.
func (JSONDecoder) Decode(_ context.Context, r io.Reader) ([]model.RawRow, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		items, _ = v["data"].([]any)
	}

	rows := make([]model.RawRow, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			rows = append(rows, model.RawRow(obj))
		}
	}
	return rows, nil
}
