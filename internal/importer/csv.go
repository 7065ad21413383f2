package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/statements/internal/model"
)

// CSVDecoder reads delimited exports whose first non-empty line is the header.
type CSVDecoder struct{}

// Format returns the decoder extension.
func (CSVDecoder) Format() string { return "csv" }

// Decode reads a CSV and returns one row per non-empty record.
func (CSVDecoder) Decode(_ context.Context, r io.Reader) ([]model.RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return tableRows(records), nil
}
