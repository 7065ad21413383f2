package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/statements/internal/model"
)

// XLSXDecoder reads the first worksheet of an Office Open XML workbook.
type XLSXDecoder struct{}

// Format returns the decoder extension.
func (XLSXDecoder) Format() string { return "xlsx" }

// Decode returns rows keyed by the sheet's header cells. Raw cell values are
// read, so dates arrive as serial numbers and amounts without display formatting.
func (XLSXDecoder) Decode(_ context.Context, r io.Reader) ([]model.RawRow, error) {
	xl, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer xl.Close()

	sheet := xl.GetSheetName(0)
	if sheet == "" {
		return nil, nil
	}
	records, err := xl.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return tableRows(records), nil
}
