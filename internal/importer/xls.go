package importer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/shakinm/xlsReader/xls"

	"github.com/cleared-dev/statements/internal/model"
)

// XLSDecoder reads the first worksheet of a legacy BIFF workbook.
type XLSDecoder struct{}

// Format returns the decoder extension.
func (XLSDecoder) Format() string { return "xls" }

// Decode spools the workbook to a temp file, since the reader only opens paths.
func (XLSDecoder) Decode(_ context.Context, r io.Reader) ([]model.RawRow, error) {
	path, cleanup, err := spool(r, "statement-*.xls")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	book, err := xls.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	sheet, err := book.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("reading first sheet: %w", err)
	}
	if sheet == nil {
		return nil, nil
	}

	var records [][]string
	for _, row := range sheet.GetRows() {
		var rec []string
		for _, col := range row.GetCols() {
			rec = append(rec, col.GetString())
		}
		records = append(records, rec)
	}
	return tableRows(records), nil
}

// spool copies r into a temp file and returns its path plus a remover.
func spool(r io.Reader, pattern string) (string, func(), error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	cleanup := func() { os.Remove(f.Name()) }

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}
	return f.Name(), cleanup, nil
}
