package ledger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/statements/internal/model"
)

// Format selects which export files are written.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatBoth Format = "both"
)

// ParseFormat validates a format name; empty means both.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatBoth, nil
	case FormatJSON, FormatCSV, FormatBoth:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, csv or both)", s)
}

// Exporter writes ledger files into a directory.
type Exporter struct {
	dir string
}

// NewExporter creates an Exporter rooted at dir.
func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Export writes <name>.csv and/or <name>.json and returns the paths written.
func (e *Exporter) Export(name string, txns []model.Transaction, format Format) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}

	var paths []string
	if format == FormatCSV || format == FormatBoth {
		p := filepath.Join(e.dir, name+".csv")
		if err := writeFile(p, func(w io.Writer) error { return WriteCSV(w, txns) }); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	if format == FormatJSON || format == FormatBoth {
		p := filepath.Join(e.dir, name+".json")
		if err := writeFile(p, func(w io.Writer) error { return WriteJSON(w, txns) }); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// ReadFile reads a ledger export, choosing the codec by extension.
func ReadFile(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".json":
		return ReadJSON(f)
	}
	return nil, fmt.Errorf("ledger %s: expected .csv or .json", path)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
