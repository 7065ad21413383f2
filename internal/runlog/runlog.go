// Package runlog keeps an append-only CSV history of processed batches.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/statements/internal/model"
)

// Entry is one processed batch.
type Entry struct {
	Timestamp time.Time
	BatchID   string
	Files     []string
	Stats     model.Stats
	Income    decimal.Decimal
	Expenses  decimal.Decimal
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,batch_id,files,total_rows,successful_rows,failed_rows,bank,income,expenses"

// fileSep joins file names inside the files column.
const fileSep = ";"

const (
	numFields     = 9
	logDir        = "logs"
	logFile       = "logs/run-log.csv"
	colTimestamp  = 0
	colBatchID    = 1
	colFiles      = 2
	colTotal      = 3
	colSuccessful = 4
	colFailed     = 5
	colBank       = 6
	colIncome     = 7
	colExpenses   = 8
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colBatchID] = e.BatchID
	row[colFiles] = strings.Join(e.Files, fileSep)
	row[colTotal] = strconv.Itoa(e.Stats.TotalRows)
	row[colSuccessful] = strconv.Itoa(e.Stats.SuccessfulRows)
	row[colFailed] = strconv.Itoa(e.Stats.FailedRows)
	row[colBank] = e.Stats.BankDetected
	row[colIncome] = e.Income.String()
	row[colExpenses] = e.Expenses.String()
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	var counts [3]int
	for i, col := range []int{colTotal, colSuccessful, colFailed} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
		counts[i] = n
	}

	income, err := decimal.NewFromString(record[colIncome])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing income %q: %w", record[colIncome], err)
	}
	expenses, err := decimal.NewFromString(record[colExpenses])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing expenses %q: %w", record[colExpenses], err)
	}

	var files []string
	if record[colFiles] != "" {
		files = strings.Split(record[colFiles], fileSep)
	}

	return Entry{
		Timestamp: ts,
		BatchID:   record[colBatchID],
		Files:     files,
		Stats: model.Stats{
			TotalRows:      counts[0],
			SuccessfulRows: counts[1],
			FailedRows:     counts[2],
			BankDetected:   record[colBank],
		},
		Income:   income,
		Expenses: expenses,
	}, nil
}

// Path returns the run log location under root.
func Path(root string) string {
	return filepath.Join(root, logFile)
}

// Append writes entries to <root>/logs/run-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(root)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/run-log.csv.
// Returns nil if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(Path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
