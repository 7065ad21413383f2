// Package ledger serializes, re-reads and validates normalized ledgers.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/statements/internal/model"
)

// Header is the CSV header of a ledger export.
const Header = "id,date,parsed_date,month_key,month,particulars,merchant,debit,credit,balance,type,category,category_group,subcategory,bank"

const (
	numFields      = 15
	colID          = 0
	colDate        = 1
	colParsedDate  = 2
	colMonthKey    = 3
	colMonth       = 4
	colParticulars = 5
	colMerchant    = 6
	colDebit       = 7
	colCredit      = 8
	colBalance     = 9
	colType        = 10
	colCategory    = 11
	colGroup       = 12
	colSubcategory = 13
	colBank        = 14
)

// ReadCSV reads a ledger export, header included.
func ReadCSV(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.Transaction
	for i, rec := range records[1:] {
		t, err := Unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// WriteCSV writes a ledger export including the header.
func WriteCSV(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if err := cw.Write(Marshal(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Marshal converts a Transaction to a CSV row.
func Marshal(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = t.ID
	row[colDate] = t.Date
	if t.HasDate() {
		row[colParsedDate] = t.ParsedDate.Format(time.DateOnly)
	}
	row[colMonthKey] = t.MonthKey
	row[colMonth] = t.Month
	row[colParticulars] = t.Particulars
	row[colMerchant] = t.Merchant
	row[colDebit] = money(t.Debit)
	row[colCredit] = money(t.Credit)
	row[colBalance] = money(t.Balance)
	row[colType] = string(t.Type)
	row[colCategory] = t.Category
	row[colGroup] = string(t.CategoryGroup)
	row[colSubcategory] = t.Subcategory
	row[colBank] = t.Bank
	return row
}

// Unmarshal converts a CSV row to a Transaction.
func Unmarshal(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	var parsed time.Time
	if s := record[colParsedDate]; s != "" {
		var err error
		parsed, err = time.Parse(time.DateOnly, s)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing parsed_date %q: %w", s, err)
		}
	}

	debit, err := parseMoney("debit", record[colDebit])
	if err != nil {
		return model.Transaction{}, err
	}
	credit, err := parseMoney("credit", record[colCredit])
	if err != nil {
		return model.Transaction{}, err
	}
	balance, err := parseMoney("balance", record[colBalance])
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		ID:            record[colID],
		Date:          record[colDate],
		ParsedDate:    parsed,
		MonthKey:      record[colMonthKey],
		Month:         record[colMonth],
		Particulars:   record[colParticulars],
		Merchant:      record[colMerchant],
		Debit:         debit,
		Credit:        credit,
		Balance:       balance,
		Type:          model.TxnType(record[colType]),
		Category:      record[colCategory],
		CategoryGroup: model.CategoryGroup(record[colGroup]),
		Subcategory:   record[colSubcategory],
		Bank:          record[colBank],
	}, nil
}

// money renders zero as an empty cell and everything else exactly.
func money(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func parseMoney(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return d, nil
}
