package normalize

import (
	"slices"
	"strings"

	"github.com/cleared-dev/statements/internal/model"
)

// Field is a semantic column of the normalized schema.
type Field string

const (
	FieldDate        Field = "date"
	FieldParticulars Field = "particulars"
	FieldDebit       Field = "debit"
	FieldCredit      Field = "credit"
	FieldAmount      Field = "amount"
	FieldBalance     Field = "balance"
	FieldType        Field = "type"
	FieldMonth       Field = "month"
	FieldBank        Field = "bank"
	FieldMerchant    Field = "merchant"
)

// Aliases lists the source column names recognised for each field, most
// specific first. Matching is exact, then case-insensitive.
var Aliases = map[Field][]string{
	FieldDate: {
		"DATE", "VALUE DATE", "TXN DATE", "TRANSACTION DATE", "POSTING DATE",
		"BOOKING DATE", "TRANS DATE", "TRAN DATE", "VALUE DT",
	},
	FieldParticulars: {
		"PARTICULARS", "NARRATION", "DESCRIPTION", "TRANSACTION REMARKS",
		"REMARKS", "DETAILS", "NOTE", "TRANSACTION DETAILS",
	},
	FieldDebit: {
		"DEBIT", "DR", "WITHDRAWAL", "PAYMENT", "EXPENSE", "OUTFLOW", "AMOUNT (DR)",
		"WITHDRAWAL AMT.", "WITHDRAWAL AMOUNT", "DEBIT AMOUNT",
	},
	FieldCredit: {
		"CREDIT", "CR", "DEPOSIT", "RECEIPT", "INCOME", "INFLOW", "AMOUNT (CR)",
		"DEPOSIT AMT.", "DEPOSIT AMOUNT", "CREDIT AMOUNT",
	},
	FieldAmount:   {"AMOUNT", "TRANSACTION AMOUNT", "TXN AMOUNT"},
	FieldBalance:  {"BALANCE", "CLOSING BALANCE", "RUNNING BALANCE", "AVAILABLE BALANCE", "BAL"},
	FieldType:     {"TYPE", "TRANSACTION TYPE", "TXN TYPE", "DR/CR", "CR/DR"},
	FieldMonth:    {"MONTH", "PERIOD"},
	FieldBank:     {"BANK", "BANK NAME"},
	FieldMerchant: {"MERCHANT", "MERCHANT NAME", "PAYEE", "BENEFICIARY", "COUNTERPARTY"},
}

// knownAliases is every alias lower-cased, for header-value detection.
var knownAliases = func() map[string]bool {
	m := make(map[string]bool)
	for _, list := range Aliases {
		for _, a := range list {
			m[strings.ToLower(a)] = true
		}
	}
	return m
}()

// columns maps each field to the row key that carries it.
type columns map[Field]string

// resolveColumns looks up every field's aliases against the row keys.
func resolveColumns(row model.RawRow) columns {
	lower := make(map[string]string, len(row))
	for k := range row {
		lk := strings.ToLower(strings.TrimSpace(k))
		// Keep the smallest original key so resolution is deterministic.
		if prev, ok := lower[lk]; !ok || k < prev {
			lower[lk] = k
		}
	}

	cols := make(columns, len(Aliases))
	for field, aliases := range Aliases {
		if key, ok := lookup(row, lower, aliases); ok {
			cols[field] = key
		}
	}
	return cols
}

func lookup(row model.RawRow, lower map[string]string, aliases []string) (string, bool) {
	for _, a := range aliases {
		if _, ok := row[a]; ok {
			return a, true
		}
	}
	for _, a := range aliases {
		if k, ok := lower[strings.ToLower(a)]; ok {
			return k, true
		}
	}
	return "", false
}

// has reports whether the field resolved to a column.
func (c columns) has(f Field) bool {
	_, ok := c[f]
	return ok
}

// value returns the cell for f, or nil when the column is absent.
func (c columns) value(row model.RawRow, f Field) any {
	key, ok := c[f]
	if !ok {
		return nil
	}
	return row[key]
}

// signature is a stable identity for a row's key set.
func signature(row model.RawRow) string {
	return strings.Join(sortedKeys(row), "\x1f")
}

func sortedKeys(row model.RawRow) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
