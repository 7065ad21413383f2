package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawRow is one decoded source record keyed by the source's own column names.
type RawRow map[string]any

// TxnType is the direction of a ledger transaction.
type TxnType string

const (
	TypeIncome   TxnType = "INCOME"
	TypeExpense  TxnType = "EXPENSE"
	TypeTransfer TxnType = "TRANSFER"
	TypeUnknown  TxnType = "UNKNOWN"
)

// UnknownMonth is the month key used when no date could be parsed.
const UnknownMonth = "Unknown"

// UnknownBank is the bank label used when neither the row nor detection names one.
const UnknownBank = "Unknown"

// Transaction is one normalized ledger entry.
type Transaction struct {
	ID            string          `json:"id"`
	Date          string          `json:"date"`       // original text
	ParsedDate    time.Time       `json:"parsedDate"` // zero until a date is parsed
	MonthKey      string          `json:"monthKey"`   // "YYYY-MM" or "Unknown"
	Month         string          `json:"month"`
	Particulars   string          `json:"particulars"`
	Merchant      string          `json:"merchant,omitempty"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
	Type          TxnType         `json:"type"`
	Category      string          `json:"category"`
	CategoryGroup CategoryGroup   `json:"categoryGroup"`
	Subcategory   string          `json:"subcategory,omitempty"`
	Bank          string          `json:"bank"`
}

// HasDate reports whether the transaction carries a parsed calendar date.
func (t Transaction) HasDate() bool {
	return !t.ParsedDate.IsZero()
}

// HasAmount reports whether either side carries a positive amount.
func (t Transaction) HasAmount() bool {
	return t.Debit.IsPositive() || t.Credit.IsPositive()
}

// Amount returns the transaction magnitude: credit for inflows, debit otherwise.
func (t Transaction) Amount() decimal.Decimal {
	if t.Credit.IsPositive() && t.Debit.IsZero() {
		return t.Credit
	}
	if t.Debit.IsPositive() && t.Credit.IsZero() {
		return t.Debit
	}
	return decimal.Max(t.Debit, t.Credit)
}

// MonthKeyFor formats the "YYYY-MM" key for a parsed date.
func MonthKeyFor(d time.Time) string {
	if d.IsZero() {
		return UnknownMonth
	}
	return d.Format("2006-01")
}
