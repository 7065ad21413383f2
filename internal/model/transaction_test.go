package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionAmount(t *testing.T) {
	tests := []struct {
		name   string
		debit  string
		credit string
		want   string
	}{
		{"credit only", "0", "500", "500"},
		{"debit only", "120.50", "0", "120.5"},
		{"both sides", "100", "250", "250"},
		{"neither", "0", "0", "0"},
	}
	for _, tt := range tests {
		txn := Transaction{Debit: decimal.RequireFromString(tt.debit), Credit: decimal.RequireFromString(tt.credit)}
		assert.True(t, decimal.RequireFromString(tt.want).Equal(txn.Amount()), tt.name)
	}
}

func TestTransactionHasAmount(t *testing.T) {
	assert.False(t, Transaction{}.HasAmount())
	assert.True(t, Transaction{Debit: decimal.NewFromInt(1)}.HasAmount())
	assert.True(t, Transaction{Credit: decimal.NewFromInt(1)}.HasAmount())
}

func TestMonthKeyFor(t *testing.T) {
	assert.Equal(t, "2025-04", MonthKeyFor(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, UnknownMonth, MonthKeyFor(time.Time{}))
}

func TestValidGroup(t *testing.T) {
	assert.True(t, ValidGroup(GroupSavings))
	assert.False(t, ValidGroup("LOOSE CHANGE"))
}
