package resolve

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"₹1,234.50", "1234.5"},
		{"-500", "500"},
		{"", "0"},
		{"   ", "0"},
		{"$ 2,000", "2000"},
		{"€99.99", "99.99"},
		{"£10", "10"},
		{"(1,250.00)", "1250"},
		{"1,234.50 Cr", "1234.5"},
		{"Rs. 500", "500"},
		{"INR 75.25 Dr", "75.25"},
		{"abc", "0"},
		{"--", "0"},
		{"1.2.3", "0"},
		{nil, "0"},
		{float64(42.5), "42.5"},
		{float64(-17), "17"},
		{math.NaN(), "0"},
		{math.Inf(1), "0"},
		{int(300), "300"},
		{int64(-9), "9"},
	}
	for _, tt := range tests {
		got := Amount(tt.in)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "Amount(%#v) = %s, want %s", tt.in, got, tt.want)
		assert.False(t, got.IsNegative(), "Amount(%#v) must not be negative", tt.in)
	}
}

func TestAmount_Idempotent(t *testing.T) {
	for _, s := range []string{"0", "12", "12.5", "1234.56", "1000000"} {
		once := Amount(s)
		twice := Amount(once.String())
		assert.True(t, once.Equal(twice), "Amount not idempotent on %q", s)
	}
}

func TestSignedAmount(t *testing.T) {
	assert.Equal(t, "-500", SignedAmount("-500").String())
	assert.Equal(t, "-1250", SignedAmount("(1,250)").String())
	assert.Equal(t, "3500", SignedAmount("3,500.00").String())
	assert.Equal(t, "-4", SignedAmount(float64(-4)).String())
}

func TestText(t *testing.T) {
	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "Salary", Text("  Salary "))
	assert.Equal(t, "50000", Text(float64(50000)))
	assert.Equal(t, "12.75", Text(float64(12.75)))
	assert.Equal(t, "true", Text(true))
	assert.Equal(t, "7", Text(7))
}
