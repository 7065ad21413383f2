// Package resolve turns free-form statement cells into dates and amounts.
// Resolvers never fail: unparsable input yields a zero value and the caller
// decides whether to keep the row.
package resolve

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount returns the non-negative magnitude of a monetary cell.
// Direction comes from the column the value was read from, never from its sign.
func Amount(v any) decimal.Decimal {
	return SignedAmount(v).Abs()
}

// SignedAmount is like Amount but keeps a leading minus sign or accounting
// parentheses. It is only used for single signed "amount" columns.
func SignedAmount(v any) decimal.Decimal {
	switch val := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return val
	case float64:
		return fromFloat(val)
	case float32:
		return fromFloat(float64(val))
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case int32:
		return decimal.NewFromInt(int64(val))
	case string:
		return parseAmountString(val)
	case fmt.Stringer:
		return parseAmountString(val.String())
	default:
		return parseAmountString(fmt.Sprint(val))
	}
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// letterRun matches alphabetic runs such as "Rs." or "Cr" including a trailing abbreviation dot.
var letterRun = regexp.MustCompile(`\p{L}+\.?`)

func parseAmountString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	negative := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")

	// Keep digits, the decimal point and sign; drop currency symbols,
	// thousands separators, parentheses, whitespace and letters.
	s = letterRun.ReplaceAllString(s, "")
	clean := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == '-' || r == '+' {
			return r
		}
		return -1
	}, s)
	if clean == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	if negative && d.IsPositive() {
		d = d.Neg()
	}
	return d
}
