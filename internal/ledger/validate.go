package ledger

import (
	"fmt"

	"github.com/cleared-dev/statements/internal/id"
	"github.com/cleared-dev/statements/internal/model"
)

// Check names a ledger invariant.
type Check string

const (
	CheckDate     Check = "date"
	CheckAmount   Check = "amount"
	CheckOrder    Check = "order"
	CheckID       Check = "id"
	CheckSequence Check = "sequence"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Check       Check
	ID          string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Check, e.ID, e.Description)
}

// Validate checks a ledger produced by normalization: every row has a parsed
// date and a positive amount, rows ascend by date, and IDs are unique and
// contiguous within each month.
func Validate(txns []model.Transaction) []ValidationError {
	var errs []ValidationError
	seqs := make(map[string]map[int]bool)
	var months []string

	for i, t := range txns {
		if !t.HasDate() {
			errs = append(errs, ValidationError{Check: CheckDate, ID: t.ID, Description: fmt.Sprintf("no parsed date for %q", t.Date)})
		}
		if !t.HasAmount() || t.Debit.IsNegative() || t.Credit.IsNegative() {
			errs = append(errs, ValidationError{
				Check:       CheckAmount,
				ID:          t.ID,
				Description: fmt.Sprintf("debit %s / credit %s: need non-negative sides and one positive", t.Debit, t.Credit),
			})
		}
		if i > 0 && t.ParsedDate.Before(txns[i-1].ParsedDate) {
			errs = append(errs, ValidationError{
				Check:       CheckOrder,
				ID:          t.ID,
				Description: fmt.Sprintf("%s precedes previous row %s", t.ParsedDate.Format("2006-01-02"), txns[i-1].ParsedDate.Format("2006-01-02")),
			})
		}

		year, month, seq, err := id.Parse(t.ID)
		if err != nil {
			errs = append(errs, ValidationError{Check: CheckID, ID: t.ID, Description: err.Error()})
			continue
		}
		if t.HasDate() && (year != t.ParsedDate.Year() || month != int(t.ParsedDate.Month())) {
			errs = append(errs, ValidationError{
				Check:       CheckID,
				ID:          t.ID,
				Description: fmt.Sprintf("ID month does not match date %s", t.ParsedDate.Format("2006-01-02")),
			})
		}

		key := id.MonthKey(t.ID)
		if seqs[key] == nil {
			seqs[key] = make(map[int]bool)
			months = append(months, key)
		}
		if seqs[key][seq] {
			errs = append(errs, ValidationError{Check: CheckSequence, ID: t.ID, Description: "duplicate ID"})
		}
		seqs[key][seq] = true
	}

	for _, key := range months {
		seen := seqs[key]
		for i := 1; i <= len(seen); i++ {
			if !seen[i] {
				errs = append(errs, ValidationError{
					Check:       CheckSequence,
					ID:          fmt.Sprintf("%s seq %d", key, i),
					Description: fmt.Sprintf("missing sequence %d in 1..%d", i, len(seen)),
				})
			}
		}
	}
	return errs
}
