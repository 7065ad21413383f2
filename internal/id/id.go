// Package id formats and parses per-month ledger reference IDs.
package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Format returns a ledger ID like "2025-04-001".
func Format(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// Parse parses "2025-04-001" into year, month, seq.
func Parse(id string) (year, month, seq int, err error) {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid ledger ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in ledger ID %q: %w", id, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("invalid month in ledger ID %q", id)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil || seq < 1 {
		return 0, 0, 0, fmt.Errorf("invalid sequence in ledger ID %q", id)
	}

	return year, month, seq, nil
}

// MonthKey returns the "YYYY-MM" prefix of a ledger ID.
// "2025-04-001" -> "2025-04"
func MonthKey(id string) string {
	i := strings.LastIndexByte(id, '-')
	if i <= 0 {
		return ""
	}
	return id[:i]
}

// Sequencer hands out consecutive IDs per calendar month.
// Feed it dates in ledger order.
type Sequencer struct {
	next map[string]int
}

// NewSequencer creates an empty Sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{next: make(map[string]int)}
}

// Next returns the next ID for the month of d.
func (s *Sequencer) Next(d time.Time) string {
	key := d.Format("2006-01")
	s.next[key]++
	return Format(d.Year(), int(d.Month()), s.next[key])
}
