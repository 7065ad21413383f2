package normalize

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/resolve"
)

const (
	headerScanLimit = 20
	minHeaderCells  = 3
)

// headerTokens mark a key set as a real table header.
var headerTokens = []string{"date", "amount", "debit", "credit", "balance", "particulars"}

// StripPreamble drops vendor title rows that precede the real header.
//
// A row whose keys resolve a date column and a money column ends the
// preamble. Failing that, a row whose values look like a header (tabular
// sources with a title line) becomes the new key set for every row after it.
// Keys that merely mention a header word, such as "Statement Date: 30/04/2025"
// above column_N keys, are used only when no value header turns up.
func StripPreamble(rows []model.RawRow) []model.RawRow {
	limit := min(headerScanLimit, len(rows))
	keyIdx := -1
	for i := 0; i < limit; i++ {
		if keysLookLikeHeader(rows[i]) {
			if resolvesTable(rows[i]) {
				return rows[i:]
			}
			if keyIdx < 0 {
				keyIdx = i
			}
		}
		header, ok := valuesLookLikeHeader(rows[i])
		if ok && (keyIdx < 0 || resolvesTable(headerRow(header))) {
			return rekey(rows[i+1:], header)
		}
	}
	if keyIdx >= 0 {
		return rows[keyIdx:]
	}
	return rows
}

// resolvesTable reports whether the row keys name a date and a money column.
func resolvesTable(row model.RawRow) bool {
	cols := resolveColumns(row)
	return cols.has(FieldDate) && (cols.has(FieldDebit) || cols.has(FieldCredit) || cols.has(FieldAmount))
}

func headerRow(header map[string]string) model.RawRow {
	row := make(model.RawRow, len(header))
	for _, name := range header {
		row[name] = nil
	}
	return row
}

func keysLookLikeHeader(row model.RawRow) bool {
	if len(row) < minHeaderCells {
		return false
	}
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, strings.ToLower(k))
	}
	joined := strings.Join(keys, " ")
	for _, tok := range headerTokens {
		if strings.Contains(joined, tok) {
			return true
		}
	}
	return false
}

// valuesLookLikeHeader returns the old-key to new-key mapping when the row's
// cells read as column titles.
func valuesLookLikeHeader(row model.RawRow) (map[string]string, bool) {
	filled := 0
	alias := false
	for _, v := range row {
		s := resolve.Text(v)
		if s == "" {
			continue
		}
		filled++
		if knownAliases[strings.ToLower(s)] {
			alias = true
		}
	}
	if filled < minHeaderCells || !alias {
		return nil, false
	}

	header := make(map[string]string, len(row))
	seen := make(map[string]bool, len(row))
	for _, k := range sortedKeys(row) {
		name := resolve.Text(row[k])
		if name == "" {
			name = k
		}
		header[k] = uniqueName(name, seen)
	}
	return header, true
}

func rekey(rows []model.RawRow, header map[string]string) []model.RawRow {
	out := make([]model.RawRow, 0, len(rows))
	for _, row := range rows {
		nr := make(model.RawRow, len(row))
		for k, v := range row {
			if nk, ok := header[k]; ok {
				nr[nk] = v
			} else {
				nr[k] = v
			}
		}
		out = append(out, nr)
	}
	return out
}

// uniqueName returns name, or name_N for the first N >= 2 not yet in seen,
// and records the result.
func uniqueName(name string, seen map[string]bool) string {
	out := name
	for n := 2; seen[out]; n++ {
		out = fmt.Sprintf("%s_%d", name, n)
	}
	seen[out] = true
	return out
}
