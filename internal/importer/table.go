package importer

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/statements/internal/model"
)

// tableRows keys every record after the first non-empty one by that record's
// cells. Blank or missing header cells become "column_N" and repeated names
// get a numeric suffix. Fully empty records are skipped.
func tableRows(records [][]string) []model.RawRow {
	start := 0
	for start < len(records) && blank(records[start]) {
		start++
	}
	if start >= len(records) {
		return nil
	}
	header := records[start]

	width := len(header)
	for _, rec := range records[start+1:] {
		width = max(width, len(rec))
	}
	names := headerNames(header, width)

	var rows []model.RawRow
	for _, rec := range records[start+1:] {
		if blank(rec) {
			continue
		}
		row := make(model.RawRow, max(len(header), len(rec)))
		for j := 0; j < max(len(header), len(rec)); j++ {
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			row[names[j]] = v
		}
		rows = append(rows, row)
	}
	return rows
}

func headerNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]bool, width)
	for j := range names {
		name := ""
		if j < len(header) {
			name = strings.TrimSpace(strings.TrimPrefix(header[j], "\ufeff"))
		}
		if name == "" {
			name = fmt.Sprintf("column_%d", j+1)
		}
		// Generated names count as taken so "A,A,A_2" stays distinct.
		unique := name
		for n := 2; seen[unique]; n++ {
			unique = fmt.Sprintf("%s_%d", name, n)
		}
		seen[unique] = true
		names[j] = unique
	}
	return names
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
