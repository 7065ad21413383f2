package resolve

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// matcher pairs a full-string pattern with an extractor for its groups.
type matcher struct {
	name    string
	re      *regexp.Regexp
	extract func(m []string) (y, mo, d int, ok bool)
}

// matchers are tried in order; the first that matches the full string wins.
var matchers = []matcher{
	{"dd-mm-yyyy", regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})$`), func(m []string) (int, int, int, bool) {
		return atoi(m[3]), atoi(m[2]), atoi(m[1]), true
	}},
	{"dd-mm-yy", regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{2})$`), func(m []string) (int, int, int, bool) {
		return pivotYear(atoi(m[3])), atoi(m[2]), atoi(m[1]), true
	}},
	{"yyyy-mm-dd", regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})$`), func(m []string) (int, int, int, bool) {
		return atoi(m[1]), atoi(m[2]), atoi(m[3]), true
	}},
	{"dd month yyyy", regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]{3,})\.?,?\s+(\d{4})$`), func(m []string) (int, int, int, bool) {
		mo, ok := monthNumber(m[2])
		return atoi(m[3]), mo, atoi(m[1]), ok
	}},
	{"month dd, yyyy", regexp.MustCompile(`^([A-Za-z]{3,})\.?\s+(\d{1,2}),?\s+(\d{4})$`), func(m []string) (int, int, int, bool) {
		mo, ok := monthNumber(m[1])
		return atoi(m[3]), mo, atoi(m[2]), ok
	}},
	{"dd-mon-yy", regexp.MustCompile(`^(\d{1,2})[-/ ]([A-Za-z]{3,})[-/ ](\d{2}|\d{4})$`), func(m []string) (int, int, int, bool) {
		mo, ok := monthNumber(m[2])
		y := atoi(m[3])
		if len(m[3]) == 2 {
			y = pivotYear(y)
		}
		return y, mo, atoi(m[1]), ok
	}},
}

var excelSerial = regexp.MustCompile(`^\d{5}(\.0+)?$`)

// fallbackLayouts stand in for a generic locale date parse.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02-01-2006 15:04:05",
	"02/01/2006 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"Jan 2 2006",
	"January 2 2006",
	"Mon, 02 Jan 2006",
	"Mon Jan 2 2006",
	"2 January, 2006",
	"20060102",
	"2006.01.02",
	"02.01.2006",
}

var monthPrefixes = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// Date parses a free-form statement date. It reports false when no pattern
// matches or the match is not a real calendar date.
func Date(text string) (time.Time, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}

	for _, m := range matchers {
		groups := m.re.FindStringSubmatch(s)
		if groups == nil {
			continue
		}
		y, mo, d, ok := m.extract(groups)
		if !ok {
			continue
		}
		if t, ok := calendarDate(y, mo, d); ok {
			return t, true
		}
	}

	if excelSerial.MatchString(s) {
		if t, ok := fromExcelSerial(s); ok {
			return t, true
		}
	}

	for _, layout := range fallbackLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// DateValue resolves a cell of any type, including time.Time values produced by decoders.
func DateValue(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return time.Date(val.Year(), val.Month(), val.Day(), 0, 0, 0, 0, time.UTC), true
	case string:
		return Date(val)
	default:
		return Date(Text(val))
	}
}

func calendarDate(y, mo, d int) (time.Time, bool) {
	if y < 1 || mo < 1 || mo > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow such as 31 April; reject those.
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func fromExcelSerial(s string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial < 20000 || serial > 80000 {
		return time.Time{}, false
	}
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, int(serial)), true
}

// pivotYear maps a two-digit year: below 30 is 20xx, otherwise 19xx.
func pivotYear(yy int) int {
	if yy < 30 {
		return 2000 + yy
	}
	return 1900 + yy
}

func monthNumber(name string) (int, bool) {
	if len(name) < 3 {
		return 0, false
	}
	mo, ok := monthPrefixes[strings.ToLower(name[:3])]
	return mo, ok
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
