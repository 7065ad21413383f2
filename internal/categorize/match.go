package categorize

import "strings"

// normalizeText lower-cases s and collapses runs of whitespace.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Keywords match as plain substrings so that concatenated narrations such as
// "UPI/SWIGGYINSTAMART" still hit. Rules that need a word boundary use a
// pattern instead.
func countHits(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
