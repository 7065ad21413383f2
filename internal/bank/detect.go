// Package bank guesses which bank produced a statement from a sample of its rows.
package bank

import (
	"encoding/json"
	"strings"

	"github.com/cleared-dev/statements/internal/model"
)

// Unknown is returned when no signature matches.
const Unknown = "Unknown Bank"

// sampleSize is how many leading rows are inspected.
const sampleSize = 3

// signature lists lower-case markers identifying one bank. IFSC prefixes are included.
type signature struct {
	name    string
	markers []string
}

// signatures are checked in order; the first match wins.
var signatures = []signature{
	{"HDFC", []string{"hdfc"}},
	{"ICICI", []string{"icici", "icic0"}},
	{"SBI", []string{"state bank of india", "sbin0", "sbi "}},
	{"Axis", []string{"axis bank", "utib0"}},
	{"Kotak", []string{"kotak", "kkbk0"}},
	{"Yes Bank", []string{"yes bank", "yesbank", "yesb0"}},
	{"IndusInd", []string{"indusind", "indb0"}},
	{"PNB", []string{"punjab national", "punb0", "pnb"}},
	{"Canara", []string{"canara", "cnrb0"}},
	{"BoB", []string{"bank of baroda", "barb0"}},
}

// Detect labels the source bank from the first rows of a statement.
// The result is advisory and never feeds categorization or reports.
func Detect(rows []model.RawRow) string {
	n := min(len(rows), sampleSize)
	if n == 0 {
		return Unknown
	}

	// json.Marshal sorts map keys, which keeps the sample text deterministic.
	data, err := json.Marshal(rows[:n])
	if err != nil {
		return Unknown
	}
	return DetectText(string(data))
}

// DetectText applies the bank signatures to arbitrary statement text.
func DetectText(text string) string {
	sample := strings.ToLower(text)
	for _, sig := range signatures {
		for _, m := range sig.markers {
			if strings.Contains(sample, m) {
				return sig.name
			}
		}
	}
	return Unknown
}
