package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/resolve"
)

// PDFDecoder extracts text with pdftotext and reads statement lines out of it.
// The result has no structural guarantee; callers are told via LowAccuracy.
type PDFDecoder struct {
	// Command is the pdftotext binary; empty means "pdftotext" on PATH.
	Command string
}

// Format returns the decoder extension.
func (*PDFDecoder) Format() string { return "pdf" }

// LowAccuracy marks PDF output as best-effort.
func (*PDFDecoder) LowAccuracy() bool { return true }

// Decode runs pdftotext in layout mode and parses the text.
func (p *PDFDecoder) Decode(ctx context.Context, r io.Reader) ([]model.RawRow, error) {
	path, cleanup, err := spool(r, "statement-*.pdf")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	bin := p.Command
	if bin == "" {
		bin = "pdftotext"
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-layout", path, "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("extracting PDF text: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return parseStatementText(stdout.String()), nil
}

var (
	// leadingDate captures a date token at the start of a line.
	leadingDate = regexp.MustCompile(`^\s*(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}|\d{4}-\d{2}-\d{2}|\d{1,2}[-/ ][A-Za-z]{3,9}[-/ ]\d{2,4})\s+(.*)$`)
	// moneyToken is an amount with decimals, optionally with a Cr/Dr suffix.
	moneyToken = regexp.MustCompile(`(?i)^\(?-?[\d,]+\.\d{2}\)?(cr|dr)?$`)
	markerRE   = regexp.MustCompile(`(?i)^(cr|dr)$`)
)

// parseStatementText turns lines like
//
//	01/04/2025  UPI-SWIGGY-ORDER       450.00       12,340.00
//
// into rows. The last amount is read as the running balance when there are
// two. Direction comes from a Cr/Dr marker, else from the balance movement,
// else the line is a debit.
func parseStatementText(text string) []model.RawRow {
	var rows []model.RawRow
	var prevBalance *decimal.Decimal

	for _, line := range strings.Split(text, "\n") {
		m := leadingDate.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if _, ok := resolve.Date(m[1]); !ok {
			continue
		}

		fields := strings.Fields(m[2])
		var amounts []pdfAmount
		pending := ""
	scan:
		for len(fields) > 0 {
			last := fields[len(fields)-1]
			switch {
			case markerRE.MatchString(last) && pending == "":
				pending = strings.ToLower(last)
			case moneyToken.MatchString(last):
				amounts = append([]pdfAmount{{text: last, marker: markerOf(last, pending)}}, amounts...)
				pending = ""
			default:
				break scan
			}
			fields = fields[:len(fields)-1]
		}
		if len(amounts) == 0 {
			continue
		}

		txn := amounts[0]
		balanceText := ""
		if len(amounts) >= 2 {
			txn = amounts[len(amounts)-2]
			balanceText = amounts[len(amounts)-1].text
		}
		amountText, marker := txn.text, txn.marker

		amount := resolve.Amount(amountText)
		credit := marker == "cr"
		if marker == "" && balanceText != "" && prevBalance != nil {
			credit = resolve.SignedAmount(balanceText).GreaterThan(*prevBalance)
		}
		if balanceText != "" {
			b := resolve.SignedAmount(balanceText)
			prevBalance = &b
		}

		row := model.RawRow{
			"Date":        m[1],
			"Particulars": strings.Join(fields, " "),
			"Debit":       "",
			"Credit":      "",
			"Balance":     balanceText,
		}
		if credit {
			row["Credit"] = amount.String()
		} else {
			row["Debit"] = amount.String()
		}
		rows = append(rows, row)
	}
	return rows
}

type pdfAmount struct {
	text   string
	marker string
}

// markerOf returns "cr" or "dr" from a suffix on the token or a following marker token.
func markerOf(token, following string) string {
	lower := strings.ToLower(token)
	switch {
	case strings.HasSuffix(lower, "cr"):
		return "cr"
	case strings.HasSuffix(lower, "dr"):
		return "dr"
	}
	return following
}
