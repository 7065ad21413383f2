// Package normalize maps heterogeneous raw rows onto the ledger schema.
package normalize

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/statements/internal/bank"
	"github.com/cleared-dev/statements/internal/id"
	"github.com/cleared-dev/statements/internal/logger"
	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/resolve"
)

// Normalize turns raw rows into a sorted ledger. Rows without a parsed date
// or without a positive amount are skipped and counted, never returned as errors.
func Normalize(ctx context.Context, rows []model.RawRow) ([]model.Transaction, model.Stats) {
	return NormalizeBatch(ctx, [][]model.RawRow{rows})
}

// NormalizeBatch normalizes the rows of several files into one ledger.
// Preambles are stripped per file, since each file has its own header.
// Bank detection samples the leading rows of the batch before stripping,
// because title lines often name the bank.
func NormalizeBatch(ctx context.Context, files [][]model.RawRow) ([]model.Transaction, model.Stats) {
	log := logger.FromContext(ctx)

	var sample []model.RawRow
	for _, f := range files {
		if len(sample) >= bankSampleRows {
			break
		}
		sample = append(sample, f[:min(len(f), bankSampleRows-len(sample))]...)
	}
	detected := bank.Detect(sample)

	var rows []model.RawRow
	for _, f := range files {
		rows = append(rows, StripPreamble(f)...)
	}

	stats := model.Stats{TotalRows: len(rows), BankDetected: detected}
	cache := make(map[string]columns)
	ledger := make([]model.Transaction, 0, len(rows))

	for i, row := range rows {
		sig := signature(row)
		cols, ok := cache[sig]
		if !ok {
			cols = resolveColumns(row)
			cache[sig] = cols
		}

		t := coerce(row, cols, detected)
		switch {
		case !t.HasDate():
			log.Debug().Int("row", i).Str("date", t.Date).Msg("skipping row: unparsable date")
			continue
		case !t.HasAmount():
			log.Debug().Int("row", i).Str("particulars", t.Particulars).Msg("skipping row: no amount")
			continue
		}
		ledger = append(ledger, t)
	}

	slices.SortStableFunc(ledger, func(a, b model.Transaction) int {
		return a.ParsedDate.Compare(b.ParsedDate)
	})
	seq := id.NewSequencer()
	for i := range ledger {
		ledger[i].ID = seq.Next(ledger[i].ParsedDate)
	}

	stats.SuccessfulRows = len(ledger)
	stats.FailedRows = stats.TotalRows - stats.SuccessfulRows
	return ledger, stats
}

// bankSampleRows is how many leading rows bank detection sees.
const bankSampleRows = 3

func coerce(row model.RawRow, cols columns, detected string) model.Transaction {
	rawDate := cols.value(row, FieldDate)
	parsed, _ := resolve.DateValue(rawDate)
	dateText := resolve.Text(rawDate)
	if _, isTime := rawDate.(time.Time); isTime && !parsed.IsZero() {
		dateText = parsed.Format(time.DateOnly)
	}

	t := model.Transaction{
		Date:        dateText,
		ParsedDate:  parsed,
		MonthKey:    model.MonthKeyFor(parsed),
		Month:       resolve.Text(cols.value(row, FieldMonth)),
		Particulars: resolve.Text(cols.value(row, FieldParticulars)),
		Merchant:    resolve.Text(cols.value(row, FieldMerchant)),
		Debit:       resolve.Amount(cols.value(row, FieldDebit)),
		Credit:      resolve.Amount(cols.value(row, FieldCredit)),
		Balance:     resolve.SignedAmount(cols.value(row, FieldBalance)),
		Bank:        resolve.Text(cols.value(row, FieldBank)),
	}

	sourceType := parseType(resolve.Text(cols.value(row, FieldType)))

	if !cols.has(FieldDebit) && !cols.has(FieldCredit) && cols.has(FieldAmount) {
		signed := resolve.SignedAmount(cols.value(row, FieldAmount))
		if signed.IsNegative() || sourceType == model.TypeExpense {
			t.Debit = signed.Abs()
		} else {
			t.Credit = signed
		}
	}

	t.Type = sourceType
	if t.Type == model.TypeUnknown {
		t.Type = inferType(t.Debit, t.Credit, t.Particulars)
	}

	if t.Month == "" && !parsed.IsZero() {
		t.Month = parsed.Month().String()
	}
	if t.Bank == "" {
		t.Bank = model.UnknownBank
		if detected != bank.Unknown {
			t.Bank = detected
		}
	}
	return t
}

// parseType maps a source type cell onto a TxnType; anything unrecognised is UNKNOWN.
func parseType(s string) model.TxnType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INCOME", "CR", "CREDIT", "DEPOSIT", "C":
		return model.TypeIncome
	case "EXPENSE", "DR", "DEBIT", "WITHDRAWAL", "D":
		return model.TypeExpense
	case "TRANSFER", "XFER", "TRF":
		return model.TypeTransfer
	}
	return model.TypeUnknown
}

func inferType(debit, credit decimal.Decimal, particulars string) model.TxnType {
	switch {
	case credit.IsPositive() && debit.IsZero():
		return model.TypeIncome
	case debit.IsPositive() && credit.IsZero():
		return model.TypeExpense
	case debit.IsPositive() && credit.IsPositive():
		return model.TypeTransfer
	}

	p := strings.ToLower(particulars)
	switch {
	case strings.Contains(p, "cr") || strings.Contains(p, "credit"):
		return model.TypeIncome
	case strings.Contains(p, "dr") || strings.Contains(p, "debit"):
		return model.TypeExpense
	}
	return model.TypeUnknown
}
