package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/pipeline"
)

var (
	heading = color.New(color.Bold)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
	warn    = color.New(color.FgYellow)
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// signed prints d green when non-negative and red otherwise.
func signed(w io.Writer, d decimal.Decimal) {
	if d.IsNegative() {
		bad.Fprint(w, money(d))
		return
	}
	good.Fprint(w, money(d))
}

func printBatch(w io.Writer, res *pipeline.Result, exported []string) {
	heading.Fprintf(w, "Batch %s\n", res.BatchID)
	fmt.Fprintf(w, "  Files:     %s\n", strings.Join(res.Files, ", "))
	fmt.Fprintf(w, "  Bank:      %s\n", res.Stats.BankDetected)
	fmt.Fprintf(w, "  Rows:      %d read, ", res.Stats.TotalRows)
	good.Fprintf(w, "%d accepted", res.Stats.SuccessfulRows)
	fmt.Fprint(w, ", ")
	if res.Stats.FailedRows > 0 {
		warn.Fprintf(w, "%d skipped", res.Stats.FailedRows)
	} else {
		fmt.Fprint(w, "0 skipped")
	}
	fmt.Fprintln(w)
	if res.LowAccuracy {
		warn.Fprintln(w, "  PDF input was read on a best-effort basis; check the ledger.")
	}
	for _, p := range exported {
		fmt.Fprintf(w, "  Exported:  %s\n", p)
	}
	fmt.Fprintln(w)
	printReports(w, res.Reports)
}

func printReports(w io.Writer, r model.Reports) {
	is := r.IncomeStatement
	heading.Fprintln(w, "Income statement")
	fmt.Fprintf(w, "  Income:    %s (%d)\n", money(is.TotalIncome), is.IncomeCount)
	fmt.Fprintf(w, "  Expenses:  %s (%d)\n", money(is.TotalExpenses), is.ExpenseCount)
	fmt.Fprint(w, "  Net:       ")
	signed(w, is.NetIncome)
	fmt.Fprintln(w)

	cf := r.CashFlow
	heading.Fprintln(w, "Cash flow")
	fmt.Fprintf(w, "  Operating: %s\n", money(cf.OperatingCashFlow))
	fmt.Fprintf(w, "  Investing: %s\n", money(cf.InvestingCashFlow))
	fmt.Fprintf(w, "  Financing: %s\n", money(cf.FinancingCashFlow))
	fmt.Fprint(w, "  Net:       ")
	signed(w, cf.NetCashFlow)
	fmt.Fprintln(w)

	bs := r.BalanceSheet
	heading.Fprintln(w, "Balance sheet")
	fmt.Fprintf(w, "  Cash:        %s\n", money(bs.CashBalance))
	fmt.Fprintf(w, "  Investments: %s\n", money(bs.Investments))
	fmt.Fprintf(w, "  Assets:      %s\n", money(bs.TotalAssets))
	fmt.Fprintf(w, "  Liabilities: %s\n", money(bs.TotalLiabilities))
	fmt.Fprintf(w, "  Equity:      %s\n", money(bs.TotalEquity))

	if len(r.Months) > 0 {
		heading.Fprintln(w, "Months")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  MONTH\tINCOME\tEXPENSES\tNET\tROWS")
		for _, m := range r.Months {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%d\n", m.MonthKey, money(m.Income), money(m.Expenses), money(m.Net), m.Count)
		}
		_ = tw.Flush()
	}

	if len(r.Categories) > 0 {
		heading.Fprintln(w, "Categories")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  CATEGORY\tGROUP\tROWS\tDEBIT\tCREDIT")
		for _, c := range r.Categories {
			fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\t%s\n", c.Category, c.Group, c.Count, money(c.Debit), money(c.Credit))
		}
		_ = tw.Flush()
	}
}
