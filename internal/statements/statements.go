// Package statements derives financial statements from a categorized ledger.
//
// Every view is recomputed from the ledger on demand. Transfers (by type or
// category) and ignored statement artifacts never take part in the math.
package statements

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/statements/internal/model"
)

// Included reports whether t takes part in statement math.
func Included(t model.Transaction) bool {
	return t.Type != model.TypeTransfer &&
		!strings.EqualFold(t.Category, model.CategoryTransfers) &&
		t.CategoryGroup != model.GroupIgnored
}

// Generate computes every report for the ledger.
func Generate(txns []model.Transaction) model.Reports {
	income := Income(txns)
	return model.Reports{
		IncomeStatement: income,
		CashFlow:        CashFlow(txns),
		BalanceSheet:    Balance(txns, income),
		Months:          Months(txns),
		Categories:      Categories(txns),
	}
}

// Income sums credits of income rows and debits of expense rows.
func Income(txns []model.Transaction) model.IncomeStatement {
	var s model.IncomeStatement
	for _, t := range txns {
		if !Included(t) {
			continue
		}
		switch t.Type {
		case model.TypeIncome:
			s.TotalIncome = s.TotalIncome.Add(t.Credit)
			s.IncomeCount++
		case model.TypeExpense:
			s.TotalExpenses = s.TotalExpenses.Add(t.Debit)
			s.ExpenseCount++
		}
	}
	s.NetIncome = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}

// CashFlow splits net movement into operating, investing (Investment rows)
// and financing (Loan rows).
func CashFlow(txns []model.Transaction) model.CashFlowStatement {
	var s model.CashFlowStatement
	for _, t := range txns {
		if !Included(t) {
			continue
		}
		net := t.Credit.Sub(t.Debit)
		switch {
		case isCategory(t, model.CategoryInvestment):
			s.InvestingCashFlow = s.InvestingCashFlow.Add(net)
		case isCategory(t, model.CategoryLoan):
			s.FinancingCashFlow = s.FinancingCashFlow.Add(net)
		default:
			s.OperatingCashFlow = s.OperatingCashFlow.Add(net)
		}
	}
	s.NetCashFlow = s.OperatingCashFlow.Add(s.InvestingCashFlow).Add(s.FinancingCashFlow)
	return s
}

// Balance derives a simplified balance sheet. Equity is defined as net
// income, so assets equal liabilities plus equity only by that definition.
func Balance(txns []model.Transaction, income model.IncomeStatement) model.BalanceSheet {
	var credits, debits, investments, liabilities decimal.Decimal
	for _, t := range txns {
		if !Included(t) {
			continue
		}
		credits = credits.Add(t.Credit)
		debits = debits.Add(t.Debit)
		if isCategory(t, model.CategoryInvestment) {
			investments = investments.Add(t.Debit)
		}
		if isCategory(t, model.CategoryLoan) {
			liabilities = liabilities.Add(t.Credit)
		}
	}

	cash := decimal.Max(decimal.Zero, credits.Sub(debits))
	return model.BalanceSheet{
		TotalAssets:      cash.Add(investments),
		TotalLiabilities: liabilities,
		TotalEquity:      income.NetIncome,
		CashBalance:      cash,
		Investments:      investments,
	}
}

// Months summarises included rows per "YYYY-MM", in month order.
func Months(txns []model.Transaction) []model.MonthSummary {
	idx := make(map[string]int)
	out := []model.MonthSummary{}
	for _, t := range txns {
		if !Included(t) {
			continue
		}
		key := t.MonthKey
		if key == "" {
			key = model.MonthKeyFor(t.ParsedDate)
		}
		i, ok := idx[key]
		if !ok {
			i = len(out)
			idx[key] = i
			out = append(out, model.MonthSummary{MonthKey: key})
		}
		m := &out[i]
		m.Count++
		switch t.Type {
		case model.TypeIncome:
			m.Income = m.Income.Add(t.Credit)
		case model.TypeExpense:
			m.Expenses = m.Expenses.Add(t.Debit)
		}
	}
	for i := range out {
		out[i].Net = out[i].Income.Sub(out[i].Expenses)
	}
	slices.SortFunc(out, func(a, b model.MonthSummary) int { return strings.Compare(a.MonthKey, b.MonthKey) })
	return out
}

// Categories totals every row, transfers included, per category name.
func Categories(txns []model.Transaction) []model.CategorySummary {
	idx := make(map[string]int)
	out := []model.CategorySummary{}
	for _, t := range txns {
		name := t.Category
		if name == "" {
			name = model.CategoryUncategorized
		}
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, model.CategorySummary{Category: name, Group: t.CategoryGroup})
		}
		c := &out[i]
		c.Count++
		c.Debit = c.Debit.Add(t.Debit)
		c.Credit = c.Credit.Add(t.Credit)
	}
	slices.SortFunc(out, func(a, b model.CategorySummary) int { return strings.Compare(a.Category, b.Category) })
	return out
}

func isCategory(t model.Transaction, name string) bool {
	return strings.EqualFold(t.Category, name)
}
