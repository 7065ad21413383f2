package model

import "github.com/shopspring/decimal"

// IncomeStatement aggregates income and expense rows.
type IncomeStatement struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
	IncomeCount   int             `json:"incomeCount"`
	ExpenseCount  int             `json:"expenseCount"`
}

// CashFlowStatement splits net cash movement into operating, investing and financing.
type CashFlowStatement struct {
	OperatingCashFlow decimal.Decimal `json:"operatingCashFlow"`
	InvestingCashFlow decimal.Decimal `json:"investingCashFlow"`
	FinancingCashFlow decimal.Decimal `json:"financingCashFlow"`
	NetCashFlow       decimal.Decimal `json:"netCashFlow"`
}

// BalanceSheet is a simplified position derived from the ledger.
// TotalEquity is defined as net income, so the identity is heuristic.
type BalanceSheet struct {
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	CashBalance      decimal.Decimal `json:"cashBalance"`
	Investments      decimal.Decimal `json:"investments"`
}

// MonthSummary holds per-month totals keyed by "YYYY-MM".
type MonthSummary struct {
	MonthKey string          `json:"monthKey"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
	Count    int             `json:"count"`
}

// CategorySummary holds per-category totals.
type CategorySummary struct {
	Category string          `json:"category"`
	Group    CategoryGroup   `json:"group"`
	Count    int             `json:"count"`
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
}

// Reports bundles every derived view of a ledger.
type Reports struct {
	IncomeStatement IncomeStatement   `json:"incomeStatement"`
	CashFlow        CashFlowStatement `json:"cashFlowStatement"`
	BalanceSheet    BalanceSheet      `json:"balanceSheet"`
	Months          []MonthSummary    `json:"months"`
	Categories      []CategorySummary `json:"categories"`
}

// Stats describes how many source rows made it into the ledger.
type Stats struct {
	TotalRows      int    `json:"totalRows"`
	SuccessfulRows int    `json:"successfulRows"`
	FailedRows     int    `json:"failedRows"`
	BankDetected   string `json:"bankDetected"`
}
