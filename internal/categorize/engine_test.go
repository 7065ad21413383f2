package categorize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/statements/internal/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCategorize_DefaultRules(t *testing.T) {
	e := NewEngine(nil)

	tests := []struct {
		name  string
		in    Input
		want  string
		group model.CategoryGroup
		stage Stage
	}{
		{"salary credit", Input{Particulars: "Salary credited", Credit: d("50000")}, "Salary", model.GroupIncome, StageRules},
		{"rent debit", Input{Particulars: "Rent payment", Debit: d("15000")}, "Rent", model.GroupExpenses, StageRules},
		{"opening balance", Input{Particulars: "Opening Balance", Credit: d("1000")}, model.CategoryBalanceHeader, model.GroupIgnored, StageIgnore},
		{"transfer beats merchant", Input{Particulars: "transfer to starbucks account", Debit: d("400"), Merchant: "Starbucks"}, model.CategoryTransfers, model.GroupTransfers, StageTransfer},
		{"transfer to savings", Input{Particulars: "Moved to savings", Debit: d("2000")}, model.CategoryTransfers, model.GroupTransfers, StageTransfer},
		{"merchant", Input{Particulars: "POS 4411 card purchase", Debit: d("250"), Merchant: "STARBUCKS COFFEE #12"}, "Dining", model.GroupExpenses, StageMerchant},
		{"longer merchant first", Input{Particulars: "card", Debit: d("199"), Merchant: "Amazon Prime Video"}, "Subscriptions", model.GroupExpenses, StageMerchant},
		{"food delivery", Input{Particulars: "UPI/SWIGGY/ORDER 991", Debit: d("420")}, "Food Delivery", model.GroupExpenses, StageRules},
		{"investment", Input{Particulars: "SIP Mutual Fund HDFC", Debit: d("5000")}, model.CategoryInvestment, model.GroupSavings, StageRules},
		{"loan", Input{Particulars: "Home loan EMI", Debit: d("22000")}, model.CategoryLoan, model.GroupOther, StageRules},
		{"rent does not match current", Input{Particulars: "Current acct maint", Debit: d("700")}, "Moderate Expense", model.GroupExpenses, StageFallback},
		{"short keyword needs word boundary", Input{Particulars: "Small purchase", Debit: d("450")}, "Moderate Expense", model.GroupExpenses, StageFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Explain(tt.in)
			assert.Equal(t, tt.want, got.Category.Name)
			assert.Equal(t, tt.group, got.Category.Group)
			assert.Equal(t, tt.stage, got.Stage)
		})
	}
}

func TestCategorize_ConcatenatedNarration(t *testing.T) {
	e := NewEngine(nil)

	tests := []struct {
		particulars string
		want        string
		stage       Stage
	}{
		{"IMPS SELFTRANSFER 12345", model.CategoryTransfers, StageTransfer},
		{"UPI/SWIGGYINSTAMART/ORDER", "Food Delivery", StageRules},
		{"balances as of today", model.CategoryBalanceHeader, StageIgnore},
	}
	for _, tt := range tests {
		t.Run(tt.particulars, func(t *testing.T) {
			got := e.Explain(Input{Particulars: tt.particulars, Debit: d("450")})
			assert.Equal(t, tt.want, got.Category.Name)
			assert.Equal(t, tt.stage, got.Stage)
		})
	}
}

func TestCategorize_Fallback(t *testing.T) {
	e := NewEngine(MustNewRules(RuleSet{}))

	tests := []struct {
		name string
		in   Input
		want string
	}{
		{"big credit", Input{Particulars: "NEFT ABC", Credit: d("2000")}, "Salary"},
		{"mid credit", Input{Particulars: "NEFT ABC", Credit: d("500")}, "Other Income"},
		{"small credit", Input{Particulars: "NEFT ABC", Credit: d("499.99")}, "Miscellaneous Income"},
		{"big debit", Input{Particulars: "POS", Debit: d("1000")}, "Major Expense"},
		{"mid debit", Input{Particulars: "POS", Debit: d("250")}, "Moderate Expense"},
		{"small debit", Input{Particulars: "POS", Debit: d("12")}, "Minor Expense"},
		{"balanced both sides", Input{Particulars: "sweep", Debit: d("100"), Credit: d("100.01")}, model.CategoryTransfers},
		{"unbalanced both sides", Input{Particulars: "sweep", Debit: d("100"), Credit: d("300")}, model.CategoryUncategorized},
		{"no amounts", Input{Particulars: "memo"}, model.CategoryUncategorized},
		{"typed income without columns", Input{Particulars: "x", Type: model.TypeIncome, Amount: decimal.NewNullDecimal(d("2500"))}, "Salary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Explain(tt.in)
			assert.Equal(t, tt.want, got.Category.Name)
			assert.Equal(t, StageFallback, got.Stage)
		})
	}
}

func TestCategorize_ScoreThreshold(t *testing.T) {
	// A single keyword hit scores 1, above the threshold.
	r := MustNewRules(RuleSet{Rules: []Rule{{Category: "Pets", Group: model.GroupExpenses, Keywords: []string{"vet"}}}})
	got := NewEngine(r).Explain(Input{Particulars: "city vet clinic", Debit: d("80")})
	assert.Equal(t, "Pets", got.Category.Name)
	require.Len(t, got.Candidates, 1)
	assert.Equal(t, 1.0, got.Candidates[0].Score)

	// No hit means no candidate, even with a matching amount range.
	r = MustNewRules(RuleSet{Rules: []Rule{{Category: "Pets", Keywords: []string{"vet"}, AmountRanges: []AmountRange{{Min: 0, Multiplier: 5}}}}})
	got = NewEngine(r).Explain(Input{Particulars: "grocer", Debit: d("80")})
	assert.Equal(t, StageFallback, got.Stage)
	assert.Empty(t, got.Candidates)
}

func TestCategorize_TieBreaksOnPriority(t *testing.T) {
	set := RuleSet{Rules: []Rule{
		{Category: "A", Group: model.GroupExpenses, Keywords: []string{"alpha", "beta"}, Priority: 1},
		{Category: "B", Group: model.GroupExpenses, Keywords: []string{"alpha"}, Priority: 3},
	}}
	// A scores 2, B scores 1 + 0.5*2 = 2. Equal, so higher priority wins.
	got := NewEngine(MustNewRules(set)).Explain(Input{Particulars: "alpha beta", Debit: d("10")})
	assert.Equal(t, "B", got.Category.Name)
	assert.Len(t, got.Candidates, 2)

	// Pattern hits count double.
	set.Rules = append(set.Rules, Rule{Category: "C", Group: model.GroupExpenses, Patterns: []string{`alpha\s+beta`, `^alpha`}})
	got = NewEngine(MustNewRules(set)).Explain(Input{Particulars: "alpha beta", Debit: d("10")})
	assert.Equal(t, "C", got.Category.Name)
}

func TestCategorize_Constraints(t *testing.T) {
	set := RuleSet{Rules: []Rule{
		{Category: "Dining", Group: model.GroupExpenses, Keywords: []string{"cafe"}, Exclude: []string{"refund"}, MaxAmount: ptr(1000), Direction: DirectionExpense},
	}}
	e := NewEngine(MustNewRules(set))

	assert.Equal(t, "Dining", e.Categorize(Input{Particulars: "Cafe Coffee Day", Debit: d("300")}).Name)
	assert.NotEqual(t, "Dining", e.Categorize(Input{Particulars: "Cafe Coffee Day", Debit: d("3000")}).Name, "above max")
	assert.NotEqual(t, "Dining", e.Categorize(Input{Particulars: "Cafe refund", Debit: d("300")}).Name, "excluded")
	assert.NotEqual(t, "Dining", e.Categorize(Input{Particulars: "Cafe Coffee Day", Credit: d("300")}).Name, "wrong direction")
}

func TestCategorize_Deterministic(t *testing.T) {
	e := NewEngine(nil)
	in := Input{Particulars: "UPI-AMAZON-groceries", Debit: d("1200")}
	first := e.Explain(in)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, e.Explain(in))
	}
}

func TestCategorizeAll(t *testing.T) {
	e := NewEngine(nil)
	in := []model.Transaction{
		{ID: "2025-04-001", Particulars: "Salary credited", Credit: d("50000"), Type: model.TypeIncome},
		{ID: "2025-04-002", Particulars: "Rent payment", Debit: d("15000"), Type: model.TypeExpense},
	}
	out := e.CategorizeAll(in)

	require.Len(t, out, 2)
	assert.Equal(t, "Salary", out[0].Category)
	assert.Equal(t, model.GroupIncome, out[0].CategoryGroup)
	assert.Equal(t, "Rent", out[1].Category)
	assert.Equal(t, "Housing", out[1].Subcategory)
	assert.Empty(t, in[0].Category, "input must not be modified")
}
