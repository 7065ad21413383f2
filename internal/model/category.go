package model

// CategoryGroup is the coarse bucket a category belongs to.
type CategoryGroup string

const (
	GroupIncome    CategoryGroup = "INCOME"
	GroupExpenses  CategoryGroup = "EXPENSES"
	GroupSavings   CategoryGroup = "SAVINGS"
	GroupTransfers CategoryGroup = "TRANSFERS"
	GroupIgnored   CategoryGroup = "IGNORED"
	GroupOther     CategoryGroup = "OTHER"
)

// Sentinel category names that categorization can always fall back to.
const (
	CategoryUncategorized = "Uncategorized"
	CategoryBalanceHeader = "Balance/Header"
	CategoryTransfers     = "Transfers"
	CategoryInvestment    = "Investment"
	CategoryLoan          = "Loan"
)

// Category is a resolved category assignment.
type Category struct {
	Name        string        `json:"name"`
	Group       CategoryGroup `json:"group"`
	Subcategory string        `json:"subcategory,omitempty"`
}

// ValidGroup reports whether g is one of the known groups.
func ValidGroup(g CategoryGroup) bool {
	switch g {
	case GroupIncome, GroupExpenses, GroupSavings, GroupTransfers, GroupIgnored, GroupOther:
		return true
	}
	return false
}
