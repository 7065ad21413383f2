package categorize

import "github.com/cleared-dev/statements/internal/model"

func ptr(f float64) *float64 { return &f }

// DefaultRuleSet returns the built-in rule table.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Rules:            defaultRules(),
		Merchants:        defaultMerchants(),
		IgnoreKeywords:   defaultIgnoreKeywords(),
		IgnorePatterns:   defaultIgnorePatterns(),
		TransferKeywords: defaultTransferKeywords(),
		TransferPatterns: defaultTransferPatterns(),
	}
}

func defaultRules() []Rule {
	return []Rule{
		// Income.
		{
			Category:     "Salary",
			Group:        model.GroupIncome,
			Direction:    DirectionIncome,
			Priority:     3,
			Keywords:     []string{"salary", "payroll", "wages", "stipend"},
			Patterns:     []string{`\bsal(ary)?\s*(cr|credit)\b`, `\bsal\b`},
			AmountRanges: []AmountRange{{Min: 10000, Multiplier: 1}},
			Exclude:      []string{"advance repayment"},
		},
		{
			Category:  "Business Income",
			Group:     model.GroupIncome,
			Direction: DirectionIncome,
			Keywords:  []string{"invoice", "consulting", "freelance", "upwork", "fiverr", "client payment", "stripe payout"},
		},
		{
			Category:  "Interest",
			Group:     model.GroupIncome,
			Direction: DirectionIncome,
			Priority:  2,
			Keywords:  []string{"interest", "int pd", "int cr"},
			Patterns:  []string{`\bint\.?\s*(pd|paid|cr|credit)\b`},
		},
		{
			Category:  "Dividends",
			Group:     model.GroupIncome,
			Direction: DirectionIncome,
			Keywords:  []string{"dividend"},
			Patterns:  []string{`\bdiv\b`},
		},
		{
			Category:  "Refunds",
			Group:     model.GroupIncome,
			Direction: DirectionIncome,
			Priority:  2,
			Keywords:  []string{"refund", "reversal", "cashback", "chargeback"},
		},

		// Expenses.
		{
			Category:     "Rent",
			Group:        model.GroupExpenses,
			Subcategory:  "Housing",
			Direction:    DirectionExpense,
			Priority:     2,
			Keywords:     []string{"rent", "house rent", "landlord"},
			Patterns:     []string{`\blease\b`},
			AmountRanges: []AmountRange{{Min: 5000, Multiplier: 0.5}},
			Exclude:      []string{"current", "parent", "torrent"},
		},
		{
			Category:     "Groceries",
			Group:        model.GroupExpenses,
			Direction:    DirectionExpense,
			Keywords:     []string{"grocery", "groceries", "supermarket", "bigbasket", "blinkit", "dmart", "walmart", "kroger", "whole foods", "zepto"},
			AmountRanges: []AmountRange{{Min: 0, Max: 10000, Multiplier: 0.3}},
		},
		{
			Category:     "Dining",
			Group:        model.GroupExpenses,
			Direction:    DirectionExpense,
			Keywords:     []string{"restaurant", "cafe", "coffee", "starbucks", "mcdonalds", "dominos", "pizza", "burger", "kfc", "dining", "bistro"},
			AmountRanges: []AmountRange{{Min: 0, Max: 3000, Multiplier: 0.3}},
			Exclude:      []string{"refund"},
			MaxAmount:    ptr(50000),
		},
		{
			Category:    "Food Delivery",
			Group:       model.GroupExpenses,
			Subcategory: "Dining",
			Direction:   DirectionExpense,
			Priority:    2,
			Keywords:    []string{"swiggy", "zomato", "uber eats", "doordash", "grubhub", "deliveroo"},
		},
		{
			Category:  "Transportation",
			Group:     model.GroupExpenses,
			Direction: DirectionExpense,
			Keywords:  []string{"uber", "lyft", "metro", "taxi", "rapido", "parking", "toll", "fastag"},
			Patterns:  []string{`\b(ola|cab)\b`},
		},
		{
			Category:    "Fuel",
			Group:       model.GroupExpenses,
			Subcategory: "Transportation",
			Direction:   DirectionExpense,
			Keywords:    []string{"petrol", "diesel", "fuel", "indian oil", "hpcl", "bpcl", "shell", "gas station"},
		},
		{
			Category:  "Utilities",
			Group:     model.GroupExpenses,
			Direction: DirectionExpense,
			Keywords:  []string{"electricity", "water bill", "gas bill", "utility", "bescom", "power bill"},
		},
		{
			Category:    "Mobile & Internet",
			Group:       model.GroupExpenses,
			Subcategory: "Utilities",
			Direction:   DirectionExpense,
			Keywords:    []string{"airtel", "jio", "vodafone", "broadband", "recharge", "internet", "fibernet", "verizon", "comcast"},
		},
		{
			Category:  "Shopping",
			Group:     model.GroupExpenses,
			Direction: DirectionExpense,
			Keywords:  []string{"amazon", "flipkart", "myntra", "ajio", "shopping", "ebay", "target"},
			Patterns:  []string{`\bmall\b`},
		},
		{
			Category:  "Subscriptions",
			Group:     model.GroupExpenses,
			Direction: DirectionExpense,
			Priority:  2,
			Keywords:  []string{"netflix", "spotify", "amazon prime", "hotstar", "youtube premium", "subscription", "icloud"},
		},
		{
			Category:  "Entertainment",
			Group:     model.GroupExpenses,
			Direction: DirectionExpense,
			Keywords:  []string{"movie", "cinema", "pvr", "inox", "bookmyshow", "concert", "steam", "playstation"},
		},
		{
			Category:  "Healthcare",
			Group:     model.GroupExpenses,
			Direction: DirectionExpense,
			Keywords:  []string{"hospital", "pharmacy", "clinic", "medical", "doctor", "pharmeasy", "diagnostics", "dental"},
		},
		{
			Category:  "Insurance",
			Group:     model.GroupExpenses,
			Direction: DirectionExpense,
			Keywords:  []string{"insurance", "premium", "policy"},
			Patterns:  []string{`\blic\b`},
		},
		{
			Category:  "Education",
			Group:     model.GroupExpenses,
			Direction: DirectionExpense,
			Keywords:  []string{"school", "college", "tuition", "university", "udemy", "coursera", "course"},
		},
		{
			Category:  "Travel",
			Group:     model.GroupExpenses,
			Direction: DirectionExpense,
			Keywords:  []string{"irctc", "makemytrip", "airline", "flight", "hotel", "airbnb", "indigo", "air india", "expedia", "goibibo"},
		},
		{
			Category:  "Personal Care",
			Group:     model.GroupExpenses,
			Direction: DirectionExpense,
			Keywords:  []string{"salon", "gym", "fitness", "barber"},
			Patterns:  []string{`\bspa\b`},
		},
		{
			Category:  "Fees & Charges",
			Group:     model.GroupExpenses,
			Direction: DirectionExpense,
			Keywords:  []string{"charges", "fee", "penalty", "late fee", "annual fee"},
			Exclude:   []string{"coffee"},
			MaxAmount: ptr(10000),
		},
		{
			Category:  "Taxes",
			Group:     model.GroupExpenses,
			Direction: DirectionExpense,
			Priority:  2,
			Keywords:  []string{"income tax", "tds", "advance tax", "gst payment", "tax payment"},
			Patterns:  []string{`\birs\b`},
		},
		{
			Category:     "Cash Withdrawal",
			Group:        model.GroupExpenses,
			Direction:    DirectionExpense,
			Keywords:     []string{"atm", "cash withdrawal", "atw", "nwd"},
			AmountRanges: []AmountRange{{Min: 500, Multiplier: 0.3}},
			Exclude:      []string{"treatment"},
		},
		{
			Category:  "Gifts & Donations",
			Group:     model.GroupExpenses,
			Direction: DirectionExpense,
			Keywords:  []string{"donation", "charity", "gift", "temple"},
		},

		// Savings and financing.
		{
			Category: model.CategoryInvestment,
			Group:    model.GroupSavings,
			Priority: 2,
			Keywords: []string{"mutual fund", "zerodha", "groww", "upstox", "stocks", "shares", "vanguard", "robinhood", "investment"},
			Patterns: []string{`\b(sip|nps|ppf|etf)\b`},
		},
		{
			Category: "Savings",
			Group:    model.GroupSavings,
			Keywords: []string{"fixed deposit", "recurring deposit", "rd installment"},
			Patterns: []string{`\bfd\b`},
		},
		{
			Category: model.CategoryLoan,
			Group:    model.GroupOther,
			Priority: 2,
			Keywords: []string{"loan", "mortgage", "loan disbursement"},
			Patterns: []string{`\bemi\b`},
		},
	}
}

// defaultMerchants is ordered so longer names win over their prefixes.
func defaultMerchants() []MerchantMapping {
	return []MerchantMapping{
		{Merchant: "amazon prime", Category: "Subscriptions"},
		{Merchant: "amazon", Category: "Shopping"},
		{Merchant: "flipkart", Category: "Shopping"},
		{Merchant: "myntra", Category: "Shopping"},
		{Merchant: "uber eats", Category: "Food Delivery"},
		{Merchant: "swiggy", Category: "Food Delivery"},
		{Merchant: "zomato", Category: "Food Delivery"},
		{Merchant: "uber", Category: "Transportation"},
		{Merchant: "lyft", Category: "Transportation"},
		{Merchant: "starbucks", Category: "Dining"},
		{Merchant: "mcdonald", Category: "Dining"},
		{Merchant: "netflix", Category: "Subscriptions"},
		{Merchant: "spotify", Category: "Subscriptions"},
		{Merchant: "bigbasket", Category: "Groceries"},
		{Merchant: "walmart", Category: "Groceries"},
		{Merchant: "irctc", Category: "Travel"},
		{Merchant: "makemytrip", Category: "Travel"},
		{Merchant: "airbnb", Category: "Travel"},
		{Merchant: "zerodha", Category: model.CategoryInvestment},
		{Merchant: "groww", Category: model.CategoryInvestment},
		{Merchant: "indian oil", Category: "Fuel"},
		{Merchant: "airtel", Category: "Mobile & Internet"},
	}
}

func defaultIgnoreKeywords() []string {
	return []string{
		"balance", "opening balance", "closing balance", "service charge", "atm fee",
		"brought forward", "carried forward", "b/f", "c/f", "statement summary",
	}
}

func defaultIgnorePatterns() []string {
	return []string{
		`^(opening|closing|previous|current)\s+bal`,
		`^bal(ance)?\s+(b/f|c/f|brought|carried)`,
		`^[x*#]{3,}\d{3,6}$`,
		`^(sub\s*)?total\b`,
	}
}

func defaultTransferKeywords() []string {
	return []string{
		"transfer", "transferred", "xfer", "xfr", "trf", "zelle", "venmo",
		"self transfer", "own account", "fund transfer", "funds transfer",
	}
}

func defaultTransferPatterns() []string {
	return []string{
		`\b(to|from)\s+(savings|checking|current|own|self|my)\b`,
		`\b(a/c|acct|account)\s+transfer\b`,
	}
}
