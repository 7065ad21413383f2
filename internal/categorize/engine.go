package categorize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/statements/internal/model"
)

// Stage names the step of the decision order that produced a category.
type Stage string

const (
	StageIgnore   Stage = "ignore"
	StageTransfer Stage = "transfer"
	StageMerchant Stage = "merchant"
	StageRules    Stage = "rules"
	StageFallback Stage = "fallback"
)

// minScore is the score a rule must exceed to be accepted.
const minScore = 0.5

var (
	majorExpense    = decimal.NewFromInt(1000)
	moderateExpense = decimal.NewFromInt(250)
	salaryIncome    = decimal.NewFromInt(2000)
	otherIncome     = decimal.NewFromInt(500)
	transferDelta   = decimal.RequireFromString("0.01")
)

// Input is what the engine needs to know about a transaction.
type Input struct {
	Particulars string
	Type        model.TxnType
	Credit      decimal.Decimal
	Debit       decimal.Decimal
	Amount      decimal.NullDecimal // defaults to the non-zero side
	Merchant    string
}

// Candidate is one scored rule.
type Candidate struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	Priority int     `json:"priority"`
}

// Explanation describes how a category was chosen.
type Explanation struct {
	Category   model.Category `json:"category"`
	Stage      Stage          `json:"stage"`
	Candidates []Candidate    `json:"candidates,omitempty"`
}

// Engine categorizes transactions against an immutable rule registry.
type Engine struct {
	rules *Rules
}

// NewEngine creates an Engine. A nil registry means the default rules.
func NewEngine(rules *Rules) *Engine {
	if rules == nil {
		rules = Default()
	}
	return &Engine{rules: rules}
}

// Rules returns the registry the engine was built with.
func (e *Engine) Rules() *Rules {
	return e.rules
}

// Categorize returns the category for in. It always returns a named category.
func (e *Engine) Categorize(in Input) model.Category {
	return e.Explain(in).Category
}

// Explain runs the full decision order and reports the stage that decided.
func (e *Engine) Explain(in Input) Explanation {
	desc := normalizeText(in.Particulars)

	if e.isIgnored(desc) {
		return e.explain(model.CategoryBalanceHeader, StageIgnore, nil)
	}
	if e.isTransfer(desc) {
		return e.explain(model.CategoryTransfers, StageTransfer, nil)
	}
	if cat, ok := e.matchMerchant(in.Merchant); ok {
		return e.explain(cat, StageMerchant, nil)
	}

	amount := in.amount()
	best, candidates := e.score(desc, in.direction(), amount)
	if best != nil && best.score > minScore {
		return Explanation{
			Category: model.Category{
				Name:        best.rule.Category,
				Group:       best.rule.Group,
				Subcategory: best.rule.Subcategory,
			},
			Stage:      StageRules,
			Candidates: candidates,
		}
	}
	return e.explain(fallback(in), StageFallback, candidates)
}

// CategorizeTransaction fills the category fields of t.
func (e *Engine) CategorizeTransaction(t model.Transaction) model.Transaction {
	cat := e.Categorize(Input{
		Particulars: t.Particulars,
		Type:        t.Type,
		Credit:      t.Credit,
		Debit:       t.Debit,
		Merchant:    t.Merchant,
	})
	t.Category = cat.Name
	t.CategoryGroup = cat.Group
	t.Subcategory = cat.Subcategory
	return t
}

// CategorizeAll returns a categorized copy of the ledger.
func (e *Engine) CategorizeAll(txns []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	for i, t := range txns {
		out[i] = e.CategorizeTransaction(t)
	}
	return out
}

func (e *Engine) explain(name string, stage Stage, candidates []Candidate) Explanation {
	return Explanation{
		Category:   model.Category{Name: name, Group: e.rules.Group(name)},
		Stage:      stage,
		Candidates: candidates,
	}
}

func (e *Engine) isIgnored(desc string) bool {
	return containsAny(desc, e.rules.ignoreKW) || anyMatch(e.rules.ignoreRE, desc)
}

func (e *Engine) isTransfer(desc string) bool {
	return containsAny(desc, e.rules.xferKW) || anyMatch(e.rules.xferRE, desc)
}

func (e *Engine) matchMerchant(merchant string) (string, bool) {
	m := normalizeText(merchant)
	if m == "" {
		return "", false
	}
	for _, mm := range e.rules.merchants {
		if mm.Merchant == m {
			return mm.Category, true
		}
	}
	for _, mm := range e.rules.merchants {
		if strings.Contains(m, mm.Merchant) {
			return mm.Category, true
		}
	}
	return "", false
}

type scored struct {
	rule  Rule
	score float64
}

func (e *Engine) score(desc string, dir Direction, amount decimal.Decimal) (*scored, []Candidate) {
	var best *scored
	var candidates []Candidate

	for _, cr := range e.rules.compiled {
		if cr.rule.Direction != DirectionAny && dir != DirectionAny && cr.rule.Direction != dir {
			continue
		}
		if cr.min.Valid && amount.LessThan(cr.min.Decimal) {
			continue
		}
		if cr.max.Valid && amount.GreaterThan(cr.max.Decimal) {
			continue
		}
		if containsAny(desc, cr.exclude) {
			continue
		}

		keywordHits := countHits(desc, cr.keywords)
		patternHits := 0
		for _, re := range cr.patterns {
			if re.MatchString(desc) {
				patternHits++
			}
		}
		if keywordHits+patternHits == 0 {
			continue
		}

		score := float64(keywordHits) + 2*float64(patternHits)
		for _, ar := range cr.rule.AmountRanges {
			if inRange(amount, ar) {
				score += ar.Multiplier
			}
		}
		score += 0.5 * float64(cr.rule.Priority-1)

		candidates = append(candidates, Candidate{Category: cr.rule.Category, Score: score, Priority: cr.rule.Priority})
		if best == nil || score > best.score || (score == best.score && cr.rule.Priority > best.rule.Priority) {
			best = &scored{rule: cr.rule, score: score}
		}
	}
	return best, candidates
}

func inRange(amount decimal.Decimal, ar AmountRange) bool {
	if amount.LessThan(decimal.NewFromFloat(ar.Min)) {
		return false
	}
	return ar.Max == 0 || !amount.GreaterThan(decimal.NewFromFloat(ar.Max))
}

// fallback buckets an unmatched transaction by direction and size.
func fallback(in Input) string {
	credit, debit := in.Credit, in.Debit
	bothSides := credit.IsPositive() && debit.IsPositive()
	amount := in.amount()

	switch {
	case bothSides && credit.Sub(debit).Abs().LessThanOrEqual(transferDelta):
		return model.CategoryTransfers
	case !bothSides && in.direction() == DirectionIncome:
		switch {
		case amount.GreaterThanOrEqual(salaryIncome):
			return "Salary"
		case amount.GreaterThanOrEqual(otherIncome):
			return "Other Income"
		default:
			return "Miscellaneous Income"
		}
	case !bothSides && in.direction() == DirectionExpense:
		switch {
		case amount.GreaterThanOrEqual(majorExpense):
			return "Major Expense"
		case amount.GreaterThanOrEqual(moderateExpense):
			return "Moderate Expense"
		default:
			return "Minor Expense"
		}
	}
	return model.CategoryUncategorized
}

func (in Input) amount() decimal.Decimal {
	if in.Amount.Valid {
		return in.Amount.Decimal.Abs()
	}
	return model.Transaction{Debit: in.Debit, Credit: in.Credit}.Amount()
}

func (in Input) direction() Direction {
	switch {
	case in.Type == model.TypeIncome:
		return DirectionIncome
	case in.Type == model.TypeExpense:
		return DirectionExpense
	case in.Credit.IsPositive() && in.Debit.IsZero():
		return DirectionIncome
	case in.Debit.IsPositive() && in.Credit.IsZero():
		return DirectionExpense
	}
	return DirectionAny
}

func anyMatch(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
