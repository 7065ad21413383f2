// Package categorize assigns categories to ledger transactions.
//
// Categorization is driven by a Rules registry built once from a RuleSet and
// never mutated afterwards; the With* methods return a new registry. An Engine
// wraps a registry and applies the decision order ignore, transfer, merchant,
// scored rules, fallback.
package categorize

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/statements/internal/model"
)

// Direction restricts a rule to inflows or outflows.
type Direction string

const (
	DirectionAny     Direction = "any"
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

// AmountRange adds Multiplier to a rule's score when the amount lies in [Min, Max].
// A zero Max means unbounded.
type AmountRange struct {
	Min        float64 `yaml:"min"`
	Max        float64 `yaml:"max,omitempty"`
	Multiplier float64 `yaml:"multiplier"`
}

// Rule describes how to recognise one category.
type Rule struct {
	Category     string              `yaml:"category"`
	Group        model.CategoryGroup `yaml:"group"`
	Subcategory  string              `yaml:"subcategory,omitempty"`
	Keywords     []string            `yaml:"keywords,omitempty"`
	Patterns     []string            `yaml:"patterns,omitempty"`
	AmountRanges []AmountRange       `yaml:"amount_ranges,omitempty"`
	Priority     int                 `yaml:"priority,omitempty"` // 0 is read as 1
	Exclude      []string            `yaml:"exclude,omitempty"`
	MinAmount    *float64            `yaml:"min_amount,omitempty"`
	MaxAmount    *float64            `yaml:"max_amount,omitempty"`
	Direction    Direction           `yaml:"direction,omitempty"`
}

// MerchantMapping sends a known counterparty straight to a category.
type MerchantMapping struct {
	Merchant string `yaml:"merchant"`
	Category string `yaml:"category"`
}

// RuleSet is the serializable rule table.
type RuleSet struct {
	Rules            []Rule            `yaml:"rules"`
	Merchants        []MerchantMapping `yaml:"merchants,omitempty"`
	IgnoreKeywords   []string          `yaml:"ignore_keywords,omitempty"`
	IgnorePatterns   []string          `yaml:"ignore_patterns,omitempty"`
	TransferKeywords []string          `yaml:"transfer_keywords,omitempty"`
	TransferPatterns []string          `yaml:"transfer_patterns,omitempty"`
}

type compiledRule struct {
	rule     Rule
	keywords []string
	exclude  []string
	patterns []*regexp.Regexp
	min, max decimal.NullDecimal
}

// Rules is an immutable, compiled rule registry. It is safe for concurrent use.
type Rules struct {
	set       RuleSet
	compiled  []compiledRule
	merchants []MerchantMapping
	ignoreKW  []string
	ignoreRE  []*regexp.Regexp
	xferKW    []string
	xferRE    []*regexp.Regexp
	groups    map[string]model.CategoryGroup
}

// builtinGroups covers the sentinel and fallback categories.
var builtinGroups = map[string]model.CategoryGroup{
	"uncategorized":        model.GroupOther,
	"balance/header":       model.GroupIgnored,
	"transfers":            model.GroupTransfers,
	"salary":               model.GroupIncome,
	"other income":         model.GroupIncome,
	"miscellaneous income": model.GroupIncome,
	"major expense":        model.GroupExpenses,
	"moderate expense":     model.GroupExpenses,
	"minor expense":        model.GroupExpenses,
}

// NewRules validates and compiles a rule set.
func NewRules(set RuleSet) (*Rules, error) {
	set = cloneSet(set)
	r := &Rules{
		set:    set,
		groups: make(map[string]model.CategoryGroup, len(builtinGroups)+len(set.Rules)),
	}
	for k, v := range builtinGroups {
		r.groups[k] = v
	}

	for i, rule := range set.Rules {
		cr, err := compileRule(rule)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, rule.Category, err)
		}
		r.compiled = append(r.compiled, cr)
		r.groups[strings.ToLower(cr.rule.Category)] = cr.rule.Group
	}

	for i, m := range set.Merchants {
		merchant := normalizeText(m.Merchant)
		if merchant == "" || strings.TrimSpace(m.Category) == "" {
			return nil, fmt.Errorf("merchant mapping %d: merchant and category are required", i)
		}
		r.merchants = append(r.merchants, MerchantMapping{Merchant: merchant, Category: strings.TrimSpace(m.Category)})
	}

	var err error
	r.ignoreKW = normalizeAll(set.IgnoreKeywords)
	if r.ignoreRE, err = compilePatterns(set.IgnorePatterns); err != nil {
		return nil, fmt.Errorf("ignore patterns: %w", err)
	}
	r.xferKW = normalizeAll(set.TransferKeywords)
	if r.xferRE, err = compilePatterns(set.TransferPatterns); err != nil {
		return nil, fmt.Errorf("transfer patterns: %w", err)
	}
	return r, nil
}

// MustNewRules is NewRules for tables known to be valid, such as the defaults.
func MustNewRules(set RuleSet) *Rules {
	r, err := NewRules(set)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns a registry built from DefaultRuleSet.
func Default() *Rules {
	return MustNewRules(DefaultRuleSet())
}

// Set returns a copy of the underlying rule table.
func (r *Rules) Set() RuleSet {
	return cloneSet(r.set)
}

// Len returns the number of scored rules.
func (r *Rules) Len() int {
	return len(r.compiled)
}

// Group returns the group for a category name, or OTHER when unknown.
func (r *Rules) Group(category string) model.CategoryGroup {
	if g, ok := r.groups[strings.ToLower(strings.TrimSpace(category))]; ok {
		return g
	}
	return model.GroupOther
}

// WithRule returns a registry with rule added, replacing any rule for the same category.
func (r *Rules) WithRule(rule Rule) (*Rules, error) {
	set := r.Set()
	idx := slices.IndexFunc(set.Rules, func(existing Rule) bool {
		return strings.EqualFold(existing.Category, rule.Category)
	})
	if idx >= 0 {
		set.Rules[idx] = rule
	} else {
		set.Rules = append(set.Rules, rule)
	}
	return NewRules(set)
}

// WithMerchant returns a registry with an extra merchant mapping, replacing an existing one for the same merchant.
func (r *Rules) WithMerchant(merchant, category string) (*Rules, error) {
	set := r.Set()
	mapping := MerchantMapping{Merchant: merchant, Category: category}
	idx := slices.IndexFunc(set.Merchants, func(m MerchantMapping) bool {
		return strings.EqualFold(strings.TrimSpace(m.Merchant), strings.TrimSpace(merchant))
	})
	if idx >= 0 {
		set.Merchants[idx] = mapping
	} else {
		set.Merchants = append(set.Merchants, mapping)
	}
	return NewRules(set)
}

// WithIgnoreKeyword returns a registry that also treats keyword as a header/balance marker.
func (r *Rules) WithIgnoreKeyword(keyword string) (*Rules, error) {
	set := r.Set()
	set.IgnoreKeywords = append(set.IgnoreKeywords, keyword)
	return NewRules(set)
}

// WithTransferKeyword returns a registry that also treats keyword as a transfer marker.
func (r *Rules) WithTransferKeyword(keyword string) (*Rules, error) {
	set := r.Set()
	set.TransferKeywords = append(set.TransferKeywords, keyword)
	return NewRules(set)
}

// Merge overlays extra on base: rules replace same-category rules, merchant
// mappings replace same-merchant mappings and keyword lists are unioned.
func Merge(base, extra RuleSet) RuleSet {
	out := cloneSet(base)
	for _, rule := range extra.Rules {
		idx := slices.IndexFunc(out.Rules, func(r Rule) bool { return strings.EqualFold(r.Category, rule.Category) })
		if idx >= 0 {
			out.Rules[idx] = rule
		} else {
			out.Rules = append(out.Rules, rule)
		}
	}
	for _, m := range extra.Merchants {
		idx := slices.IndexFunc(out.Merchants, func(e MerchantMapping) bool { return strings.EqualFold(e.Merchant, m.Merchant) })
		if idx >= 0 {
			out.Merchants[idx] = m
		} else {
			out.Merchants = append(out.Merchants, m)
		}
	}
	out.IgnoreKeywords = union(out.IgnoreKeywords, extra.IgnoreKeywords)
	out.IgnorePatterns = union(out.IgnorePatterns, extra.IgnorePatterns)
	out.TransferKeywords = union(out.TransferKeywords, extra.TransferKeywords)
	out.TransferPatterns = union(out.TransferPatterns, extra.TransferPatterns)
	return out
}

func compileRule(rule Rule) (compiledRule, error) {
	rule.Category = strings.TrimSpace(rule.Category)
	if rule.Category == "" {
		return compiledRule{}, fmt.Errorf("category name is required")
	}
	if rule.Group == "" {
		rule.Group = model.GroupOther
	}
	if !model.ValidGroup(rule.Group) {
		return compiledRule{}, fmt.Errorf("unknown group %q", rule.Group)
	}
	if rule.Priority <= 0 {
		rule.Priority = 1
	}
	switch rule.Direction {
	case "", DirectionAny:
		rule.Direction = DirectionAny
	case DirectionIncome, DirectionExpense:
	default:
		return compiledRule{}, fmt.Errorf("unknown direction %q", rule.Direction)
	}

	patterns, err := compilePatterns(rule.Patterns)
	if err != nil {
		return compiledRule{}, err
	}

	cr := compiledRule{
		rule:     rule,
		keywords: normalizeAll(rule.Keywords),
		exclude:  normalizeAll(rule.Exclude),
		patterns: patterns,
	}
	if rule.MinAmount != nil {
		cr.min = decimal.NewNullDecimal(decimal.NewFromFloat(*rule.MinAmount))
	}
	if rule.MaxAmount != nil {
		cr.max = decimal.NewNullDecimal(decimal.NewFromFloat(*rule.MaxAmount))
	}
	return cr, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if !strings.HasPrefix(p, "(?i)") {
			p = "(?i)" + p
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func cloneSet(s RuleSet) RuleSet {
	out := RuleSet{
		Rules:            make([]Rule, len(s.Rules)),
		Merchants:        slices.Clone(s.Merchants),
		IgnoreKeywords:   slices.Clone(s.IgnoreKeywords),
		IgnorePatterns:   slices.Clone(s.IgnorePatterns),
		TransferKeywords: slices.Clone(s.TransferKeywords),
		TransferPatterns: slices.Clone(s.TransferPatterns),
	}
	for i, r := range s.Rules {
		r.Keywords = slices.Clone(r.Keywords)
		r.Patterns = slices.Clone(r.Patterns)
		r.AmountRanges = slices.Clone(r.AmountRanges)
		r.Exclude = slices.Clone(r.Exclude)
		if r.MinAmount != nil {
			v := *r.MinAmount
			r.MinAmount = &v
		}
		if r.MaxAmount != nil {
			v := *r.MaxAmount
			r.MaxAmount = &v
		}
		out.Rules[i] = r
	}
	return out
}

func union(a, b []string) []string {
	out := slices.Clone(a)
	for _, s := range b {
		if !slices.ContainsFunc(out, func(e string) bool { return strings.EqualFold(e, s) }) {
			out = append(out, s)
		}
	}
	return out
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := normalizeText(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}
