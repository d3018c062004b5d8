// Package bonus computes seller bonuses from their profit rank.
//
// A Ladder is an ordered list of rules. Rules are evaluated top-down and the
// first match decides the rate applied to the seller's profit, so overlapping
// rules resolve by position. In the profit-tiers ladder a sole seller is both
// first and last and receives the top rate, while the last place of a three
// seller ranking gets nothing even though it is also rank three.
package bonus

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/sales-report/internal/sales"
)

// Ladder names accepted by Lookup.
const (
	NameProfitTiers = "profit-tiers"
	NameFlat        = "flat"
)

// ErrUnknownLadder is returned by Lookup for unregistered names.
var ErrUnknownLadder = errors.New("unknown bonus ladder")

// Predicate reports whether a rule applies to the seller at index out of total.
type Predicate func(index, total int, seller sales.SellerSnapshot) bool

// Rule pairs a predicate with the share of profit paid as bonus.
type Rule struct {
	Name  string
	Match Predicate
	Rate  float64
}

// Ladder is an ordered rule list; the first matching rule wins.
// Sellers that match no rule get no bonus.
type Ladder struct {
	Rules []Rule
}

// Match returns the first rule that applies.
func (l Ladder) Match(index, total int, seller sales.SellerSnapshot) (Rule, bool) {
	for _, r := range l.Rules {
		if r.Match != nil && r.Match(index, total, seller) {
			return r, true
		}
	}
	return Rule{}, false
}

// Bonus implements sales.BonusStrategy. Amounts are rounded to cents.
func (l Ladder) Bonus(index, total int, seller sales.SellerSnapshot) float64 {
	rule, ok := l.Match(index, total, seller)
	if !ok || rule.Rate == 0 {
		return 0
	}
	return sales.Round2(seller.Profit * rule.Rate)
}

// AtRanks matches the given zero-based ranks.
func AtRanks(ranks ...int) Predicate {
	return func(index, _ int, _ sales.SellerSnapshot) bool {
		for _, r := range ranks {
			if r == index {
				return true
			}
		}
		return false
	}
}

// LastPlace matches the lowest ranked seller.
func LastPlace() Predicate {
	return func(index, total int, _ sales.SellerSnapshot) bool {
		return index == total-1
	}
}

// Profitable matches sellers with positive profit.
func Profitable() Predicate {
	return func(_, _ int, seller sales.SellerSnapshot) bool {
		return seller.Profit > 0
	}
}

// Always matches every seller.
func Always() Predicate {
	return func(int, int, sales.SellerSnapshot) bool { return true }
}

// ProfitTiers pays 15% to the leader, nothing to the last place, 10% to ranks
// two and three and 5% to everyone else. Last place is checked before ranks two
// and three, so the second of two sellers receives nothing.
func ProfitTiers() Ladder {
	return Ladder{Rules: []Rule{
		{Name: "top", Match: AtRanks(0), Rate: 0.15},
		{Name: "last", Match: LastPlace(), Rate: 0},
		{Name: "runner-up", Match: AtRanks(1, 2), Rate: 0.10},
		{Name: "rest", Match: Always(), Rate: 0.05},
	}}
}

// Flat pays the same rate to every profitable seller regardless of rank.
func Flat(rate float64) Ladder {
	return Ladder{Rules: []Rule{
		{Name: "flat", Match: Profitable(), Rate: rate},
	}}
}

// Lookup returns the ladder registered under name (case-insensitive).
func Lookup(name string) (Ladder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameProfitTiers:
		return ProfitTiers(), nil
	case NameFlat:
		return Flat(0.05), nil
	default:
		return Ladder{}, fmt.Errorf("%w: %q", ErrUnknownLadder, name)
	}
}

// Names lists the registered ladder names in sorted order.
func Names() []string {
	names := []string{NameProfitTiers, NameFlat}
	sort.Strings(names)
	return names
}
