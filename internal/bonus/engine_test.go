package bonus_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-report/internal/bonus"
	"github.com/noah-isme/sales-report/internal/sales"
)

func TestProfitTiersRuleOrder(t *testing.T) {
	ladder := bonus.ProfitTiers()
	seller := sales.SellerSnapshot{Profit: 1000}

	cases := []struct {
		name  string
		index int
		total int
		rule  string
		want  float64
	}{
		{name: "sole seller is top not last", index: 0, total: 1, rule: "top", want: 150},
		{name: "leader", index: 0, total: 5, rule: "top", want: 150},
		{name: "second of two is last", index: 1, total: 2, rule: "last", want: 0},
		{name: "second", index: 1, total: 5, rule: "runner-up", want: 100},
		{name: "third of three is last", index: 2, total: 3, rule: "last", want: 0},
		{name: "third", index: 2, total: 5, rule: "runner-up", want: 100},
		{name: "middle", index: 3, total: 5, rule: "rest", want: 50},
		{name: "last", index: 4, total: 5, rule: "last", want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule, ok := ladder.Match(tc.index, tc.total, seller)
			require.True(t, ok)
			require.Equal(t, tc.rule, rule.Name)
			require.Equal(t, tc.want, ladder.Bonus(tc.index, tc.total, seller))
		})
	}
}

func TestLadderRoundsToCents(t *testing.T) {
	got := bonus.ProfitTiers().Bonus(3, 10, sales.SellerSnapshot{Profit: 123.456})
	require.Equal(t, 6.17, got)
}

func TestFlatPaysOnlyProfitableSellers(t *testing.T) {
	ladder := bonus.Flat(0.05)
	require.Equal(t, 5.0, ladder.Bonus(9, 10, sales.SellerSnapshot{Profit: 100}))
	require.Zero(t, ladder.Bonus(0, 10, sales.SellerSnapshot{Profit: -100}))
}

func TestEmptyLadderPaysNothing(t *testing.T) {
	require.Zero(t, bonus.Ladder{}.Bonus(0, 1, sales.SellerSnapshot{Profit: 100}))
}

func TestLookup(t *testing.T) {
	ladder, err := bonus.Lookup(" Profit-Tiers ")
	require.NoError(t, err)
	require.Len(t, ladder.Rules, 4)

	_, err = bonus.Lookup("lottery")
	require.ErrorIs(t, err, bonus.ErrUnknownLadder)
	require.Equal(t, []string{"flat", "profit-tiers"}, bonus.Names())
}
