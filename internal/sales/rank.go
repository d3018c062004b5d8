package sales

import "sort"

// DefaultTopProducts is the maximum number of products listed per seller.
const DefaultTopProducts = 10

type rankedSeller struct {
	stats *sellerStats
	bonus float64
	top   []TopProduct
}

// rank orders sellers by descending profit. Equal profits keep input order.
func rank(stats []*sellerStats, bonus BonusStrategy, limit int) []rankedSeller {
	ordered := make([]*sellerStats, len(stats))
	copy(ordered, stats)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].profit > ordered[j].profit
	})

	total := len(ordered)
	out := make([]rankedSeller, total)
	for i, st := range ordered {
		out[i] = rankedSeller{
			stats: st,
			bonus: bonus.Bonus(i, total, st.snapshot()),
			top:   topProducts(st, limit),
		}
	}
	return out
}

func topProducts(st *sellerStats, limit int) []TopProduct {
	top := make([]TopProduct, 0, len(st.skuOrder))
	for _, sku := range st.skuOrder {
		top = append(top, TopProduct{SKU: sku, Quantity: st.sold[sku]})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Quantity > top[j].Quantity
	})
	if len(top) > limit {
		top = top[:limit]
	}
	return top
}
