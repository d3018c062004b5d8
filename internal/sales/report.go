package sales

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds v to two decimal places, halves away from zero.
// NaN and infinities are returned unchanged.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	rounded, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return rounded
}

func buildReports(ranked []rankedSeller) []SellerReport {
	reports := make([]SellerReport, 0, len(ranked))
	for _, r := range ranked {
		reports = append(reports, SellerReport{
			SellerID:    r.stats.id,
			Name:        r.stats.name,
			Revenue:     Round2(r.stats.revenue),
			Profit:      Round2(r.stats.profit),
			SalesCount:  r.stats.salesCount,
			TopProducts: r.top,
			Bonus:       r.bonus,
		})
	}
	return reports
}
