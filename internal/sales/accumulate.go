package sales

import "fmt"

// Stats summarises what happened while receipts were accumulated.
type Stats struct {
	Records       int `json:"records"`
	Items         int `json:"items"`
	SkippedItems  int `json:"skipped_items"`
	OrphanRecords int `json:"orphan_records"`
	SellersRanked int `json:"sellers_ranked"`
}

func accumulate(idx *index, records []PurchaseRecord, revenue RevenueStrategy, skipOrphans bool) (Stats, error) {
	var stats Stats
	for _, record := range records {
		seller, ok := idx.sellers[record.SellerID]
		if !ok {
			if !skipOrphans {
				return stats, fmt.Errorf("%w: receipt %q seller %q", ErrOrphanRecord, record.ReceiptID, record.SellerID)
			}
			stats.OrphanRecords++
			continue
		}
		stats.Records++
		seller.salesCount++
		seller.revenue += record.TotalAmount

		for _, item := range record.Items {
			stats.Items++
			product, ok := idx.products[item.SKU]
			if !ok {
				stats.SkippedItems++
				continue
			}
			cost := product.PurchasePrice * float64(item.Quantity)
			seller.profit += revenue.ItemRevenue(item, product) - cost
			seller.addQuantity(item.SKU, item.Quantity)
		}
	}
	return stats, nil
}
