package sales

// sellerStats is the mutable per-seller accumulator. It is written only while
// receipts are accumulated and read afterwards.
type sellerStats struct {
	id         string
	name       string
	revenue    float64
	profit     float64
	salesCount int
	sold       map[string]int
	// skuOrder remembers the first time each SKU was sold so top product ties stay stable.
	skuOrder []string
}

func (s *sellerStats) addQuantity(sku string, qty int) {
	if _, ok := s.sold[sku]; !ok {
		s.skuOrder = append(s.skuOrder, sku)
	}
	s.sold[sku] += qty
}

func (s *sellerStats) snapshot() SellerSnapshot {
	return SellerSnapshot{
		SellerID:   s.id,
		Name:       s.name,
		Revenue:    s.revenue,
		Profit:     s.profit,
		SalesCount: s.salesCount,
	}
}

type index struct {
	// stats keeps the input seller order, which is the ranking tie-break.
	stats    []*sellerStats
	sellers  map[string]*sellerStats
	products map[string]Product
}

func buildIndex(ds *Dataset) *index {
	idx := &index{
		stats:    make([]*sellerStats, 0, len(ds.Sellers)),
		sellers:  make(map[string]*sellerStats, len(ds.Sellers)),
		products: make(map[string]Product, len(ds.Products)),
	}
	for _, seller := range ds.Sellers {
		if _, dup := idx.sellers[seller.ID]; dup {
			continue
		}
		st := &sellerStats{
			id:   seller.ID,
			name: seller.FirstName + " " + seller.LastName,
			sold: make(map[string]int),
		}
		idx.stats = append(idx.stats, st)
		idx.sellers[seller.ID] = st
	}
	for _, product := range ds.Products {
		idx.products[product.SKU] = product
	}
	return idx
}
