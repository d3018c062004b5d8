package sales

// RevenueStrategy computes the gross revenue of one receipt line.
type RevenueStrategy interface {
	ItemRevenue(item Item, product Product) float64
}

// RevenueFunc adapts a plain function to RevenueStrategy.
type RevenueFunc func(item Item, product Product) float64

// ItemRevenue calls f(item, product).
func (f RevenueFunc) ItemRevenue(item Item, product Product) float64 {
	return f(item, product)
}

// BonusStrategy computes the bonus for the seller ranked at index out of total.
type BonusStrategy interface {
	Bonus(index, total int, seller SellerSnapshot) float64
}

// BonusFunc adapts a plain function to BonusStrategy.
type BonusFunc func(index, total int, seller SellerSnapshot) float64

// Bonus calls f(index, total, seller).
func (f BonusFunc) Bonus(index, total int, seller SellerSnapshot) float64 {
	return f(index, total, seller)
}

// Policies carries the two strategies an analysis run depends on.
type Policies struct {
	Revenue RevenueStrategy
	Bonus   BonusStrategy
}

func revenueInvokable(s RevenueStrategy) bool {
	if s == nil {
		return false
	}
	if f, ok := s.(RevenueFunc); ok && f == nil {
		return false
	}
	return true
}

func bonusInvokable(s BonusStrategy) bool {
	if s == nil {
		return false
	}
	if f, ok := s.(BonusFunc); ok && f == nil {
		return false
	}
	return true
}
