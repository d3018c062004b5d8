package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-report/internal/sales"
)

func TestDiscounted(t *testing.T) {
	item := sales.Item{SKU: "SKU_001", Quantity: 4, SalePrice: 250, Discount: 10}
	product := sales.Product{SKU: "SKU_001", SalePrice: 999}
	require.InDelta(t, 900.0, Discounted.ItemRevenue(item, product), 1e-9)
}

func TestDiscountedWithoutDiscount(t *testing.T) {
	item := sales.Item{Quantity: 2, SalePrice: 100}
	require.Equal(t, 200.0, Discounted.ItemRevenue(item, sales.Product{}))
}

func TestCatalogPriceUsesProductPrice(t *testing.T) {
	item := sales.Item{Quantity: 2, SalePrice: 1, Discount: 50}
	product := sales.Product{SalePrice: 80}
	require.Equal(t, 80.0, CatalogPrice.ItemRevenue(item, product))
}

func TestLookup(t *testing.T) {
	s, err := Lookup("DISCOUNTED")
	require.NoError(t, err)
	require.Equal(t, 200.0, s.ItemRevenue(sales.Item{Quantity: 2, SalePrice: 100}, sales.Product{}))

	_, err = Lookup("markup")
	require.ErrorIs(t, err, ErrUnknownStrategy)
	require.Equal(t, []string{"catalog", "discounted"}, Names())
}
