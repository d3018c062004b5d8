// Package pricing provides line revenue strategies for sales reports.
package pricing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/sales-report/internal/sales"
)

// Strategy names accepted by Lookup.
const (
	NameDiscounted = "discounted"
	NameCatalog    = "catalog"
)

// ErrUnknownStrategy is returned by Lookup for unregistered names.
var ErrUnknownStrategy = errors.New("unknown revenue strategy")

// Discounted charges the receipt price minus the line discount:
// sale_price * (1 - discount/100) * quantity.
var Discounted = sales.RevenueFunc(func(item sales.Item, _ sales.Product) float64 {
	return discounted(item.SalePrice, item.Discount, item.Quantity)
})

// CatalogPrice applies the line discount to the catalog sale price instead of
// the price printed on the receipt.
var CatalogPrice = sales.RevenueFunc(func(item sales.Item, product sales.Product) float64 {
	return discounted(product.SalePrice, item.Discount, item.Quantity)
})

var registry = map[string]sales.RevenueStrategy{
	NameDiscounted: Discounted,
	NameCatalog:    CatalogPrice,
}

func discounted(price, discountPct float64, qty int) float64 {
	return price * (1 - discountPct/100) * float64(qty)
}

// Lookup returns the strategy registered under name (case-insensitive).
func Lookup(name string) (sales.RevenueStrategy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if s, ok := registry[key]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Names lists the registered strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
