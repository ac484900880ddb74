package view

import (
	"github.com/shopspring/decimal"

	"github.com/merchkit/storefront/internal/models"
)

// Default slider range used when the catalog is empty.
var (
	DefaultPriceMin = decimal.Zero
	DefaultPriceMax = decimal.NewFromInt(10000)
)

// PriceBounds returns the inclusive [min, max] of parsed sale prices over
// the entire unfiltered product set. Unparsable prices count as zero, the
// same degradation the filter and sort stages apply.
func PriceBounds(products []models.Product) (min, max decimal.Decimal) {
	if len(products) == 0 {
		return DefaultPriceMin, DefaultPriceMax
	}
	min = products[0].SalePriceValue()
	max = min
	for _, p := range products[1:] {
		price := p.SalePriceValue()
		if price.Cmp(min) < 0 {
			min = price
		}
		if price.Cmp(max) > 0 {
			max = price
		}
	}
	return min, max
}
