package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// StockStatus enumerates the supported stock states.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "IN_STOCK"
	StockStatusOutOfStock StockStatus = "OUT_OF_STOCK"
)

// Product represents a catalog product as delivered by the commerce API.
// SalePrice is the authoritative price and arrives as a decimal string;
// Price is the optional regular/strike-through price.
type Product struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Brand       string      `json:"brand,omitempty"`
	CategoryID  string      `json:"category"`
	SKU         string      `json:"sku,omitempty"`
	Price       string      `json:"price,omitempty"`
	SalePrice   string      `json:"salePrice"`
	StockStatus StockStatus `json:"stockStatus"`
	Description string      `json:"description,omitempty"`
	Images      []string    `json:"images,omitempty"`
}

// SalePriceValue parses the sale price for filtering and sorting.
// Unparsable or negative values degrade to zero; the raw string is kept
// untouched so display layers may still show it.
func (p Product) SalePriceValue() decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(p.SalePrice))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// InStock reports whether the product may be purchased.
func (p Product) InStock() bool {
	return p.StockStatus != StockStatusOutOfStock
}

// NormalizedProduct is the payload handed to the cart and checkout
// collaborators: sale price coerced to a number, image list never nil.
type NormalizedProduct struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	SalePrice   float64     `json:"salePrice"`
	StockStatus StockStatus `json:"stockStatus"`
	Images      []string    `json:"images"`
}

// Normalize builds the collaborator payload for a product.
func (p Product) Normalize() NormalizedProduct {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	price, _ := p.SalePriceValue().Float64()
	return NormalizedProduct{
		ID:          p.ID,
		Name:        p.Name,
		SalePrice:   price,
		StockStatus: p.StockStatus,
		Images:      images,
	}
}
