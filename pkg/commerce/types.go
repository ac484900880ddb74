package commerce

// CatalogResponse is the payload of GET /store/{store}/catalog.
type CatalogResponse struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
}

// Product is the wire shape of a catalog product.
type Product struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	SKU         string   `json:"sku"`
	Price       string   `json:"price"`
	SalePrice   string   `json:"salePrice"`
	StockStatus string   `json:"stockStatus"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

// Category is the wire shape of a storefront category.
type Category struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Banner string `json:"banner"`
	Show   *bool  `json:"show"`
}
