package service

import (
	"github.com/merchkit/storefront/internal/models"
	"github.com/merchkit/storefront/pkg/commerce"
)

// mapCatalog converts the commerce API wire shapes into domain models.
func mapCatalog(resp *commerce.CatalogResponse) ([]models.Product, []models.Category) {
	products := make([]models.Product, 0, len(resp.Products))
	for _, p := range resp.Products {
		products = append(products, models.Product{
			ID:          p.ID,
			Name:        p.Name,
			Brand:       p.Brand,
			CategoryID:  p.Category,
			SKU:         p.SKU,
			Price:       p.Price,
			SalePrice:   p.SalePrice,
			StockStatus: models.StockStatus(p.StockStatus),
			Description: p.Description,
			Images:      p.Images,
		})
	}

	categories := make([]models.Category, 0, len(resp.Categories))
	for _, c := range resp.Categories {
		categories = append(categories, models.Category{
			ID:     c.ID,
			Name:   c.Name,
			Icon:   c.Icon,
			Banner: c.Banner,
			Show:   c.Show,
		})
	}
	return products, categories
}
