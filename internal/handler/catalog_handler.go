package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/merchkit/storefront/internal/service"
	"github.com/merchkit/storefront/internal/utils"
	"github.com/merchkit/storefront/internal/view"
)

// CatalogHandler exposes the derived catalog views over HTTP.
type CatalogHandler struct {
	catalogSvc *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalogSvc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// GetCatalog applies any view-state changes carried in the query string
// and returns the all-products view. Absent parameters leave the current
// state untouched, so a plain GET just re-derives.
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	var ch view.StateChange

	if v, ok := c.GetQuery("category"); ok {
		ch.Category = &v
	}
	if v, ok := c.GetQuery("search"); ok {
		ch.Search = &v
	}
	if v, ok := c.GetQuery("sort"); ok {
		key, valid := view.ParseSortKey(v)
		if !valid {
			utils.Error(c, 400, utils.ErrInvalidSort.Error(), "Unknown sort key")
			return
		}
		ch.Sort = &key
	}
	if v := c.Query("min_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			ch.PriceMin = &d
		}
	}
	if v := c.Query("max_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			ch.PriceMax = &d
		}
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			ch.Page = &n
		}
	}

	vw := h.catalogSvc.UpdateView(c.Request.Context(), ch)

	utils.SuccessWithPagination(c, 200, "Catalog retrieved successfully", gin.H{
		"status":      vw.Status,
		"error":       vw.Error,
		"state":       vw.State,
		"showAllOnly": vw.ShowAllOnly,
		"products":    vw.Products,
		"priceRange":  vw.PriceRange,
		"pageWindow":  vw.Page.Window,
	}, vw.Page.Current, vw.Page.Size, vw.Page.TotalItems, vw.Page.TotalPages)
}

// GetHome returns the home-page category sections. While a search is
// active the sections are suppressed and showAllOnly signals the display
// layer to render only the flat list.
func (h *CatalogHandler) GetHome(c *gin.Context) {
	vw := h.catalogSvc.View()

	utils.Success(c, 200, "Home sections retrieved successfully", gin.H{
		"status":      vw.Status,
		"error":       vw.Error,
		"showAllOnly": vw.ShowAllOnly,
		"sections":    vw.Home,
	})
}

// SelectCategory handles a category-banner click: the category filter is
// set and the display layer scrolls to the all-products section.
func (h *CatalogHandler) SelectCategory(c *gin.Context) {
	var req struct {
		Category string `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "category is required")
		return
	}

	vw := h.catalogSvc.SelectCategory(req.Category)

	utils.Success(c, 200, "Category selected", gin.H{
		"state":    vw.State,
		"scrollTo": "all-products",
	})
}

// ResetFilters restores the default category and derived price range.
func (h *CatalogHandler) ResetFilters(c *gin.Context) {
	vw := h.catalogSvc.ResetFilters()

	utils.Success(c, 200, "Filters reset", gin.H{
		"state":      vw.State,
		"priceRange": vw.PriceRange,
	})
}

// Retry re-issues a failed catalog fetch.
func (h *CatalogHandler) Retry(c *gin.Context) {
	if err := h.catalogSvc.Retry(c.Request.Context()); err != nil {
		utils.Error(c, 409, utils.ErrRetryNotAllowed.Error(), "View is not in a failed state")
		return
	}

	vw := h.catalogSvc.View()
	utils.Success(c, 200, "Catalog fetch retried", gin.H{
		"status": vw.Status,
		"error":  vw.Error,
	})
}

// GetProduct emits a view-product-detail intent and returns the product.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, err := h.catalogSvc.ViewProduct(c.Param("id"))
	if err != nil {
		utils.Error(c, 404, utils.ErrProductNotFound.Error(), "Product not found")
		return
	}

	utils.Success(c, 200, "Product retrieved successfully", gin.H{
		"product": p,
	})
}
