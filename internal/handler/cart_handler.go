package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/merchkit/storefront/internal/service"
	"github.com/merchkit/storefront/internal/utils"
)

// CartHandler forwards purchase requests to the cart collaborator.
type CartHandler struct {
	catalogSvc *service.CatalogService
}

// NewCartHandler constructs a CartHandler.
func NewCartHandler(catalogSvc *service.CatalogService) *CartHandler {
	return &CartHandler{catalogSvc: catalogSvc}
}

type purchaseRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// AddToCart requests adding a product to the cart.
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "productId is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := h.catalogSvc.AddToCart(c.Request.Context(), req.ProductID, req.Quantity); err != nil {
		writePurchaseError(c, err)
		return
	}

	utils.Success(c, 202, "Add-to-cart request accepted", gin.H{
		"productId": req.ProductID,
		"quantity":  req.Quantity,
	})
}

// BuyNow requests an immediate purchase of a product.
func (h *CartHandler) BuyNow(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "productId is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := h.catalogSvc.BuyNow(c.Request.Context(), req.ProductID, req.Quantity); err != nil {
		writePurchaseError(c, err)
		return
	}

	utils.Success(c, 202, "Buy-now request accepted", gin.H{
		"productId": req.ProductID,
		"quantity":  req.Quantity,
	})
}

func writePurchaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrProductNotFound):
		utils.Error(c, 404, utils.ErrProductNotFound.Error(), "Product not found")
	case errors.Is(err, utils.ErrOutOfStock):
		utils.Error(c, 409, utils.ErrOutOfStock.Error(), "Product is out of stock")
	case errors.Is(err, utils.ErrInvalidQuantity):
		utils.Error(c, 400, utils.ErrInvalidQuantity.Error(), "Quantity must be at least 1")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to process purchase request")
	}
}
