package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/merchkit/storefront/internal/service"
	"github.com/merchkit/storefront/internal/utils"
)

var startTime = time.Now()

// HealthHandler provides the health endpoint.
type HealthHandler struct {
	catalogSvc *service.CatalogService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(catalogSvc *service.CatalogService) *HealthHandler {
	return &HealthHandler{catalogSvc: catalogSvc}
}

// GetHealth responds with service status and the catalog view state.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	vw := h.catalogSvc.View()

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":  "healthy",
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"catalog": gin.H{
			"status":   vw.Status,
			"products": vw.Page.TotalItems,
		},
	})
}
