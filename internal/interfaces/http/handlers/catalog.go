// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/marketplace-storefront/internal/domain/catalog"
)

// CatalogHandler handles catalog browsing endpoints
type CatalogHandler struct {
	cache *catalog.Cache
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(cache *catalog.Cache) *CatalogHandler {
	return &CatalogHandler{
		cache: cache,
	}
}

// ListItems handles GET /catalog/items
func (h *CatalogHandler) ListItems(c *gin.Context) {
	items, err := h.cache.Items(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Catalog is currently unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Catalog retrieved successfully",
		"data": gin.H{
			"items": items,
			"count": len(items),
		},
	})
}

// Refresh handles POST /catalog/refresh, forcing a re-fetch from the
// catalog service.
func (h *CatalogHandler) Refresh(c *gin.Context) {
	if err := h.cache.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Failed to refresh catalog",
		})
		return
	}

	items, err := h.cache.Items(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Catalog is currently unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Catalog refreshed successfully",
		"data": gin.H{
			"items": items,
			"count": len(items),
		},
	})
}
