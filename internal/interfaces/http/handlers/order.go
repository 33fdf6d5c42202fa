// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/marketplace-storefront/internal/domain/order"
	"github.com/your-org/marketplace-storefront/internal/interfaces/http/middleware"
)

// OrderHandler handles the order status viewer endpoints
type OrderHandler struct {
	viewer *order.Viewer
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(viewer *order.Viewer) *OrderHandler {
	return &OrderHandler{
		viewer: viewer,
	}
}

// ListLineItems handles GET /orders. Orders are flattened into one row
// per purchased item, newest orders first.
func (h *OrderHandler) ListLineItems(c *gin.Context) {
	token := middleware.GetTokenFromContext(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	items, err := h.viewer.LineItems(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to retrieve orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data": gin.H{
			"items": items,
			"count": len(items),
		},
	})
}
