// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/marketplace-storefront/internal/domain/cart"
	"github.com/your-org/marketplace-storefront/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(svc *cart.Service) *CartHandler {
	return &CartHandler{
		cartService: svc,
	}
}

// AddItemRequest is the body of POST /cart/items
type AddItemRequest struct {
	ItemID  string `json:"item_id" binding:"required"`
	SizeKey string `json:"size_key"`
}

// UpdateQuantityRequest is the body of PUT /cart/items/:id
type UpdateQuantityRequest struct {
	SizeKey  string `json:"size_key"`
	Quantity int    `json:"quantity"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	id := h.identity(c)

	view, err := h.cartService.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    view,
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	id := h.identity(c)

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	view, err := h.cartService.AddItem(c.Request.Context(), id, req.ItemID, req.SizeKey)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, cart.ErrSizeRequired) || errors.Is(err, cart.ErrItemNotFound) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    view,
	})
}

// UpdateQuantity handles PUT /cart/items/:id
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	id := h.identity(c)
	itemID := c.Param("id")

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	view, err := h.cartService.SetQuantity(c.Request.Context(), id, itemID, req.SizeKey, req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update cart item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    view,
	})
}

// RemoveItem handles DELETE /cart/items/:id. Removal is a quantity-zero
// update.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id := h.identity(c)
	itemID := c.Param("id")
	sizeKey := c.Query("size_key")

	view, err := h.cartService.SetQuantity(c.Request.Context(), id, itemID, sizeKey, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove cart item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    view,
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	id := h.identity(c)

	if err := h.cartService.Clear(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// GetCount handles GET /cart/count, the badge count
func (h *CartHandler) GetCount(c *gin.Context) {
	id := h.identity(c)

	count, err := h.cartService.Count(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get cart count",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data": gin.H{
			"count": count,
		},
	})
}

// RefreshFromServer handles POST /cart/refresh. The server copy replaces
// the local one wholesale; signed-in users only.
func (h *CartHandler) RefreshFromServer(c *gin.Context) {
	id := h.identity(c)

	view, err := h.cartService.RefreshFromServer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, cart.ErrAuthRequired) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Sign in to refresh your cart from the server",
			})
			return
		}
		var syncErr *cart.SyncError
		if errors.As(err, &syncErr) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Failed to refresh cart from server",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to refresh cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart refreshed from server successfully",
		"data":    view,
	})
}

// identity builds the cart owner identity from auth context and the guest
// session cookie.
func (h *CartHandler) identity(c *gin.Context) cart.Identity {
	id := cart.Identity{
		Token:     middleware.GetTokenFromContext(c),
		SessionID: h.getOrCreateSessionID(c),
	}
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		id.UserID = &userID
	}
	return id
}

// getOrCreateSessionID gets session ID from cookie or creates a new one
func (h *CartHandler) getOrCreateSessionID(c *gin.Context) string {
	sessionID, err := c.Cookie("session_id")
	if err != nil || sessionID == "" {
		sessionID = uuid.New().String()

		// Set session cookie (24 hours)
		c.SetCookie("session_id", sessionID, 86400, "/", "", false, true)
	}

	return sessionID
}
