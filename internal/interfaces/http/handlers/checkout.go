// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/marketplace-storefront/internal/domain/cart"
	"github.com/your-org/marketplace-storefront/internal/domain/checkout"
	"github.com/your-org/marketplace-storefront/internal/domain/order"
	"github.com/your-org/marketplace-storefront/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(svc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: svc,
	}
}

// PlaceOrderRequest is the body of POST /checkout/orders and
// POST /checkout/session.
type PlaceOrderRequest struct {
	Address order.DeliveryAddress `json:"address" binding:"required"`
}

// PlaceDirectOrder handles POST /checkout/orders, the cash-on-delivery path
func (h *CheckoutHandler) PlaceDirectOrder(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.checkoutService.PlaceDirect(c.Request.Context(), id, id.Token, req.Address)
	if err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    created,
	})
}

// BeginHostedCheckout handles POST /checkout/session. It returns the
// payment page URL the client must redirect the buyer to.
func (h *CheckoutHandler) BeginHostedCheckout(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	session, err := h.checkoutService.BeginHosted(c.Request.Context(), id, id.Token, req.Address)
	if err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment session created",
		"data": gin.H{
			"session_ref":  session.SessionRef,
			"redirect_url": session.RedirectURL,
			"state":        session.State,
		},
	})
}

// ConfirmPayment handles GET /checkout/confirm?ref=..., the return leg of
// the hosted payment redirect. Safe to call more than once.
func (h *CheckoutHandler) ConfirmPayment(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}

	ref := c.Query("session_ref")
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing session reference",
		})
		return
	}

	result, err := h.checkoutService.Confirm(c.Request.Context(), id, id.Token, ref)
	if err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	message := "Payment confirmed and order placed"
	if result.AlreadyConfirmed {
		message = "Payment was already confirmed"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    result,
	})
}

// GetState handles GET /checkout/state
func (h *CheckoutHandler) GetState(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}

	session, err := h.checkoutService.State(c.Request.Context(), id)
	if err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout state retrieved successfully",
		"data":    session,
	})
}

func (h *CheckoutHandler) renderCheckoutError(c *gin.Context, err error) {
	var validationErr *checkout.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Address validation failed",
			"fields": validationErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart is empty",
		})
	case errors.Is(err, checkout.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Sign in required for checkout",
		})
	case errors.Is(err, checkout.ErrNoPendingCheckout):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No pending checkout to confirm",
		})
	default:
		var submissionErr *checkout.SubmissionError
		var confirmationErr *checkout.ConfirmationError
		if errors.As(err, &submissionErr) || errors.As(err, &confirmationErr) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Checkout failed",
		})
	}
}

// identity requires an authenticated user; checkout has no guest mode
func (h *CheckoutHandler) identity(c *gin.Context) (cart.Identity, bool) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return cart.Identity{}, false
	}

	sessionID, _ := c.Cookie("session_id")
	return cart.Identity{
		UserID:    &userID,
		Token:     middleware.GetTokenFromContext(c),
		SessionID: sessionID,
	}, true
}
