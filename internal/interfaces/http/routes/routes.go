// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/marketplace-storefront/internal/config"
	"github.com/your-org/marketplace-storefront/internal/domain/cart"
	"github.com/your-org/marketplace-storefront/internal/domain/catalog"
	"github.com/your-org/marketplace-storefront/internal/domain/checkout"
	"github.com/your-org/marketplace-storefront/internal/domain/order"
	"github.com/your-org/marketplace-storefront/internal/domain/payment"
	"github.com/your-org/marketplace-storefront/internal/infrastructure/database/redis"
	"github.com/your-org/marketplace-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/marketplace-storefront/internal/interfaces/http/middleware"
)

// SetupRoutes wires all domain services and registers every API route
func SetupRoutes(rg *gin.RouterGroup, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	// Domain services
	catalogCache := catalog.NewCache(catalog.NewClient(cfg), redisClient, cfg.Checkout.CatalogCacheTTL, logger)

	cartStore := cart.NewStore(redisClient, cfg.Checkout.CartTTL)
	cartSync := cart.NewSynchronizer(cart.NewRemote(cfg), cartStore, logger)
	cartService := cart.NewService(cartStore, cartSync, catalogCache, logger)

	orderClient := order.NewClient(cfg)
	gateway := payment.NewGateway(cfg)
	composer := checkout.NewComposer(catalogCache, cfg.Checkout.DeliveryFee)
	sessionStore := checkout.NewSessionStore(redisClient, cfg.Checkout.DraftTTL)
	checkoutService := checkout.NewService(composer, cartStore, cartService, orderClient, gateway, sessionStore, logger)

	viewer := order.NewViewer(orderClient, logger)

	setupCatalogRoutes(rg, catalogCache)
	setupCartRoutes(rg, cartService, cfg)
	setupCheckoutRoutes(rg, checkoutService, cfg)
	setupOrderRoutes(rg, viewer, cfg)
}

// setupCatalogRoutes sets up catalog browsing routes
func setupCatalogRoutes(rg *gin.RouterGroup, cache *catalog.Cache) {
	catalogHandler := handlers.NewCatalogHandler(cache)

	items := rg.Group("/catalog")
	{
		items.GET("/items", catalogHandler.ListItems)
		items.POST("/refresh", catalogHandler.Refresh)
	}
}

// setupCartRoutes sets up cart routes. Guests get a session-scoped cart,
// signed-in users a user-scoped one.
func setupCartRoutes(rg *gin.RouterGroup, svc *cart.Service, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(svc)

	carts := rg.Group("/cart")
	carts.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		carts.GET("", cartHandler.GetCart)
		carts.POST("/items", cartHandler.AddItem)
		carts.PUT("/items/:id", cartHandler.UpdateQuantity)
		carts.DELETE("/items/:id", cartHandler.RemoveItem)
		carts.DELETE("", cartHandler.ClearCart)
		carts.GET("/count", cartHandler.GetCount)
		carts.POST("/refresh", cartHandler.RefreshFromServer)
	}
}

// setupCheckoutRoutes sets up checkout routes. All require authentication.
func setupCheckoutRoutes(rg *gin.RouterGroup, svc *checkout.Service, cfg *config.Config) {
	checkoutHandler := handlers.NewCheckoutHandler(svc)

	co := rg.Group("/checkout")
	co.Use(middleware.AuthMiddleware(cfg))
	{
		co.POST("/orders", checkoutHandler.PlaceDirectOrder)
		co.POST("/session", checkoutHandler.BeginHostedCheckout)
		co.GET("/confirm", checkoutHandler.ConfirmPayment)
		co.GET("/state", checkoutHandler.GetState)
	}
}

// setupOrderRoutes sets up the order status viewer routes
func setupOrderRoutes(rg *gin.RouterGroup, viewer *order.Viewer, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(viewer)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.ListLineItems)
	}
}
