package routes

import (
	"github.com/dvalle/tienda/internal/router"
)

// RegisterStorefrontRoutes registers all customer-facing cart routes.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Shopping cart
	r.Get("/cart", deps.CartHandler.View)
	r.Post("/cart/items", deps.CartHandler.Add)
	r.Put("/cart/items/{productID}", deps.CartHandler.Update)
	r.Delete("/cart/items/{productID}", deps.CartHandler.Remove)
	r.Post("/cart/clear", deps.CartHandler.Clear)

	// Checkout
	r.Post("/checkout", deps.CheckoutHandler.Submit)

	// Operational endpoints
	r.Get("/health", deps.HealthHandler)
	r.Handle("GET", "/metrics", deps.MetricsHandler)
}
