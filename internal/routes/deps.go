package routes

import (
	"net/http"

	"github.com/dvalle/tienda/internal/handler/storefront"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	// Cart
	CartHandler *storefront.CartHandler

	// Checkout
	CheckoutHandler *storefront.CheckoutHandler

	// Health and metrics
	HealthHandler  http.HandlerFunc
	MetricsHandler http.Handler
}
