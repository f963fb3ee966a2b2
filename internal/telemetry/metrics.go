// Package telemetry holds business-level observability: Prometheus metrics
// for cart and checkout activity, and Sentry error tracking.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for cart and checkout observability.
// All methods are safe on a nil receiver so metrics stay optional in tests.
type Metrics struct {
	cartItemsAdded  prometheus.Counter
	cartUpdates     prometheus.Counter
	cartRemovals    prometheus.Counter
	cartClears      prometheus.Counter
	cartValue       prometheus.Histogram
	ordersSubmitted prometheus.Counter
	orderValue      prometheus.Histogram
	persistFailures prometheus.Counter
}

// NewMetrics creates and registers the cart business metrics.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "tienda"
	}

	return &Metrics{
		cartItemsAdded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_items_added_total",
			Help:      "Total number of add-to-cart operations",
		}),
		cartUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_updates_total",
			Help:      "Total number of cart quantity updates",
		}),
		cartRemovals: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_removals_total",
			Help:      "Total number of cart line removals",
		}),
		cartClears: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_clears_total",
			Help:      "Total number of cart clears",
		}),
		cartValue: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cart_value_dollars",
			Help:      "Cart subtotal after a mutation, in dollars",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		ordersSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_submitted_total",
			Help:      "Total number of order requests submitted",
		}),
		orderValue: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_value_dollars",
			Help:      "Order total at submission, in dollars",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		persistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_persist_failures_total",
			Help:      "Total number of failed cart write-throughs",
		}),
	}
}

func (m *Metrics) ItemAdded(subtotalCents int64) {
	if m == nil {
		return
	}
	m.cartItemsAdded.Inc()
	m.cartValue.Observe(float64(subtotalCents) / 100)
}

func (m *Metrics) CartUpdated(subtotalCents int64) {
	if m == nil {
		return
	}
	m.cartUpdates.Inc()
	m.cartValue.Observe(float64(subtotalCents) / 100)
}

func (m *Metrics) ItemRemoved() {
	if m == nil {
		return
	}
	m.cartRemovals.Inc()
}

func (m *Metrics) CartCleared() {
	if m == nil {
		return
	}
	m.cartClears.Inc()
}

func (m *Metrics) OrderSubmitted(totalCents int64) {
	if m == nil {
		return
	}
	m.ordersSubmitted.Inc()
	m.orderValue.Observe(float64(totalCents) / 100)
}

func (m *Metrics) PersistFailed() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}
