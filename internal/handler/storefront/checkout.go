package storefront

import (
	"log/slog"
	"net/http"

	"github.com/dvalle/tienda/internal/cart"
	"github.com/dvalle/tienda/internal/domain"
	"github.com/dvalle/tienda/internal/events"
	"github.com/dvalle/tienda/internal/order"
	"github.com/dvalle/tienda/internal/telemetry"
)

// CheckoutHandler turns the current cart into an order request and empties
// the cart afterwards.
type CheckoutHandler struct {
	carts   *cart.Manager
	events  *events.Publisher
	metrics *telemetry.Metrics
	logger  *slog.Logger
	secure  bool
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(carts *cart.Manager, publisher *events.Publisher, metrics *telemetry.Metrics, logger *slog.Logger, secure bool) *CheckoutHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckoutHandler{
		carts:   carts,
		events:  publisher,
		metrics: metrics,
		logger:  logger,
		secure:  secure,
	}
}

// Submit handles POST /checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID := GetSessionIDFromCookie(r)
	if sessionID == "" {
		writeError(w, h.logger, domain.ErrCartEmpty)
		return
	}

	store := h.carts.Get(ctx, sessionID)
	summary := store.Snapshot()

	req, err := order.BuildRequest(sessionID, summary)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.events.OrderSubmitted(ctx, req)
	h.metrics.OrderSubmitted(summary.SubtotalCents)

	// The order is accepted even when the emptied cart cannot be persisted;
	// the snapshot heals on the next mutation.
	if _, err := store.Clear(ctx); err != nil {
		h.metrics.PersistFailed()
		h.logger.Warn("clearing cart after checkout failed", "session_id", sessionID, "error", err)
	}
	h.events.CartCleared(ctx, sessionID)

	// The session keeps its cookie but its store is done; drop it so finished
	// checkouts do not pin stores for the process lifetime.
	h.carts.Release(sessionID)

	h.logger.Info("order submitted",
		"order_id", req.ID,
		"session_id", sessionID,
		"items", summary.ItemCount,
		"total", req.Total,
	)

	respondJSON(w, http.StatusCreated, req)
}
