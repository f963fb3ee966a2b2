package storefront

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dvalle/tienda/internal/cart"
	"github.com/dvalle/tienda/internal/catalog"
	"github.com/dvalle/tienda/internal/domain"
	"github.com/dvalle/tienda/internal/telemetry"
)

// CartHandler handles all cart routes. Every response body is the full cart
// so the client can re-render without a follow-up fetch.
type CartHandler struct {
	carts   *cart.Manager
	catalog catalog.ProductSource
	metrics *telemetry.Metrics
	logger  *slog.Logger
	secure  bool
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts *cart.Manager, source catalog.ProductSource, metrics *telemetry.Metrics, logger *slog.Logger, secure bool) *CartHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartHandler{
		carts:   carts,
		catalog: source,
		metrics: metrics,
		logger:  logger,
		secure:  secure,
	}
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	sessionID := GetSessionIDFromCookie(r)
	if sessionID == "" {
		// No session yet means an empty cart. Don't mint a session on a read.
		respondJSON(w, http.StatusOK, newCartView(domain.CartSummary{Lines: []domain.CartLine{}}))
		return
	}

	store := h.carts.Get(r.Context(), sessionID)
	respondJSON(w, http.StatusOK, newCartView(store.Snapshot()))
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Add handles POST /cart/items
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, domain.Invalid("cart.add", "invalid request body"))
		return
	}
	if req.ProductID <= 0 {
		writeError(w, h.logger, domain.Invalid("cart.add", "product_id is required"))
		return
	}
	if req.Quantity < 0 {
		writeError(w, h.logger, domain.Invalid("cart.add", "quantity cannot be negative"))
		return
	}

	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	sessionID := EnsureSession(w, r, h.secure)
	store := h.carts.Get(ctx, sessionID)

	summary, err := store.AddItem(ctx, domain.LineCandidate{
		ProductID:      product.ID,
		Name:           product.Name,
		Slug:           product.Slug,
		ImageURL:       product.MainImageURL,
		UnitPriceCents: product.PriceCents(),
		Quantity:       req.Quantity,
		AvailableStock: product.StockQuantity,
	})
	if err != nil {
		if !domain.IsCode(err, domain.EUNAVAILABLE) {
			writeError(w, h.logger, err)
			return
		}
		h.metrics.PersistFailed()
	}

	h.metrics.ItemAdded(summary.SubtotalCents)
	respondJSON(w, http.StatusOK, newCartView(summary))
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// Update handles PUT /cart/items/{productID}
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, err := strconv.ParseInt(r.PathValue("productID"), 10, 64)
	if err != nil || productID <= 0 {
		writeError(w, h.logger, domain.Invalid("cart.update", "invalid product id"))
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, domain.Invalid("cart.update", "invalid request body"))
		return
	}

	sessionID := EnsureSession(w, r, h.secure)
	store := h.carts.Get(ctx, sessionID)

	summary, err := store.UpdateQuantity(ctx, productID, req.Quantity)
	if err != nil {
		if !domain.IsCode(err, domain.EUNAVAILABLE) {
			writeError(w, h.logger, err)
			return
		}
		h.metrics.PersistFailed()
	}

	h.metrics.CartUpdated(summary.SubtotalCents)
	respondJSON(w, http.StatusOK, newCartView(summary))
}

// Remove handles DELETE /cart/items/{productID}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, err := strconv.ParseInt(r.PathValue("productID"), 10, 64)
	if err != nil || productID <= 0 {
		writeError(w, h.logger, domain.Invalid("cart.remove", "invalid product id"))
		return
	}

	sessionID := EnsureSession(w, r, h.secure)
	store := h.carts.Get(ctx, sessionID)

	summary, err := store.RemoveItem(ctx, productID)
	if err != nil {
		if !domain.IsCode(err, domain.EUNAVAILABLE) {
			writeError(w, h.logger, err)
			return
		}
		h.metrics.PersistFailed()
	}

	h.metrics.ItemRemoved()
	respondJSON(w, http.StatusOK, newCartView(summary))
}

// Clear handles POST /cart/clear
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID := EnsureSession(w, r, h.secure)
	store := h.carts.Get(ctx, sessionID)

	summary, err := store.Clear(ctx)
	if err != nil {
		if !domain.IsCode(err, domain.EUNAVAILABLE) {
			writeError(w, h.logger, err)
			return
		}
		h.metrics.PersistFailed()
	}

	h.metrics.CartCleared()
	respondJSON(w, http.StatusOK, newCartView(summary))
}
