package storefront

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvalle/tienda/internal/cart"
	"github.com/dvalle/tienda/internal/catalog"
	"github.com/dvalle/tienda/internal/order"
	"github.com/dvalle/tienda/internal/persist"
)

func TestCheckoutHandler_Submit(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	manager := cart.NewManager(persist.NewMemoryAdapter(), logger)

	source := &mockProductSource{
		getProductFunc: func(ctx context.Context, id int64) (*catalog.Product, error) {
			return testProduct(id, "19.99", 5), nil
		},
	}
	cartHandler := NewCartHandler(manager, source, nil, logger, false)
	checkoutHandler := NewCheckoutHandler(manager, nil, nil, logger, false)

	cookie := seedCart(t, cartHandler, `{"product_id":1,"quantity":2}`)

	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	checkoutHandler.Submit(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got order.Request
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, cookie.Value, got.SessionID)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, int64(1), got.Lines[0].ProductID)
	assert.Equal(t, 2, got.Lines[0].Quantity)
	assert.Equal(t, "39.98", got.Total)

	// Checkout empties the cart.
	viewReq := httptest.NewRequest(http.MethodGet, "/cart", nil)
	viewReq.AddCookie(cookie)
	viewRec := httptest.NewRecorder()
	cartHandler.View(viewRec, viewReq)
	view := decodeCart(t, viewRec)
	assert.Empty(t, view.Items)
}

func TestCheckoutHandler_Submit_EmptyCart(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	manager := cart.NewManager(persist.NewMemoryAdapter(), logger)
	h := NewCheckoutHandler(manager, nil, nil, logger, false)

	t.Run("no session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
		rec := httptest.NewRecorder()
		h.Submit(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("session with empty cart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: uuid.New().String()})
		rec := httptest.NewRecorder()
		h.Submit(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCheckoutHandler_Submit_ReleasesStore(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	adapter := persist.NewMemoryAdapter()
	manager := cart.NewManager(adapter, logger)

	source := &mockProductSource{
		getProductFunc: func(ctx context.Context, id int64) (*catalog.Product, error) {
			return testProduct(id, "19.99", 5), nil
		},
	}
	cartHandler := NewCartHandler(manager, source, nil, logger, false)
	checkoutHandler := NewCheckoutHandler(manager, nil, nil, logger, false)

	cookie := seedCart(t, cartHandler, `{"product_id":1,"quantity":1}`)

	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	checkoutHandler.Submit(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Write a snapshot straight to the backend. If the manager still held the
	// session's store, the next view would show the cached empty cart instead
	// of rehydrating this state.
	snapshot := `{"version":1,"lines":[{"product_id":5,"name":"Watering can","slug":"watering-can","unit_price_cents":501,"quantity":1,"available_stock":3}]}`
	require.NoError(t, adapter.Save(context.Background(), cart.Key(cookie.Value), []byte(snapshot)))

	viewReq := httptest.NewRequest(http.MethodGet, "/cart", nil)
	viewReq.AddCookie(cookie)
	viewRec := httptest.NewRecorder()
	cartHandler.View(viewRec, viewReq)

	view := decodeCart(t, viewRec)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(5), view.Items[0].ProductID)
}
