// Package order builds order requests from cart snapshots. Order lifecycle
// is owned by the external backend; this package only assembles the payload.
package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/dvalle/tienda/internal/domain"
)

// Line is one order row, copied from the cart line it came from.
type Line struct {
	ProductID      int64  `json:"product_id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

// Request is the finalized order payload derived from a cart snapshot.
// Totals are carried both in cents and as a decimal string so downstream
// consumers do not redo currency arithmetic.
type Request struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Lines       []Line    `json:"lines"`
	ItemCount   int       `json:"item_count"`
	TotalCents  int64     `json:"total_cents"`
	Total       string    `json:"total"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// BuildRequest assembles an order request from a cart snapshot.
// An empty cart cannot become an order.
func BuildRequest(sessionID string, summary domain.CartSummary) (*Request, error) {
	if len(summary.Lines) == 0 {
		return nil, domain.ErrCartEmpty
	}

	lines := make([]Line, 0, len(summary.Lines))
	for _, l := range summary.Lines {
		lines = append(lines, Line{
			ProductID:      l.ProductID,
			Name:           l.Name,
			Slug:           l.Slug,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			SubtotalCents:  l.SubtotalCents(),
		})
	}

	return &Request{
		ID:          uuid.New().String(),
		SessionID:   sessionID,
		Lines:       lines,
		ItemCount:   summary.ItemCount,
		TotalCents:  summary.SubtotalCents,
		Total:       summary.Subtotal().StringFixed(2),
		SubmittedAt: time.Now().UTC(),
	}, nil
}
