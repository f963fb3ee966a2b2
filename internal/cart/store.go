// Package cart implements the per-session shopping cart: an in-memory,
// persisted collection of line items with derived totals.
package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dvalle/tienda/internal/domain"
	"github.com/dvalle/tienda/internal/persist"
)

// Store is the single authority for one cart's line items. One instance per
// session; all mutations run under the store's mutex and are written through
// to the persistence adapter before returning.
//
// Quantities are never rejected, they are clamped to [1, availableStock].
// A mutation that would drive a quantity to zero or below removes the line.
type Store struct {
	mu      sync.Mutex
	key     string
	adapter persist.Adapter
	logger  *slog.Logger

	lines map[int64]*domain.CartLine
	order []int64 // insertion order, the display order
}

// NewStore creates a store bound to a persistence key and rehydrates it.
// A missing snapshot means an empty cart. A corrupt snapshot also degrades to
// an empty cart; rehydration never blocks startup.
func NewStore(ctx context.Context, key string, adapter persist.Adapter, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		key:     key,
		adapter: adapter,
		logger:  logger,
		lines:   make(map[int64]*domain.CartLine),
	}

	data, err := adapter.Load(ctx, key)
	if err != nil {
		if err != persist.ErrNotFound {
			logger.Warn("failed to load cart snapshot, starting empty",
				"key", key, "error", err)
		}
		return s
	}

	lines, err := decodeSnapshot(data)
	if err != nil {
		logger.Warn("corrupt cart snapshot, starting empty",
			"key", key, "error", err)
		return s
	}

	for i := range lines {
		line := lines[i]
		s.lines[line.ProductID] = &line
		s.order = append(s.order, line.ProductID)
	}
	return s
}

// AddItem inserts a line for the candidate's product or, if one already
// exists, accumulates the quantity. The clamp uses the candidate's stock
// figure, so a fresher stock value heals a stale clamp on the next add.
// A candidate with zero stock is refused rather than stored at quantity zero.
//
// The returned error is non-fatal when its code is EUNAVAILABLE: the
// in-memory mutation took effect, only the write-through failed.
func (s *Store) AddItem(ctx context.Context, c domain.LineCandidate) (domain.CartSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := domain.ValidateCandidate(c); err != nil {
		return s.summaryLocked(), err
	}

	quantity := c.Quantity
	if quantity == 0 {
		quantity = 1
	}

	if line, ok := s.lines[c.ProductID]; ok {
		line.AvailableStock = c.AvailableStock
		newQuantity := min(line.Quantity+quantity, c.AvailableStock)
		if newQuantity < 1 {
			s.removeLocked(c.ProductID)
		} else {
			line.Quantity = newQuantity
		}
		return s.summaryLocked(), s.persistLocked(ctx)
	}

	newQuantity := min(quantity, c.AvailableStock)
	if newQuantity < 1 {
		return s.summaryLocked(), domain.ErrOutOfStock
	}

	s.lines[c.ProductID] = &domain.CartLine{
		ProductID:      c.ProductID,
		Name:           c.Name,
		Slug:           c.Slug,
		ImageURL:       c.ImageURL,
		UnitPriceCents: c.UnitPriceCents,
		Quantity:       newQuantity,
		AvailableStock: c.AvailableStock,
	}
	s.order = append(s.order, c.ProductID)

	return s.summaryLocked(), s.persistLocked(ctx)
}

// UpdateQuantity replaces a line's quantity, clamped to the stock figure
// recorded on the line. A quantity of zero or below removes the line.
// Updating an absent product is a no-op, not an error.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) (domain.CartSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[productID]
	if !ok {
		return s.summaryLocked(), nil
	}

	if quantity <= 0 {
		s.removeLocked(productID)
	} else {
		line.Quantity = min(quantity, line.AvailableStock)
	}

	return s.summaryLocked(), s.persistLocked(ctx)
}

// RemoveItem removes the line for productID. Removing an absent product is a
// no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, productID int64) (domain.CartSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lines[productID]; !ok {
		return s.summaryLocked(), nil
	}

	s.removeLocked(productID)
	return s.summaryLocked(), s.persistLocked(ctx)
}

// Clear empties the cart. The empty state is written through, so a reload
// after a cleared cart stays cleared.
func (s *Store) Clear(ctx context.Context) (domain.CartSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = make(map[int64]*domain.CartLine)
	s.order = nil

	return s.summaryLocked(), s.persistLocked(ctx)
}

// TotalItems returns the sum of quantities across all lines.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice returns the cart total, exact to the cent. The sum is
// accumulated in integer cents and converted to a decimal at the boundary.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cents int64
	for _, line := range s.lines {
		cents += line.SubtotalCents()
	}
	return decimal.New(cents, -2)
}

// Snapshot returns a read-only copy of the cart in display order, for the
// cart view and for building an order request.
func (s *Store) Snapshot() domain.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.summaryLocked()
}

// removeLocked drops a line and its slot in the display order.
func (s *Store) removeLocked(productID int64) {
	delete(s.lines, productID)
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// summaryLocked builds the ordered snapshot. Callers hold s.mu.
func (s *Store) summaryLocked() domain.CartSummary {
	summary := domain.CartSummary{
		Lines: make([]domain.CartLine, 0, len(s.order)),
	}
	for _, id := range s.order {
		line := s.lines[id]
		summary.Lines = append(summary.Lines, *line)
		summary.ItemCount += line.Quantity
		summary.SubtotalCents += line.SubtotalCents()
	}
	return summary
}

// persistLocked writes the full state through to the adapter. A failed write
// is logged and returned as an EUNAVAILABLE warning; the in-memory state
// remains authoritative for the rest of the session.
func (s *Store) persistLocked(ctx context.Context) error {
	data, err := encodeSnapshot(s.orderedLinesLocked())
	if err != nil {
		s.logger.Warn("failed to encode cart snapshot", "key", s.key, "error", err)
		return domain.Unavailable(err, "cart.persist", "cart could not be saved")
	}

	if err := s.adapter.Save(ctx, s.key, data); err != nil {
		s.logger.Warn("cart write-through failed", "key", s.key, "error", err)
		return domain.Unavailable(err, "cart.persist", "cart could not be saved")
	}
	return nil
}

func (s *Store) orderedLinesLocked() []domain.CartLine {
	lines := make([]domain.CartLine, 0, len(s.order))
	for _, id := range s.order {
		lines = append(lines, *s.lines[id])
	}
	return lines
}
