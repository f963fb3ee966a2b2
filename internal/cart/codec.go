package cart

import (
	"encoding/json"
	"fmt"

	"github.com/dvalle/tienda/internal/domain"
)

// snapshotVersion identifies the persisted layout. Readers ignore unknown
// fields, so additive changes do not need a version bump.
const snapshotVersion = 1

type persistedCart struct {
	Version int             `json:"version"`
	Lines   []persistedLine `json:"lines"`
}

type persistedLine struct {
	ProductID      int64  `json:"product_id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	ImageURL       string `json:"image_url,omitempty"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       *int   `json:"quantity,omitempty"`
	AvailableStock int    `json:"available_stock"`
}

// encodeSnapshot serializes the full cart state for the write-through.
func encodeSnapshot(lines []domain.CartLine) ([]byte, error) {
	out := persistedCart{
		Version: snapshotVersion,
		Lines:   make([]persistedLine, 0, len(lines)),
	}
	for _, l := range lines {
		quantity := l.Quantity
		out.Lines = append(out.Lines, persistedLine{
			ProductID:      l.ProductID,
			Name:           l.Name,
			Slug:           l.Slug,
			ImageURL:       l.ImageURL,
			UnitPriceCents: l.UnitPriceCents,
			Quantity:       &quantity,
			AvailableStock: l.AvailableStock,
		})
	}
	return json.Marshal(out)
}

// decodeSnapshot parses a persisted cart and sanitizes it back into a state
// that holds the cart invariants. Lines that cannot be repaired by clamping
// are dropped; a missing quantity defaults to one; duplicate product ids keep
// the first occurrence. Order is preserved.
func decodeSnapshot(data []byte) ([]domain.CartLine, error) {
	var stored persistedCart
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse cart snapshot: %w", err)
	}

	seen := make(map[int64]bool, len(stored.Lines))
	lines := make([]domain.CartLine, 0, len(stored.Lines))
	for _, l := range stored.Lines {
		if l.ProductID <= 0 || seen[l.ProductID] {
			continue
		}
		if l.Name == "" || l.UnitPriceCents < 0 {
			continue
		}

		stock := l.AvailableStock
		if stock < 0 {
			stock = 0
		}

		quantity := 1
		if l.Quantity != nil {
			quantity = *l.Quantity
		}
		quantity = min(quantity, stock)
		if quantity < 1 {
			continue
		}

		seen[l.ProductID] = true
		lines = append(lines, domain.CartLine{
			ProductID:      l.ProductID,
			Name:           l.Name,
			Slug:           l.Slug,
			ImageURL:       l.ImageURL,
			UnitPriceCents: l.UnitPriceCents,
			Quantity:       quantity,
			AvailableStock: stock,
		})
	}
	return lines, nil
}
