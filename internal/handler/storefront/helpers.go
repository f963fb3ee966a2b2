package storefront

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dvalle/tienda/internal/domain"
	"github.com/dvalle/tienda/internal/telemetry"
)

// lineView is the JSON shape of a single cart line.
type lineView struct {
	ProductID      int64  `json:"product_id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	ImageURL       string `json:"image_url,omitempty"`
	UnitPrice      string `json:"unit_price"`
	Quantity       int    `json:"quantity"`
	AvailableStock int    `json:"available_stock"`
	Subtotal       string `json:"subtotal"`
}

// cartView is the JSON shape of the whole cart.
type cartView struct {
	Items     []lineView `json:"items"`
	ItemCount int        `json:"item_count"`
	Subtotal  string     `json:"subtotal"`
}

func newCartView(summary domain.CartSummary) cartView {
	view := cartView{
		Items:     make([]lineView, 0, len(summary.Lines)),
		ItemCount: summary.ItemCount,
		Subtotal:  summary.Subtotal().StringFixed(2),
	}
	for _, l := range summary.Lines {
		view.Items = append(view.Items, lineView{
			ProductID:      l.ProductID,
			Name:           l.Name,
			Slug:           l.Slug,
			ImageURL:       l.ImageURL,
			UnitPrice:      l.UnitPrice().StringFixed(2),
			Quantity:       l.Quantity,
			AvailableStock: l.AvailableStock,
			Subtotal:       l.Subtotal().StringFixed(2),
		})
	}
	return view
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error to an HTTP status and writes a JSON error
// body. Internal details never reach the client.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	code := domain.ErrorCode(err)

	var status int
	switch code {
	case domain.EINVALID:
		status = http.StatusBadRequest
	case domain.ENOTFOUND:
		status = http.StatusNotFound
	case domain.EUNAVAILABLE:
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}

	if status >= 500 {
		if logger != nil {
			logger.Error("request failed", "code", code, "error", err)
		}
		telemetry.CaptureError(err, map[string]interface{}{"code": code})
	}

	respondJSON(w, status, map[string]string{
		"error": domain.ErrorMessage(err),
		"code":  code,
	})
}
