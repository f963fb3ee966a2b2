// Package catalog is the read-only client for the external catalog API.
// The cart never talks to the catalog itself; handlers resolve product facts
// here before building a line candidate.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"github.com/dvalle/tienda/internal/domain"
)

// Product is the catalog's view of a product at lookup time. Price and stock
// are facts of that moment; the cart snapshots them and never re-reads.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	IsInStock     bool            `json:"is_in_stock"`
	MainImageURL  string          `json:"main_image_url"`
}

// PriceCents returns the price in minor currency units.
func (p Product) PriceCents() int64 {
	return p.Price.Shift(2).IntPart()
}

// ProductSource is the lookup interface consumed by the storefront handlers.
type ProductSource interface {
	GetProduct(ctx context.Context, id int64) (*Product, error)
}

// Client implements ProductSource over HTTP. Lookups for the same product id
// are collapsed with singleflight, and the backend is shielded by a circuit
// breaker so a catalog outage fails fast instead of piling up requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*Product]
	group      singleflight.Group
	logger     *slog.Logger
}

// NewClient creates a catalog client for the API at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[*Product](gobreaker.Settings{
		Name:    "catalog",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A 404 is a healthy answer, not a backend failure
		IsSuccessful: func(err error) bool {
			return err == nil || domain.IsCode(err, domain.ENOTFOUND)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("catalog circuit breaker state change",
				"from", from.String(), "to", to.String())
		},
	})

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
		logger:     logger,
	}
}

// GetProduct looks up a product by id.
// Returns a domain not-found error for unknown ids; transport failures and
// an open breaker surface as EUNAVAILABLE.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	key := strconv.FormatInt(id, 10)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		return c.breaker.Execute(func() (*Product, error) {
			return c.fetchProduct(ctx, id)
		})
	})
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, err
		}
		return nil, domain.Unavailable(err, "catalog.get", "catalog is unavailable")
	}

	return v.(*Product), nil
}

func (c *Client) fetchProduct(ctx context.Context, id int64) (*Product, error) {
	url := fmt.Sprintf("%s/api/products/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return nil, domain.NotFound("catalog.get", "product", strconv.FormatInt(id, 10))
	default:
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var product Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return &product, nil
}
