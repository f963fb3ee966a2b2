// Package events publishes storefront activity to NATS so downstream
// consumers (back-office, notifications) can react to cart and order events.
// The publisher is optional: a nil *Publisher is safe to call and does nothing.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dvalle/tienda/internal/order"
)

const (
	SubjectOrderSubmitted = "tienda.order.submitted"
	SubjectCartCleared    = "tienda.cart.cleared"
)

// Publisher emits JSON events over a NATS connection.
type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewPublisher connects to the NATS server at url.
func NewPublisher(url string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := nats.Connect(url,
		nats.Name("tienda-storefront"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Publisher{conn: conn, logger: logger}, nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("failed to drain NATS connection", "error", err)
	}
}

// OrderSubmitted publishes a finalized order request.
// Publishing is best-effort; a failure is logged, never propagated, so a
// broker outage cannot block checkout.
func (p *Publisher) OrderSubmitted(ctx context.Context, req *order.Request) {
	p.publish(SubjectOrderSubmitted, req)
}

// CartCleared announces that a session's cart was emptied.
func (p *Publisher) CartCleared(ctx context.Context, sessionID string) {
	p.publish(SubjectCartCleared, map[string]string{
		"session_id": sessionID,
		"cleared_at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (p *Publisher) publish(subject string, payload any) {
	if p == nil || p.conn == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Warn("failed to marshal event", "subject", subject, "error", err)
		return
	}

	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
