package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvalle/tienda/internal/domain"
)

func TestBuildRequest(t *testing.T) {
	summary := domain.CartSummary{
		Lines: []domain.CartLine{
			{ProductID: 1, Name: "Planter", Slug: "planter", UnitPriceCents: 1999, Quantity: 2, AvailableStock: 10},
			{ProductID: 2, Name: "Watering can", Slug: "watering-can", UnitPriceCents: 501, Quantity: 1, AvailableStock: 3},
		},
		ItemCount:     3,
		SubtotalCents: 4499,
	}

	req, err := BuildRequest("session-a", summary)
	require.NoError(t, err)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, "session-a", req.SessionID)
	assert.Equal(t, 3, req.ItemCount)
	assert.Equal(t, int64(4499), req.TotalCents)
	assert.Equal(t, "44.99", req.Total)
	assert.False(t, req.SubmittedAt.IsZero())

	require.Len(t, req.Lines, 2)
	assert.Equal(t, int64(1), req.Lines[0].ProductID)
	assert.Equal(t, int64(3998), req.Lines[0].SubtotalCents)
	assert.Equal(t, int64(501), req.Lines[1].SubtotalCents)
}

func TestBuildRequest_EmptyCart(t *testing.T) {
	_, err := BuildRequest("session-a", domain.CartSummary{})
	require.ErrorIs(t, err, domain.ErrCartEmpty)
}

func TestBuildRequest_UniqueIDs(t *testing.T) {
	summary := domain.CartSummary{
		Lines:         []domain.CartLine{{ProductID: 1, Name: "X", Slug: "x", UnitPriceCents: 100, Quantity: 1, AvailableStock: 1}},
		ItemCount:     1,
		SubtotalCents: 100,
	}

	a, err := BuildRequest("s", summary)
	require.NoError(t, err)
	b, err := BuildRequest("s", summary)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
