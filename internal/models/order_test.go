package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "processing", "delivering", "delivered", "cancelled"} {
		status, err := ParseOrderStatus(s)
		require.NoError(t, err)
		assert.Equal(t, OrderStatus(s), status)
	}

	_, err := ParseOrderStatus("shipped")
	require.Error(t, err)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusDelivering, true},
		{StatusDelivering, StatusDelivered, true},
		{StatusPending, StatusCancelled, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusDelivering, StatusCancelled, true},
		{StatusPending, StatusDelivering, false},
		{StatusPending, StatusDelivered, false},
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusProcessing, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransition(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
	assert.False(t, StatusDelivering.IsTerminal())
}

func TestCreateOrderRequestValidate(t *testing.T) {
	valid := CreateOrderRequest{
		Items: []OrderItem{{MenuItemID: 1, Quantity: 2}},
		Total: decimal.RequireFromString("25.98"),
	}
	require.NoError(t, valid.Validate())

	t.Run("empty items", func(t *testing.T) {
		req := valid
		req.Items = nil
		require.Error(t, req.Validate())
	})

	t.Run("zero quantity", func(t *testing.T) {
		req := valid
		req.Items = []OrderItem{{MenuItemID: 1, Quantity: 0}}
		require.Error(t, req.Validate())
	})

	t.Run("missing menu item id", func(t *testing.T) {
		req := valid
		req.Items = []OrderItem{{Quantity: 1}}
		require.Error(t, req.Validate())
	})

	t.Run("negative total", func(t *testing.T) {
		req := valid
		req.Total = decimal.RequireFromString("-0.01")
		require.Error(t, req.Validate())
	})
}

func TestCartSubtotal(t *testing.T) {
	lines := []CartLineDetails{
		{LineTotal: decimal.RequireFromString("25.98")},
		{LineTotal: decimal.RequireFromString("10.99")},
	}
	assert.True(t, CartSubtotal(lines).Equal(decimal.RequireFromString("36.97")))
	assert.True(t, CartSubtotal(nil).Equal(decimal.Zero))
}
