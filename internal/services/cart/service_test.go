package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-order-system/internal/apperr"
	"food-order-system/internal/models"
	"food-order-system/internal/storage/memory"
)

func newFixture(t *testing.T) (*Service, *memory.Store, models.MenuItem) {
	t.Helper()
	store := memory.New()
	item, err := store.CreateMenuItem(context.Background(), models.MenuItem{
		Name:     "Margherita",
		Price:    decimal.RequireFromString("12.99"),
		Category: "pizza",
	})
	require.NoError(t, err)
	return NewService(store), store, item
}

func intPtr(v int) *int { return &v }

func TestAddItemMergesIntoExistingLine(t *testing.T) {
	svc, _, item := newFixture(t)
	ctx := context.Background()

	first, err := svc.AddItem(ctx, 1, models.AddCartItemRequest{MenuItemID: item.ID, Quantity: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	second, err := svc.AddItem(ctx, 1, models.AddCartItemRequest{MenuItemID: item.ID, Quantity: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "repeated add must reuse the existing line")
	assert.Equal(t, 5, second.Quantity)

	lines, err := svc.ListWithDetails(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	svc, _, item := newFixture(t)

	line, err := svc.AddItem(context.Background(), 1, models.AddCartItemRequest{MenuItemID: item.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)
}

func TestAddItemRejectsBadInput(t *testing.T) {
	svc, _, item := newFixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, models.AddCartItemRequest{MenuItemID: item.ID, Quantity: intPtr(0)})
	require.Error(t, err, "quantity below 1")

	_, err = svc.AddItem(ctx, 1, models.AddCartItemRequest{MenuItemID: 999, Quantity: intPtr(1)})
	require.Error(t, err, "unknown menu item")
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestSeparateUsersGetSeparateLines(t *testing.T) {
	svc, _, item := newFixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, models.AddCartItemRequest{MenuItemID: item.ID, Quantity: intPtr(1)})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 2, models.AddCartItemRequest{MenuItemID: item.ID, Quantity: intPtr(1)})
	require.NoError(t, err)

	mine, err := svc.ListWithDetails(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.ListWithDetails(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
	assert.NotEqual(t, mine[0].ID, theirs[0].ID)
}

func TestUpdateQuantityOwnershipCheck(t *testing.T) {
	svc, _, item := newFixture(t)
	ctx := context.Background()

	line, err := svc.AddItem(ctx, 1, models.AddCartItemRequest{MenuItemID: item.ID, Quantity: intPtr(2)})
	require.NoError(t, err)

	// Foreign user: not found, state untouched.
	_, err = svc.UpdateQuantity(ctx, line.ID, 2, models.UpdateCartItemRequest{Quantity: 9})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	lines, err := svc.ListWithDetails(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)

	// Owner succeeds.
	updated, err := svc.UpdateQuantity(ctx, line.ID, 1, models.UpdateCartItemRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	// Invalid quantity.
	_, err = svc.UpdateQuantity(ctx, line.ID, 1, models.UpdateCartItemRequest{Quantity: 0})
	require.Error(t, err)
}

func TestRemoveItemOwnershipAndIdempotence(t *testing.T) {
	svc, _, item := newFixture(t)
	ctx := context.Background()

	line, err := svc.AddItem(ctx, 1, models.AddCartItemRequest{MenuItemID: item.ID, Quantity: intPtr(1)})
	require.NoError(t, err)

	err = svc.RemoveItem(ctx, line.ID, 2)
	assert.ErrorIs(t, err, apperr.ErrNotFound, "foreign user cannot delete")

	require.NoError(t, svc.RemoveItem(ctx, line.ID, 1))

	// Second delete of the same line reports not found.
	err = svc.RemoveItem(ctx, line.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListWithDetailsComputesLineTotals(t *testing.T) {
	svc, store, item := newFixture(t)
	ctx := context.Background()

	other, err := store.CreateMenuItem(ctx, models.MenuItem{
		Name:     "Tiramisu",
		Price:    decimal.RequireFromString("10.99"),
		Category: "dessert",
	})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, 1, models.AddCartItemRequest{MenuItemID: item.ID, Quantity: intPtr(2)})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 1, models.AddCartItemRequest{MenuItemID: other.ID, Quantity: intPtr(1)})
	require.NoError(t, err)

	details, err := svc.ListWithDetails(ctx, 1)
	require.NoError(t, err)
	require.Len(t, details, 2)

	assert.True(t, details[0].LineTotal.Equal(decimal.RequireFromString("25.98")))
	assert.True(t, details[1].LineTotal.Equal(decimal.RequireFromString("10.99")))
	assert.True(t, models.CartSubtotal(details).Equal(decimal.RequireFromString("36.97")))
}

func TestClearEmptiesOnlyOwnCart(t *testing.T) {
	svc, _, item := newFixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, models.AddCartItemRequest{MenuItemID: item.ID, Quantity: intPtr(1)})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 2, models.AddCartItemRequest{MenuItemID: item.ID, Quantity: intPtr(1)})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, 1))

	mine, err := svc.ListWithDetails(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := svc.ListWithDetails(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}
