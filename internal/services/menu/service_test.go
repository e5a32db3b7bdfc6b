package menu

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-order-system/internal/models"
	"food-order-system/internal/storage/memory"
)

func seedCatalog(t *testing.T) *Service {
	t.Helper()
	store := memory.New()
	svc := NewService(store)
	ctx := context.Background()

	items := []models.MenuItemRequest{
		{Name: "Margherita Pizza", Description: "Classic tomato and mozzarella", Price: decimal.RequireFromString("12.99"), Category: "pizza"},
		{Name: "Pepperoni Pizza", Description: "Spicy pepperoni", Price: decimal.RequireFromString("14.50"), Category: "pizza"},
		{Name: "Caesar Salad", Description: "Romaine with parmesan", Price: decimal.RequireFromString("8.75"), Category: "salad"},
	}
	for _, req := range items {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}
	return svc
}

func TestListUnfiltered(t *testing.T) {
	svc := seedCatalog(t)

	items, err := svc.List(context.Background(), "", "")
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestListSearchIsCaseInsensitiveSubstring(t *testing.T) {
	svc := seedCatalog(t)

	items, err := svc.List(context.Background(), "PIZZA", "")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	// Matches on description too.
	items, err = svc.List(context.Background(), "parmesan", "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Caesar Salad", items[0].Name)
}

func TestListCategoryFilterIsExact(t *testing.T) {
	svc := seedCatalog(t)

	items, err := svc.List(context.Background(), "", "salad")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Caesar Salad", items[0].Name)

	items, err = svc.List(context.Background(), "", "SALAD")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListCombinedFilters(t *testing.T) {
	svc := seedCatalog(t)

	items, err := svc.List(context.Background(), "pepperoni", "pizza")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Pepperoni Pizza", items[0].Name)

	items, err = svc.List(context.Background(), "pepperoni", "salad")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(memory.New())
	ctx := context.Background()

	_, err := svc.Create(ctx, models.MenuItemRequest{Category: "pizza", Price: decimal.NewFromInt(1)})
	require.Error(t, err, "missing name")

	_, err = svc.Create(ctx, models.MenuItemRequest{Name: "Pizza", Category: "pizza", Price: decimal.NewFromInt(-1)})
	require.Error(t, err, "negative price")

	_, err = svc.Create(ctx, models.MenuItemRequest{Name: "Pizza", Price: decimal.NewFromInt(1)})
	require.Error(t, err, "missing category")
}

func TestUpdateMissingItem(t *testing.T) {
	svc := NewService(memory.New())

	_, err := svc.Update(context.Background(), 42, models.MenuItemRequest{
		Name:     "Ghost",
		Price:    decimal.NewFromInt(1),
		Category: "pizza",
	})
	require.Error(t, err)
}
