// Package storage defines the entity store capability consumed by the
// services. Two backends implement it: an in-process map store and a
// PostgreSQL store, selected by configuration at startup.
package storage

import (
	"context"

	"food-order-system/internal/models"
)

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, id int) (models.User, error)
	// GetUserByUsername matches case-insensitively.
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

// MenuStore persists the catalog.
type MenuStore interface {
	CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	GetMenuItem(ctx context.Context, id int) (models.MenuItem, error)
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int) error
}

// CartStore persists cart lines.
type CartStore interface {
	CreateCartLine(ctx context.Context, line models.CartLine) (models.CartLine, error)
	GetCartLine(ctx context.Context, id int) (models.CartLine, error)
	// GetCartLineByUserAndItem supports the one-line-per-(user,item) invariant.
	GetCartLineByUserAndItem(ctx context.Context, userID, menuItemID int) (models.CartLine, error)
	ListCartLines(ctx context.Context, userID int) ([]models.CartLine, error)
	UpdateCartLine(ctx context.Context, line models.CartLine) (models.CartLine, error)
	DeleteCartLine(ctx context.Context, id int) error
	ClearCart(ctx context.Context, userID int) error
}

// OrderStore persists orders and their status history.
type OrderStore interface {
	// PlaceOrder creates the order, records the initial status history entry,
	// and clears the owning user's cart as one atomic operation.
	PlaceOrder(ctx context.Context, order models.Order) (models.Order, error)
	GetOrder(ctx context.Context, id int) (models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByUser(ctx context.Context, userID int) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus, changedBy string) (models.Order, error)
	ListStatusHistory(ctx context.Context, orderID int) ([]models.StatusHistoryEntry, error)
}

// Store is the full entity store handed to the services.
type Store interface {
	UserStore
	MenuStore
	CartStore
	OrderStore

	Ping(ctx context.Context) error
	Close()
}
