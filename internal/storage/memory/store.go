// Package memory is the in-process entity store. It is safe for concurrent
// use and is the default backend for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"food-order-system/internal/apperr"
	"food-order-system/internal/models"
	"food-order-system/internal/storage"
)

// Store keeps every entity in maps guarded by one mutex. Identifiers are
// monotonically increasing integers, counted per entity type from 1.
type Store struct {
	mu sync.RWMutex

	nextUserID  int
	nextItemID  int
	nextLineID  int
	nextOrderID int

	users     map[int]models.User
	userNames map[string]int
	menuItems map[int]models.MenuItem
	cartLines map[int]models.CartLine
	orders    map[int]models.Order
	history   map[int][]models.StatusHistoryEntry
}

var _ storage.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextUserID:  1,
		nextItemID:  1,
		nextLineID:  1,
		nextOrderID: 1,
		users:       make(map[int]models.User),
		userNames:   make(map[string]int),
		menuItems:   make(map[int]models.MenuItem),
		cartLines:   make(map[int]models.CartLine),
		orders:      make(map[int]models.Order),
		history:     make(map[int][]models.StatusHistoryEntry),
	}
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() {}

// UserStore implementation ---------------------------------------------------

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.NormalizeUsername(user.Username)
	if _, exists := s.userNames[key]; exists {
		return models.User{}, apperr.FieldValidation("username", "is already taken")
	}

	user.ID = s.nextUserID
	s.nextUserID++
	user.CreatedAt = time.Now().UTC()

	s.users[user.ID] = user
	s.userNames[key] = user.ID
	return user, nil
}

func (s *Store) GetUser(_ context.Context, id int) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, apperr.NotFound("user", id)
	}
	return user, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userNames[models.NormalizeUsername(username)]
	if !ok {
		return models.User{}, apperr.ErrNotFound
	}
	return s.users[id], nil
}

// MenuStore implementation ---------------------------------------------------

func (s *Store) CreateMenuItem(_ context.Context, item models.MenuItem) (models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = s.nextItemID
	s.nextItemID++

	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	s.menuItems[item.ID] = cloneMenuItem(item)
	return item, nil
}

func (s *Store) GetMenuItem(_ context.Context, id int) (models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.menuItems[id]
	if !ok {
		return models.MenuItem{}, apperr.NotFound("menu item", id)
	}
	return cloneMenuItem(item), nil
}

func (s *Store) ListMenuItems(_ context.Context) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.MenuItem, 0, len(s.menuItems))
	for _, item := range s.menuItems {
		result = append(result, cloneMenuItem(item))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) UpdateMenuItem(_ context.Context, item models.MenuItem) (models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.menuItems[item.ID]
	if !ok {
		return models.MenuItem{}, apperr.NotFound("menu item", item.ID)
	}

	item.CreatedAt = original.CreatedAt
	item.UpdatedAt = time.Now().UTC()

	s.menuItems[item.ID] = cloneMenuItem(item)
	return item, nil
}

func (s *Store) DeleteMenuItem(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.menuItems[id]; !ok {
		return apperr.NotFound("menu item", id)
	}
	delete(s.menuItems, id)
	return nil
}

// CartStore implementation ---------------------------------------------------

func (s *Store) CreateCartLine(_ context.Context, line models.CartLine) (models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line.ID = s.nextLineID
	s.nextLineID++

	now := time.Now().UTC()
	line.CreatedAt = now
	line.UpdatedAt = now

	s.cartLines[line.ID] = cloneCartLine(line)
	return line, nil
}

func (s *Store) GetCartLine(_ context.Context, id int) (models.CartLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	line, ok := s.cartLines[id]
	if !ok {
		return models.CartLine{}, apperr.NotFound("cart line", id)
	}
	return cloneCartLine(line), nil
}

func (s *Store) GetCartLineByUserAndItem(_ context.Context, userID, menuItemID int) (models.CartLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, line := range s.cartLines {
		if line.UserID == userID && line.MenuItemID == menuItemID {
			return cloneCartLine(line), nil
		}
	}
	return models.CartLine{}, apperr.ErrNotFound
}

func (s *Store) ListCartLines(_ context.Context, userID int) ([]models.CartLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.CartLine, 0)
	for _, line := range s.cartLines {
		if line.UserID == userID {
			result = append(result, cloneCartLine(line))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) UpdateCartLine(_ context.Context, line models.CartLine) (models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.cartLines[line.ID]
	if !ok {
		return models.CartLine{}, apperr.NotFound("cart line", line.ID)
	}

	line.CreatedAt = original.CreatedAt
	line.UpdatedAt = time.Now().UTC()

	s.cartLines[line.ID] = cloneCartLine(line)
	return line, nil
}

func (s *Store) DeleteCartLine(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cartLines[id]; !ok {
		return apperr.NotFound("cart line", id)
	}
	delete(s.cartLines, id)
	return nil
}

func (s *Store) ClearCart(_ context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearCartLocked(userID)
	return nil
}

func (s *Store) clearCartLocked(userID int) {
	for id, line := range s.cartLines {
		if line.UserID == userID {
			delete(s.cartLines, id)
		}
	}
}

// OrderStore implementation --------------------------------------------------

func (s *Store) PlaceOrder(_ context.Context, order models.Order) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = s.nextOrderID
	s.nextOrderID++

	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.Items = append([]models.OrderItem(nil), order.Items...)

	s.orders[order.ID] = order
	s.history[order.ID] = []models.StatusHistoryEntry{{
		Status:    order.Status,
		ChangedBy: "system",
		ChangedAt: now,
	}}
	s.clearCartLocked(order.UserID)
	return order, nil
}

func (s *Store) GetOrder(_ context.Context, id int) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return models.Order{}, apperr.NotFound("order", id)
	}
	return cloneOrder(order), nil
}

func (s *Store) ListOrders(_ context.Context) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Order, 0, len(s.orders))
	for _, order := range s.orders {
		result = append(result, cloneOrder(order))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) ListOrdersByUser(_ context.Context, userID int) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Order, 0)
	for _, order := range s.orders {
		if order.UserID == userID {
			result = append(result, cloneOrder(order))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, id int, status models.OrderStatus, changedBy string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return models.Order{}, apperr.NotFound("order", id)
	}

	now := time.Now().UTC()
	order.Status = status
	order.UpdatedAt = now

	s.orders[id] = order
	s.history[id] = append(s.history[id], models.StatusHistoryEntry{
		Status:    status,
		ChangedBy: changedBy,
		ChangedAt: now,
	})
	return cloneOrder(order), nil
}

func (s *Store) ListStatusHistory(_ context.Context, orderID int) ([]models.StatusHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.orders[orderID]; !ok {
		return nil, apperr.NotFound("order", orderID)
	}
	return append([]models.StatusHistoryEntry(nil), s.history[orderID]...), nil
}

// Helpers --------------------------------------------------------------------

func cloneMenuItem(item models.MenuItem) models.MenuItem {
	item.DietaryTags = append([]string(nil), item.DietaryTags...)
	if item.Nutrition != nil {
		n := *item.Nutrition
		item.Nutrition = &n
	}
	return item
}

func cloneCartLine(line models.CartLine) models.CartLine {
	line.Addons = append([]string(nil), line.Addons...)
	if line.Instructions != nil {
		v := *line.Instructions
		line.Instructions = &v
	}
	return line
}

func cloneOrder(order models.Order) models.Order {
	order.Items = append([]models.OrderItem(nil), order.Items...)
	return order
}
