// Package order implements the order lifecycle: placing an order from the
// current cart contents, moving it through its status chain, and exposing its
// status history.
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"food-order-system/internal/apperr"
	"food-order-system/internal/auth"
	"food-order-system/internal/config"
	"food-order-system/internal/logger"
	"food-order-system/internal/models"
	"food-order-system/internal/storage"
)

// Store is the storage surface the order service needs: orders plus the cart
// and catalog lookups used while placing one.
type Store interface {
	storage.OrderStore
	GetMenuItem(ctx context.Context, id int) (models.MenuItem, error)
}

// EventPublisher announces order lifecycle events. May be nil when messaging
// is disabled.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order models.Order) error
	PublishOrderStatusChanged(ctx context.Context, order models.Order) error
}

type Service struct {
	store     Store
	publisher EventPublisher
	logger    *logger.Logger
	cfg       config.OrdersConfig
}

func NewService(store Store, publisher EventPublisher, log *logger.Logger, cfg config.OrdersConfig) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    log,
		cfg:       cfg,
	}
}

// Create places a new order for the user. Orders always start pending
// regardless of any status in the request; the user's cart is cleared in the
// same atomic step that persists the order.
func (s *Service) Create(ctx context.Context, userID int, req models.CreateOrderRequest) (models.Order, error) {
	if err := req.Validate(); err != nil {
		return models.Order{}, err
	}

	if s.cfg.VerifyTotal {
		if err := s.verifyTotal(ctx, req); err != nil {
			return models.Order{}, err
		}
	}

	order, err := s.store.PlaceOrder(ctx, models.Order{
		UserID:     userID,
		Items:      req.Items,
		Status:     models.StatusPending,
		Total:      req.Total,
		Address:    req.Address,
		PaymentRef: req.PaymentRef,
	})
	if err != nil {
		return models.Order{}, err
	}

	s.announce(order, func(o models.Order) error {
		return s.publisher.PublishOrderCreated(ctx, o)
	})

	return order, nil
}

// UpdateStatus moves an order to a new status. Under the strict policy the
// transition must follow the forward chain (cancel allowed from any
// non-terminal state); the permissive policy accepts any valid status.
func (s *Service) UpdateStatus(ctx context.Context, orderID int, req models.UpdateOrderStatusRequest, changedBy string) (models.Order, error) {
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		return models.Order{}, err
	}

	if s.cfg.StatusPolicy == config.PolicyStrict {
		current, err := s.store.GetOrder(ctx, orderID)
		if err != nil {
			return models.Order{}, err
		}
		if !current.Status.CanTransition(status) {
			return models.Order{}, apperr.Validation(
				"cannot transition order from %s to %s", current.Status, status)
		}
	}

	order, err := s.store.UpdateOrderStatus(ctx, orderID, status, changedBy)
	if err != nil {
		return models.Order{}, err
	}

	s.announce(order, func(o models.Order) error {
		return s.publisher.PublishOrderStatusChanged(ctx, o)
	})

	return order, nil
}

// ListByUser returns a user's orders with item details joined in. Callers may
// read their own orders; admins may read anyone's.
func (s *Service) ListByUser(ctx context.Context, userID int, caller auth.Claims) ([]models.OrderDetails, error) {
	if userID != caller.UserID && !caller.Admin {
		return nil, apperr.ErrForbidden
	}

	orders, err := s.store.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withDetails(ctx, orders)
}

// ListAll returns every order in the system.
func (s *Service) ListAll(ctx context.Context) ([]models.OrderDetails, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return s.withDetails(ctx, orders)
}

// History returns the recorded status transitions of one order. Only the
// order's owner and admins may read it.
func (s *Service) History(ctx context.Context, orderID int, caller auth.Claims) ([]models.StatusHistoryEntry, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != caller.UserID && !caller.Admin {
		return nil, apperr.ErrForbidden
	}
	return s.store.ListStatusHistory(ctx, orderID)
}

// verifyTotal recomputes the expected total from current catalog prices plus
// the delivery fee and rejects a mismatched request.
func (s *Service) verifyTotal(ctx context.Context, req models.CreateOrderRequest) error {
	subtotal := decimal.Zero
	for _, line := range req.Items {
		item, err := s.store.GetMenuItem(ctx, line.MenuItemID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.FieldValidation("items",
					fmt.Sprintf("menu item %d does not exist", line.MenuItemID))
			}
			return err
		}
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	expected := subtotal.Add(s.cfg.DeliveryFee)
	if !req.Total.Equal(expected) {
		return apperr.FieldValidation("total",
			fmt.Sprintf("expected %s (subtotal %s + delivery fee %s)", expected, subtotal, s.cfg.DeliveryFee))
	}
	return nil
}

// withDetails joins each order's snapshot lines with the current catalog. An
// item deleted since ordering leaves the detail entry without a catalog item.
func (s *Service) withDetails(ctx context.Context, orders []models.Order) ([]models.OrderDetails, error) {
	details := make([]models.OrderDetails, 0, len(orders))
	for _, order := range orders {
		d := models.OrderDetails{Order: order, ItemDetails: make([]models.OrderItemDetails, 0, len(order.Items))}
		for _, line := range order.Items {
			entry := models.OrderItemDetails{OrderItem: line}
			item, err := s.store.GetMenuItem(ctx, line.MenuItemID)
			if err == nil {
				entry.Item = &item
			} else if !errors.Is(err, apperr.ErrNotFound) {
				return nil, err
			}
			d.ItemDetails = append(d.ItemDetails, entry)
		}
		details = append(details, d)
	}
	return details, nil
}

// announce publishes an event without failing the request; the state change
// has already committed.
func (s *Service) announce(order models.Order, publish func(models.Order) error) {
	if s.publisher == nil {
		return
	}
	if err := publish(order); err != nil {
		s.logger.Error("event_publish_failed", "", "Failed to publish order event", err, map[string]any{
			"order_id": order.ID,
			"status":   order.Status,
		})
	}
}
