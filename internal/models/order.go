package models

import (
	"time"

	"github.com/shopspring/decimal"

	"food-order-system/internal/apperr"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusDelivering OrderStatus = "delivering"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus validates a status against the closed enumeration.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusProcessing, StatusDelivering, StatusDelivered, StatusCancelled:
		return OrderStatus(s), nil
	default:
		return "", apperr.FieldValidation("status",
			"must be one of: pending, processing, delivering, delivered, cancelled")
	}
}

// IsTerminal reports whether no further transitions leave this status.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether the strict policy allows moving from s to next.
// The forward chain is pending -> processing -> delivering -> delivered;
// cancelled is reachable from any non-terminal state.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusDelivering
	case StatusDelivering:
		return next == StatusDelivered
	}
	return false
}

// OrderItem is a snapshot line captured at order time. It stores only the
// menu item id and quantity; later menu edits never touch it.
type OrderItem struct {
	MenuItemID int `json:"menu_item_id" db:"menu_item_id"`
	Quantity   int `json:"quantity" db:"quantity"`
}

// Order is an immutable purchase record. Only its status changes after
// creation; it is never deleted.
type Order struct {
	ID         int             `json:"id" db:"id"`
	UserID     int             `json:"user_id" db:"user_id"`
	Items      []OrderItem     `json:"items"`
	Status     OrderStatus     `json:"status" db:"status"`
	Total      decimal.Decimal `json:"total" db:"total"`
	Address    *string         `json:"address,omitempty" db:"address"`
	PaymentRef *string         `json:"payment_ref,omitempty" db:"payment_ref"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// OrderDetails joins order lines with their current catalog entries for display.
type OrderDetails struct {
	Order
	ItemDetails []OrderItemDetails `json:"item_details"`
}

type OrderItemDetails struct {
	OrderItem
	Item *MenuItem `json:"item,omitempty"`
}

// StatusHistoryEntry is one recorded transition in an order's lifecycle.
type StatusHistoryEntry struct {
	Status    OrderStatus `json:"status" db:"status"`
	ChangedBy string      `json:"changed_by" db:"changed_by"`
	ChangedAt time.Time   `json:"timestamp" db:"changed_at"`
}

// CreateOrderRequest is the payload for POST /orders. Any status supplied by
// the client is ignored: new orders always start pending.
type CreateOrderRequest struct {
	Items      []OrderItem     `json:"items"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status,omitempty"`
	Address    *string         `json:"address,omitempty"`
	PaymentRef *string         `json:"payment_ref,omitempty"`
}

// UpdateOrderStatusRequest is the payload for PATCH /orders/:id.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (req *CreateOrderRequest) Validate() error {
	if len(req.Items) == 0 {
		return apperr.FieldValidation("items", "must not be empty")
	}
	for _, item := range req.Items {
		if item.MenuItemID < 1 {
			return apperr.FieldValidation("items", "menu_item_id is required on every item")
		}
		if item.Quantity < 1 {
			return apperr.FieldValidation("items", "quantity must be at least 1")
		}
	}
	if req.Total.IsNegative() {
		return apperr.FieldValidation("total", "must not be negative")
	}
	return nil
}
