package models

import (
	"time"

	"github.com/shopspring/decimal"

	"food-order-system/internal/apperr"
)

// CartLine is one pending selection: a user's quantity of a menu item.
// Invariant: at most one line exists per (user, menu item) pair; repeated adds
// merge into the existing line.
type CartLine struct {
	ID           int       `json:"id" db:"id"`
	UserID       int       `json:"user_id" db:"user_id"`
	MenuItemID   int       `json:"menu_item_id" db:"menu_item_id"`
	Quantity     int       `json:"quantity" db:"quantity"`
	Addons       []string  `json:"addons,omitempty" db:"addons"`
	Instructions *string   `json:"instructions,omitempty" db:"instructions"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CartLineDetails joins a cart line with the current catalog entry for display.
// The item here is a live lookup, not the order-time snapshot.
type CartLineDetails struct {
	CartLine
	Item      MenuItem        `json:"item"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// AddCartItemRequest is the payload for POST /cart. Quantity defaults to 1
// when omitted.
type AddCartItemRequest struct {
	MenuItemID   int      `json:"menu_item_id"`
	Quantity     *int     `json:"quantity,omitempty"`
	Addons       []string `json:"addons,omitempty"`
	Instructions *string  `json:"instructions,omitempty"`
}

// UpdateCartItemRequest is the payload for PUT /cart/:id.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (req *AddCartItemRequest) Validate() error {
	if req.MenuItemID < 1 {
		return apperr.FieldValidation("menu_item_id", "is required")
	}
	if req.Quantity != nil && *req.Quantity < 1 {
		return apperr.FieldValidation("quantity", "must be at least 1")
	}
	return nil
}

// EffectiveQuantity returns the requested quantity, defaulting to 1.
func (req *AddCartItemRequest) EffectiveQuantity() int {
	if req.Quantity == nil {
		return 1
	}
	return *req.Quantity
}

func (req *UpdateCartItemRequest) Validate() error {
	if req.Quantity < 1 {
		return apperr.FieldValidation("quantity", "must be at least 1")
	}
	return nil
}

// CartSubtotal sums line totals across a cart.
func CartSubtotal(lines []CartLineDetails) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal)
	}
	return total
}
