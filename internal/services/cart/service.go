// Package cart manages per-user cart lines. The core invariant: at most one
// line exists per (user, menu item) pair, so repeated adds merge quantities
// instead of creating duplicates.
package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"food-order-system/internal/apperr"
	"food-order-system/internal/models"
	"food-order-system/internal/storage"
)

type Store interface {
	storage.CartStore
	GetMenuItem(ctx context.Context, id int) (models.MenuItem, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// AddItem merges the requested quantity into an existing line for the same
// menu item, or creates a new line. The referenced menu item must exist.
func (s *Service) AddItem(ctx context.Context, userID int, req models.AddCartItemRequest) (models.CartLine, error) {
	if err := req.Validate(); err != nil {
		return models.CartLine{}, err
	}

	if _, err := s.store.GetMenuItem(ctx, req.MenuItemID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return models.CartLine{}, apperr.FieldValidation("menu_item_id", "does not reference an existing menu item")
		}
		return models.CartLine{}, err
	}

	quantity := req.EffectiveQuantity()

	existing, err := s.store.GetCartLineByUserAndItem(ctx, userID, req.MenuItemID)
	if err == nil {
		existing.Quantity += quantity
		if len(req.Addons) > 0 {
			existing.Addons = req.Addons
		}
		if req.Instructions != nil {
			existing.Instructions = req.Instructions
		}
		return s.store.UpdateCartLine(ctx, existing)
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return models.CartLine{}, err
	}

	return s.store.CreateCartLine(ctx, models.CartLine{
		UserID:       userID,
		MenuItemID:   req.MenuItemID,
		Quantity:     quantity,
		Addons:       req.Addons,
		Instructions: req.Instructions,
	})
}

// UpdateQuantity sets a new quantity on a line the user owns. Missing and
// foreign lines both report not found.
func (s *Service) UpdateQuantity(ctx context.Context, lineID, userID int, req models.UpdateCartItemRequest) (models.CartLine, error) {
	if err := req.Validate(); err != nil {
		return models.CartLine{}, err
	}

	line, err := s.ownedLine(ctx, lineID, userID)
	if err != nil {
		return models.CartLine{}, err
	}

	line.Quantity = req.Quantity
	return s.store.UpdateCartLine(ctx, line)
}

// RemoveItem deletes a line the user owns. Deleting a missing or foreign
// line reports not found; there is no no-op success.
func (s *Service) RemoveItem(ctx context.Context, lineID, userID int) error {
	if _, err := s.ownedLine(ctx, lineID, userID); err != nil {
		return err
	}
	return s.store.DeleteCartLine(ctx, lineID)
}

// ListWithDetails joins each line with its current catalog entry. Lines whose
// menu item has since been deleted are dropped from the listing.
func (s *Service) ListWithDetails(ctx context.Context, userID int) ([]models.CartLineDetails, error) {
	lines, err := s.store.ListCartLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := make([]models.CartLineDetails, 0, len(lines))
	for _, line := range lines {
		item, err := s.store.GetMenuItem(ctx, line.MenuItemID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				continue
			}
			return nil, err
		}
		details = append(details, models.CartLineDetails{
			CartLine:  line,
			Item:      item,
			LineTotal: item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	return details, nil
}

// Clear removes every line the user has.
func (s *Service) Clear(ctx context.Context, userID int) error {
	return s.store.ClearCart(ctx, userID)
}

func (s *Service) ownedLine(ctx context.Context, lineID, userID int) (models.CartLine, error) {
	line, err := s.store.GetCartLine(ctx, lineID)
	if err != nil {
		return models.CartLine{}, err
	}
	if line.UserID != userID {
		return models.CartLine{}, apperr.NotFound("cart line", lineID)
	}
	return line, nil
}
