// Package menu implements the catalog: admin-managed items, public browsing
// with substring search and category filtering.
package menu

import (
	"context"
	"strings"

	"food-order-system/internal/models"
	"food-order-system/internal/storage"
)

type Service struct {
	store storage.MenuStore
}

func NewService(store storage.MenuStore) *Service {
	return &Service{store: store}
}

// List returns catalog items, optionally filtered by a case-insensitive
// substring match on name/description and an exact category.
func (s *Service) List(ctx context.Context, search, category string) ([]models.MenuItem, error) {
	items, err := s.store.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}

	if search == "" && category == "" {
		return items, nil
	}

	needle := strings.ToLower(search)
	filtered := make([]models.MenuItem, 0, len(items))
	for _, item := range items {
		if category != "" && item.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(item.Name), needle) &&
			!strings.Contains(strings.ToLower(item.Description), needle) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

func (s *Service) Get(ctx context.Context, id int) (models.MenuItem, error) {
	return s.store.GetMenuItem(ctx, id)
}

func (s *Service) Create(ctx context.Context, req models.MenuItemRequest) (models.MenuItem, error) {
	if err := req.Validate(); err != nil {
		return models.MenuItem{}, err
	}
	return s.store.CreateMenuItem(ctx, itemFromRequest(req))
}

func (s *Service) Update(ctx context.Context, id int, req models.MenuItemRequest) (models.MenuItem, error) {
	if err := req.Validate(); err != nil {
		return models.MenuItem{}, err
	}

	item := itemFromRequest(req)
	item.ID = id
	return s.store.UpdateMenuItem(ctx, item)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.store.DeleteMenuItem(ctx, id)
}

func itemFromRequest(req models.MenuItemRequest) models.MenuItem {
	return models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Rating:      req.Rating,
		Popular:     req.Popular,
		DietaryTags: req.DietaryTags,
		Nutrition:   req.Nutrition,
	}
}
