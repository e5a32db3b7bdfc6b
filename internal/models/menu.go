package models

import (
	"time"

	"github.com/shopspring/decimal"

	"food-order-system/internal/apperr"
)

// NutritionInfo is optional nutrition data attached to a menu item.
type NutritionInfo struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// MenuItem is a catalog entry. Orders never reference it live: order lines
// capture a snapshot at order time, so later edits here do not rewrite history.
type MenuItem struct {
	ID          int             `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Category    string          `json:"category" db:"category"`
	Rating      float64         `json:"rating" db:"rating"`
	Popular     bool            `json:"popular" db:"popular"`
	DietaryTags []string        `json:"dietary_tags,omitempty" db:"dietary_tags"`
	Nutrition   *NutritionInfo  `json:"nutrition,omitempty" db:"nutrition"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// MenuItemRequest is the payload for creating or updating a menu item.
type MenuItemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Rating      float64         `json:"rating"`
	Popular     bool            `json:"popular"`
	DietaryTags []string        `json:"dietary_tags,omitempty"`
	Nutrition   *NutritionInfo  `json:"nutrition,omitempty"`
}

func (req *MenuItemRequest) Validate() error {
	if len(req.Name) == 0 {
		return apperr.FieldValidation("name", "is required")
	}
	if len(req.Name) > 100 {
		return apperr.FieldValidation("name", "must not exceed 100 characters")
	}
	if req.Price.IsNegative() {
		return apperr.FieldValidation("price", "must not be negative")
	}
	if len(req.Category) == 0 {
		return apperr.FieldValidation("category", "is required")
	}
	if req.Rating < 0 || req.Rating > 5 {
		return apperr.FieldValidation("rating", "must be between 0 and 5")
	}
	return nil
}
