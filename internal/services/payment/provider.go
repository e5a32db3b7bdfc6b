// Package payment creates payment intents. The provider hands back an opaque
// client secret the frontend uses to confirm the charge; the service never
// sees card data.
package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"food-order-system/internal/apperr"
)

// Intent is a pending charge created with the payment provider. Amount is in
// minor units (cents).
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// Provider creates payment intents with an external processor.
type Provider interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal) (Intent, error)
}

// CreateIntentRequest is the payload for POST /payment. Amount is in major
// units, matching order totals.
type CreateIntentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// FakeProvider issues intents locally without contacting a processor. Used
// for development and tests.
type FakeProvider struct {
	currency string
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{currency: "usd"}
}

// CreateIntent converts the amount to minor units and mints an opaque intent.
func (p *FakeProvider) CreateIntent(_ context.Context, amount decimal.Decimal) (Intent, error) {
	if !amount.IsPositive() {
		return Intent{}, apperr.FieldValidation("amount", "must be greater than zero")
	}

	id := "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return Intent{
		ID:           id,
		ClientSecret: fmt.Sprintf("%s_secret_%s", id, strings.ReplaceAll(uuid.NewString(), "-", "")),
		Amount:       amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		Currency:     p.currency,
	}, nil
}
