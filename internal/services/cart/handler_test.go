package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-order-system/internal/auth"
	"food-order-system/internal/logger"
	"food-order-system/internal/models"
	"food-order-system/internal/storage/memory"
	"food-order-system/internal/web"
)

type apiFixture struct {
	router *mux.Router
	store  *memory.Store
	item   models.MenuItem
	token  string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.New()

	item, err := store.CreateMenuItem(context.Background(), models.MenuItem{
		Name:     "Margherita",
		Price:    decimal.RequireFromString("12.99"),
		Category: "pizza",
	})
	require.NoError(t, err)

	manager := auth.NewManager("test-secret")
	token, err := manager.IssueToken(1, false)
	require.NoError(t, err)

	router := mux.NewRouter()
	handler := NewHandler(NewService(store), logger.New("cart-test"))
	handler.Register(router, web.Authenticate(manager))

	return &apiFixture{router: router, store: store, item: item, token: token}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestCartRequiresAuthentication(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartAddThenGet(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/cart", models.AddCartItemRequest{MenuItemID: f.item.ID, Quantity: intPtr(2)})
	require.Equal(t, http.StatusCreated, rec.Code)

	var line models.CartLine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &line))
	assert.Equal(t, 2, line.Quantity)

	rec = f.do(t, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var details []models.CartLineDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
	require.Len(t, details, 1)
	assert.Equal(t, "Margherita", details[0].Item.Name)
}

func TestCartAddUnknownItemReturnsBadRequest(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/cart", models.AddCartItemRequest{MenuItemID: 999})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartDeleteIsNotIdempotent(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/cart", models.AddCartItemRequest{MenuItemID: f.item.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	var line models.CartLine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &line))

	path := fmt.Sprintf("/cart/%d", line.ID)
	rec = f.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartUpdateForeignLineReturnsNotFound(t *testing.T) {
	f := newAPIFixture(t)

	line, err := f.store.CreateCartLine(context.Background(), models.CartLine{
		UserID:     2,
		MenuItemID: f.item.ID,
		Quantity:   1,
	})
	require.NoError(t, err)

	rec := f.do(t, http.MethodPut, fmt.Sprintf("/cart/%d", line.ID), models.UpdateCartItemRequest{Quantity: 5})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
