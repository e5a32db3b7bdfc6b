package order

import (
	"bytes"
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
	"food-order-system/internal/web"
)

type httpFixture struct {
	*orderFixture
	router     *mux.Router
	userToken  string
	otherToken string
	adminToken string
}

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()
	f := newOrderFixture(t, permissive())

	manager := auth.NewManager("test-secret")
	userToken, err := manager.IssueToken(1, false)
	require.NoError(t, err)
	otherToken, err := manager.IssueToken(2, false)
	require.NoError(t, err)
	adminToken, err := manager.IssueToken(9, true)
	require.NoError(t, err)

	router := mux.NewRouter()
	NewHandler(f.svc, logger.New("order-test")).Register(router, web.Authenticate(manager))

	return &httpFixture{
		orderFixture: f,
		router:       router,
		userToken:    userToken,
		otherToken:   otherToken,
		adminToken:   adminToken,
	}
}

func (f *httpFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *httpFixture) placeOrder(t *testing.T) models.Order {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/orders", f.userToken, models.CreateOrderRequest{
		Items: []models.OrderItem{{MenuItemID: f.pizza.ID, Quantity: 1}},
		Total: decimal.RequireFromString("12.99"),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	return order
}

func TestPlaceOrderEndpoint(t *testing.T) {
	f := newHTTPFixture(t)

	order := f.placeOrder(t)
	assert.Equal(t, 1, order.UserID)
	assert.Equal(t, models.StatusPending, order.Status)
}

func TestPlaceOrderRequiresAuthentication(t *testing.T) {
	f := newHTTPFixture(t)

	rec := f.do(t, http.MethodPost, "/orders", "", models.CreateOrderRequest{
		Items: []models.OrderItem{{MenuItemID: f.pizza.ID, Quantity: 1}},
		Total: decimal.RequireFromString("12.99"),
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListOrdersByUserForbiddenForOthers(t *testing.T) {
	f := newHTTPFixture(t)
	f.placeOrder(t)

	rec := f.do(t, http.MethodGet, "/orders/1", f.otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/orders/1", f.userToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/orders/1", f.adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListAllOrdersIsAdminOnly(t *testing.T) {
	f := newHTTPFixture(t)
	f.placeOrder(t)

	rec := f.do(t, http.MethodGet, "/orders", f.userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/orders", f.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []models.OrderDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)
}

func TestUpdateStatusIsAdminOnly(t *testing.T) {
	f := newHTTPFixture(t)
	order := f.placeOrder(t)
	path := fmt.Sprintf("/orders/%d", order.ID)

	rec := f.do(t, http.MethodPatch, path, f.userToken, models.UpdateOrderStatusRequest{Status: "processing"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPatch, path, f.adminToken, models.UpdateOrderStatusRequest{Status: "processing"})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, models.StatusProcessing, updated.Status)
}

func TestUpdateStatusRejectsInvalidStatus(t *testing.T) {
	f := newHTTPFixture(t)
	order := f.placeOrder(t)

	rec := f.do(t, http.MethodPatch, fmt.Sprintf("/orders/%d", order.ID), f.adminToken,
		models.UpdateOrderStatusRequest{Status: "shipped"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusMissingOrderReturnsNotFound(t *testing.T) {
	f := newHTTPFixture(t)

	rec := f.do(t, http.MethodPatch, "/orders/404", f.adminToken,
		models.UpdateOrderStatusRequest{Status: "processing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderHistoryEndpoint(t *testing.T) {
	f := newHTTPFixture(t)
	order := f.placeOrder(t)
	path := fmt.Sprintf("/orders/%d/history", order.ID)

	rec := f.do(t, http.MethodGet, path, f.otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, path, f.userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var history []models.StatusHistoryEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, models.StatusPending, history[0].Status)
}
