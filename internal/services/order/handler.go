package order

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"food-order-system/internal/apperr"
	"food-order-system/internal/auth"
	"food-order-system/internal/logger"
	"food-order-system/internal/models"
	"food-order-system/internal/web"
)

// Handler handles HTTP requests for orders.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Register mounts the order routes. Placing and reading orders requires an
// authenticated user; listing all orders and changing status require admin.
func (h *Handler) Register(r *mux.Router, authenticate mux.MiddlewareFunc) {
	user := r.NewRoute().Subrouter()
	user.Use(authenticate)
	user.HandleFunc("/orders", h.Create).Methods(http.MethodPost)
	user.HandleFunc("/orders/{id:[0-9]+}/history", h.History).Methods(http.MethodGet)
	user.HandleFunc("/orders/{userId:[0-9]+}", h.ListByUser).Methods(http.MethodGet)

	admin := r.NewRoute().Subrouter()
	admin.Use(authenticate, web.RequireAdmin)
	admin.HandleFunc("/orders", h.ListAll).Methods(http.MethodGet)
	admin.HandleFunc("/orders/{id:[0-9]+}", h.UpdateStatus).Methods(http.MethodPatch)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		web.WriteError(w, r, apperr.ErrUnauthorized)
		return
	}

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, r, apperr.Validation("invalid JSON body"))
		return
	}

	order, err := h.service.Create(r.Context(), claims.UserID, req)
	if err != nil {
		web.WriteError(w, r, err)
		return
	}

	h.logger.Info("order_placed", web.RequestIDFrom(r.Context()), "Order placed", map[string]any{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"total":    order.Total.String(),
	})
	web.WriteJSON(w, http.StatusCreated, order)
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		web.WriteError(w, r, apperr.ErrUnauthorized)
		return
	}

	userID, err := pathInt(r, "userId")
	if err != nil {
		web.WriteError(w, r, err)
		return
	}

	orders, err := h.service.ListByUser(r.Context(), userID, claims)
	if err != nil {
		web.WriteError(w, r, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAll(r.Context())
	if err != nil {
		h.logger.Error("order_list_failed", web.RequestIDFrom(r.Context()), "Failed to list orders", err, nil)
		web.WriteError(w, r, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		web.WriteError(w, r, apperr.ErrUnauthorized)
		return
	}

	orderID, err := pathInt(r, "id")
	if err != nil {
		web.WriteError(w, r, err)
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, r, apperr.Validation("invalid JSON body"))
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), orderID, req, fmt.Sprintf("admin:%d", claims.UserID))
	if err != nil {
		web.WriteError(w, r, err)
		return
	}

	h.logger.Info("order_status_updated", web.RequestIDFrom(r.Context()), "Order status updated", map[string]any{
		"order_id": order.ID,
		"status":   order.Status,
	})
	web.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		web.WriteError(w, r, apperr.ErrUnauthorized)
		return
	}

	orderID, err := pathInt(r, "id")
	if err != nil {
		web.WriteError(w, r, err)
		return
	}

	history, err := h.service.History(r.Context(), orderID, claims)
	if err != nil {
		web.WriteError(w, r, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, history)
}

func pathInt(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id < 1 {
		return 0, apperr.ErrNotFound
	}
	return id, nil
}
