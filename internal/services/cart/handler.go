package cart

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"food-order-system/internal/apperr"
	"food-order-system/internal/auth"
	"food-order-system/internal/logger"
	"food-order-system/internal/models"
	"food-order-system/internal/web"
)

// Handler handles HTTP requests for the cart.
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

// Register mounts the cart routes; all require an authenticated user.
func (h *Handler) Register(r *mux.Router, authenticate mux.MiddlewareFunc) {
	user := r.NewRoute().Subrouter()
	user.Use(authenticate)
	user.HandleFunc("/cart", h.Get).Methods(http.MethodGet)
	user.HandleFunc("/cart", h.AddItem).Methods(http.MethodPost)
	user.HandleFunc("/cart/{id}", h.UpdateQuantity).Methods(http.MethodPut)
	user.HandleFunc("/cart/{id}", h.RemoveItem).Methods(http.MethodDelete)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		web.WriteError(w, r, apperr.ErrUnauthorized)
		return
	}

	details, err := h.service.ListWithDetails(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("cart_list_failed", web.RequestIDFrom(r.Context()), "Failed to list cart", err, nil)
		web.WriteError(w, r, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, details)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		web.WriteError(w, r, apperr.ErrUnauthorized)
		return
	}

	var req models.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, r, apperr.Validation("invalid JSON body"))
		return
	}

	line, err := h.service.AddItem(r.Context(), claims.UserID, req)
	if err != nil {
		web.WriteError(w, r, err)
		return
	}

	h.logger.Debug("cart_item_added", web.RequestIDFrom(r.Context()), "Cart line merged", map[string]any{
		"user_id":      claims.UserID,
		"menu_item_id": line.MenuItemID,
		"quantity":     line.Quantity,
	})
	web.WriteJSON(w, http.StatusCreated, line)
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		web.WriteError(w, r, apperr.ErrUnauthorized)
		return
	}

	lineID, err := pathID(r)
	if err != nil {
		web.WriteError(w, r, err)
		return
	}

	var req models.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, r, apperr.Validation("invalid JSON body"))
		return
	}

	line, err := h.service.UpdateQuantity(r.Context(), lineID, claims.UserID, req)
	if err != nil {
		web.WriteError(w, r, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, line)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		web.WriteError(w, r, apperr.ErrUnauthorized)
		return
	}

	lineID, err := pathID(r)
	if err != nil {
		web.WriteError(w, r, err)
		return
	}

	if err := h.service.RemoveItem(r.Context(), lineID, claims.UserID); err != nil {
		web.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		return 0, apperr.ErrNotFound
	}
	return id, nil
}
