package menu

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"food-order-system/internal/apperr"
	"food-order-system/internal/logger"
	"food-order-system/internal/models"
	"food-order-system/internal/web"
)

// Handler handles HTTP requests for the menu catalog.
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

// Register mounts the menu routes. Browsing is public; mutations require an
// authenticated admin.
func (h *Handler) Register(r *mux.Router, authenticate mux.MiddlewareFunc) {
	r.HandleFunc("/menu", h.List).Methods(http.MethodGet)

	admin := r.NewRoute().Subrouter()
	admin.Use(authenticate, web.RequireAdmin)
	admin.HandleFunc("/menu", h.Create).Methods(http.MethodPost)
	admin.HandleFunc("/menu/{id}", h.Update).Methods(http.MethodPut)
	admin.HandleFunc("/menu/{id}", h.Delete).Methods(http.MethodDelete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	items, err := h.service.List(r.Context(), query.Get("search"), query.Get("category"))
	if err != nil {
		h.logger.Error("menu_list_failed", web.RequestIDFrom(r.Context()), "Failed to list menu items", err, nil)
		web.WriteError(w, r, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeItemRequest(w, r)
	if !ok {
		return
	}

	item, err := h.service.Create(r.Context(), req)
	if err != nil {
		web.WriteError(w, r, err)
		return
	}

	h.logger.Info("menu_item_created", web.RequestIDFrom(r.Context()), "Menu item created", map[string]any{
		"item_id": item.ID,
		"name":    item.Name,
	})
	web.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		web.WriteError(w, r, err)
		return
	}

	req, ok := decodeItemRequest(w, r)
	if !ok {
		return
	}

	item, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		web.WriteError(w, r, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		web.WriteError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		web.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeItemRequest(w http.ResponseWriter, r *http.Request) (models.MenuItemRequest, bool) {
	var req models.MenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, r, apperr.Validation("invalid JSON body"))
		return models.MenuItemRequest{}, false
	}
	return req, true
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		return 0, apperr.ErrNotFound
	}
	return id, nil
}
