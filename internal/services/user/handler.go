package user

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"food-order-system/internal/apperr"
	"food-order-system/internal/logger"
	"food-order-system/internal/models"
	"food-order-system/internal/web"
)

// Handler handles HTTP requests for accounts.
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

// Register mounts the account routes; both are public.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/users/register", h.RegisterAccount).Methods(http.MethodPost)
	r.HandleFunc("/users/login", h.Login).Methods(http.MethodPost)
}

func (h *Handler) RegisterAccount(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, r, apperr.Validation("invalid JSON body"))
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		web.WriteError(w, r, err)
		return
	}

	h.logger.Info("user_registered", web.RequestIDFrom(r.Context()), "User registered", map[string]any{
		"user_id":  resp.User.ID,
		"username": resp.User.Username,
	})
	web.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, r, apperr.Validation("invalid JSON body"))
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		web.WriteError(w, r, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, resp)
}
