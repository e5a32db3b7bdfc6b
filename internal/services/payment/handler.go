package payment

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"food-order-system/internal/apperr"
	"food-order-system/internal/auth"
	"food-order-system/internal/logger"
	"food-order-system/internal/web"
)

// Handler handles HTTP requests for payment intents.
type Handler struct {
	provider Provider
	logger   *logger.Logger
}

func NewHandler(provider Provider, log *logger.Logger) *Handler {
	return &Handler{
		provider: provider,
		logger:   log,
	}
}

// Register mounts the payment route; creating an intent requires an
// authenticated user.
func (h *Handler) Register(r *mux.Router, authenticate mux.MiddlewareFunc) {
	user := r.NewRoute().Subrouter()
	user.Use(authenticate)
	user.HandleFunc("/payment", h.CreateIntent).Methods(http.MethodPost)
}

func (h *Handler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		web.WriteError(w, r, apperr.ErrUnauthorized)
		return
	}

	var req CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, r, apperr.Validation("invalid JSON body"))
		return
	}

	intent, err := h.provider.CreateIntent(r.Context(), req.Amount)
	if err != nil {
		web.WriteError(w, r, err)
		return
	}

	h.logger.Info("payment_intent_created", web.RequestIDFrom(r.Context()), "Payment intent created", map[string]any{
		"intent_id": intent.ID,
		"user_id":   claims.UserID,
		"amount":    intent.Amount,
		"currency":  intent.Currency,
	})
	web.WriteJSON(w, http.StatusOK, intent)
}
