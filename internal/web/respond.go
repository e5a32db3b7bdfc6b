// Package web holds the HTTP plumbing shared by all handlers: response
// helpers, middleware, and metrics.
package web

import (
	"encoding/json"
	"net/http"
	"time"

	"food-order-system/internal/apperr"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp string            `json:"timestamp"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps err through the taxonomy and writes the error body.
// Internal failures never leak detail to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	WriteJSON(w, apperr.StatusCode(err), ErrorResponse{
		Error:     apperr.PublicMessage(err),
		Fields:    apperr.FieldErrors(err),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: RequestIDFrom(r.Context()),
	})
}

// WriteErrorMessage writes a fixed-status error without taxonomy mapping.
func WriteErrorMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSON(w, status, ErrorResponse{
		Error:     message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: RequestIDFrom(r.Context()),
	})
}
