// Package apperr defines the error taxonomy shared by all request handlers.
// Services return these errors; the HTTP layer maps them to status codes and
// never leaks internal detail for anything unclassified.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound covers absent entities and entities not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized covers missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden covers authenticated callers lacking ownership or admin rights.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports malformed or missing input, optionally per field.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation builds a ValidationError with a formatted message.
func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// FieldValidation builds a ValidationError carrying a single field error.
func FieldValidation(field, message string) *ValidationError {
	return &ValidationError{
		Message: fmt.Sprintf("%s: %s", field, message),
		Fields:  map[string]string{field: message},
	}
}

// NotFound wraps ErrNotFound with entity context.
func NotFound(entity string, id int) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

// StatusCode maps an error to its HTTP status. Unclassified errors are 500.
func StatusCode(err error) int {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to surface to clients. Internal
// failures get a generic message.
func PublicMessage(err error) string {
	if StatusCode(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}

// FieldErrors returns structured field errors when the error is a
// ValidationError carrying them, nil otherwise.
func FieldErrors(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
