package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"food-order-system/internal/apperr"
	"food-order-system/internal/auth"
	"food-order-system/internal/logger"
)

type requestIDKey struct{}

// RequestIDFrom returns the request id placed in the context by Logging.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Logging assigns each request an id and logs start/completion with duration.
func Logging(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := logger.GenerateRequestID()

			ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
			r = r.WithContext(ctx)

			log.Debug("request_started",
				requestID,
				fmt.Sprintf("%s %s", r.Method, r.URL.Path),
				map[string]any{
					"method":      r.Method,
					"path":        r.URL.Path,
					"remote_addr": r.RemoteAddr,
				})

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			log.Debug("request_completed",
				requestID,
				fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
				map[string]any{
					"method":      r.Method,
					"path":        r.URL.Path,
					"status_code": rw.statusCode,
					"duration_ms": duration.Milliseconds(),
				})

			observeRequest(r.Method, rw.statusCode, duration)
		})
	}
}

// Authenticate verifies the bearer token and rejects the request with 401
// when it is missing or invalid.
func Authenticate(manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				WriteError(w, r, apperr.ErrUnauthorized)
				return
			}

			claims, err := manager.VerifyToken(token)
			if err != nil {
				WriteError(w, r, apperr.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin rejects authenticated non-admin callers with 403. It must be
// applied after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFrom(r.Context())
		if !ok {
			WriteError(w, r, apperr.ErrUnauthorized)
			return
		}
		if !claims.Admin {
			WriteError(w, r, apperr.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
