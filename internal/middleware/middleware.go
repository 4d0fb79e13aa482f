package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"green-basket/internal/auth"
	"green-basket/internal/model"
	"green-basket/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	userContextKey      contextKey = "authUser"
	requestIDContextKey contextKey = "requestID"
)

// WithUser attaches the resolved caller identity to the context.
func WithUser(ctx context.Context, user model.AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the caller identity attached by Authenticate.
func UserFromContext(ctx context.Context) (model.AuthUser, bool) {
	user, ok := ctx.Value(userContextKey).(model.AuthUser)
	return user, ok
}

// RequestIDFromContext extracts the correlation ID attached by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// CORS adds CORS headers to the response.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Telegram-Id")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequestID assigns a correlation ID to every request and echoes it back in
// the X-Request-Id header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDContextKey, id)))
	})
}

// Logging logs HTTP requests with timing information.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer wrapper to capture status code
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.statusCode).
				Dur("duration", duration).
				Str("remote_addr", r.RemoteAddr).
				Str("request_id", RequestIDFromContext(r.Context())).
				Msg("http request")
		})
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error().
						Interface("panic", err).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Msg("panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error": "internal_error"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// publicPaths are reachable without any credentials.
var publicPaths = map[string]bool{
	"/health":                         true,
	"/api/tg/webapp/auth":             true,
	"/api/payments/yookassa/callback": true,
}

// Authenticate resolves the caller identity from either a Bearer token or
// the prototype X-Telegram-Id header and attaches it to the request context.
// The header path lazily creates the user on first contact, mirroring bot
// behaviour. The product listing stays public for storefront rendering.
func Authenticate(tokens *auth.TokenIssuer, users service.UserService, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] || (r.Method == http.MethodGet && r.URL.Path == "/api/products") {
				next.ServeHTTP(w, r)
				return
			}

			if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
				user, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
				if err != nil {
					logger.Warn().Str("path", r.URL.Path).Msg("invalid bearer token")
					unauthorized(w)
					return
				}
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), *user)))
				return
			}

			if tgID := parseTelegramID(r.Header.Get("X-Telegram-Id")); tgID != 0 {
				u, err := users.GetOrCreateByTelegram(r.Context(), tgID, model.UserProfile{})
				if err != nil {
					logger.Error().Err(err).Int64("telegram_id", tgID).Msg("failed to resolve user")
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error": "internal_error"}`))
					return
				}
				authUser := model.AuthUser{ID: u.ID, TelegramID: u.TelegramID, Role: u.Role}
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), authUser)))
				return
			}

			logger.Warn().Str("path", r.URL.Path).Msg("missing credentials")
			unauthorized(w)
		})
	}
}

func parseTelegramID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error": "unauthorized"}`))
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
