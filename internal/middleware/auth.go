package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"happy-thoughts-backend/internal/models"
	"happy-thoughts-backend/internal/services"

	"github.com/rs/zerolog/log"
)

type contextKey string

const userKey contextKey = "user"

// Authenticator resolves an access token to a user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware creates a middleware for JWT authentication. The token is
// read raw from the Authorization header; a "Bearer " prefix is tolerated.
func AuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromHeader(r.Header.Get("Authorization"))
			if token == "" {
				respondError(w, "Invalid access token", http.StatusUnauthorized)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, services.ErrInvalidToken):
					respondError(w, "Invalid access token", http.StatusUnauthorized)
				case errors.Is(err, services.ErrAccessDenied):
					respondError(w, "Access denied", http.StatusForbidden)
				default:
					log.Error().Err(err).Msg("Failed to authenticate request")
					respondError(w, "Could not authenticate", http.StatusInternalServerError)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// TokenFromHeader extracts the token from an Authorization header value
func TokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// WithUser returns a copy of ctx carrying user
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser extracts the authenticated user from context
func GetUser(ctx context.Context) *models.User {
	user, ok := ctx.Value(userKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetUserID extracts the authenticated user ID from context
func GetUserID(ctx context.Context) string {
	if user := GetUser(ctx); user != nil {
		return user.ID
	}
	return ""
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
