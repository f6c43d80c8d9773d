package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"happy-thoughts-backend/internal/models"
	"happy-thoughts-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator map[string]struct {
	user *models.User
	err  error
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	res, ok := s[token]
	if !ok {
		return nil, services.ErrInvalidToken
	}
	return res.user, res.err
}

func TestAuthMiddleware(t *testing.T) {
	auth := stubAuthenticator{
		"good":    {user: &models.User{ID: "u-1", Username: "ada"}},
		"orphan":  {err: services.ErrAccessDenied},
		"db-down": {err: errors.New("connection reset")},
	}

	var seen *models.User
	handler := AuthMiddleware(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUser(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{"raw token", "good", http.StatusOK, ""},
		{"bearer token", "Bearer good", http.StatusOK, ""},
		{"missing", "", http.StatusUnauthorized, "Invalid access token"},
		{"invalid", "forged", http.StatusUnauthorized, "Invalid access token"},
		{"user gone", "orphan", http.StatusForbidden, "Access denied"},
		{"store failure", "db-down", http.StatusInternalServerError, "Could not authenticate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodPost, "/thoughts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError == "" {
				require.NotNil(t, seen)
				assert.Equal(t, "u-1", seen.ID)
				return
			}
			assert.Nil(t, seen)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", TokenFromHeader("abc"))
	assert.Equal(t, "abc", TokenFromHeader("Bearer abc"))
	assert.Equal(t, "abc", TokenFromHeader("bearer  abc "))
	assert.Equal(t, "", TokenFromHeader("  "))
}

func TestGetUserID(t *testing.T) {
	assert.Equal(t, "", GetUserID(context.Background()))
	ctx := WithUser(context.Background(), &models.User{ID: "u-7"})
	assert.Equal(t, "u-7", GetUserID(ctx))
}
