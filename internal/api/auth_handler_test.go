package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/draftsmith/draftsmith-api/internal/config"
	"github.com/draftsmith/draftsmith-api/internal/service/auth"
)

func newTestAuthHandler(t *testing.T, password string) *AuthHandler {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.AuthConfig{
		JWTSecret:            "test-secret-key-that-is-at-least-32-chars",
		TokenLifetimeMinutes: 30,
		AdminEmail:           "admin@example.com",
		AdminPasswordHash:    string(hash),
	}

	jwtService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	authenticator := auth.NewAdminAuthenticator(cfg, jwtService, auth.NewBcryptVerifier(), nil)
	return NewAuthHandler(authenticator)
}

func postLogin(handler *AuthHandler, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(raw))
	handler.Login(rec, req)
	return rec
}

func TestAuthHandler_Login(t *testing.T) {
	handler := newTestAuthHandler(t, "hunter2hunter2")

	t.Run("success", func(t *testing.T) {
		rec := postLogin(handler, LoginRequest{
			Email:    "admin@example.com",
			Password: "hunter2hunter2",
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.AccessToken)
		assert.False(t, resp.ExpiresAt.IsZero())
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := postLogin(handler, LoginRequest{
			Email:    "admin@example.com",
			Password: "wrong",
		})

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid credentials")
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := postLogin(handler, LoginRequest{
			Email:    "someone@example.com",
			Password: "hunter2hunter2",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid email format", func(t *testing.T) {
		rec := postLogin(handler, LoginRequest{
			Email:    "not-an-email",
			Password: "hunter2hunter2",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte("{")))
		handler.Login(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
