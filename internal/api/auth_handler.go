package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/draftsmith/draftsmith-api/internal/api/shared"
	"github.com/draftsmith/draftsmith-api/internal/service/auth"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authenticator *auth.AdminAuthenticator
	validator     *validator.Validate
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authenticator *auth.AdminAuthenticator) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		validator:     validator.New(),
	}
}

// Login handles POST /api/auth/login requests. It verifies the configured
// admin credential and returns an access token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.authenticator.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			// Repeated credential failures are an operational signal.
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
				"Invalid credentials", err, shared.WithElevatedLogLevel())
			return
		}
		HandleAPIError(w, r, err, "Authentication failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
	})
}
