package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/draftsmith/draftsmith-api/internal/config"
)

// AdminAuthenticator verifies the single admin credential configured at
// startup and issues access tokens for it. There is no user table; the
// admin identity lives entirely in configuration.
type AdminAuthenticator struct {
	adminEmail        string
	adminPasswordHash string
	adminID           uuid.UUID
	jwtService        JWTService
	verifier          PasswordVerifier
	logger            *slog.Logger
}

// TokenResult carries an issued access token and its expiry.
type TokenResult struct {
	AccessToken string
	ExpiresAt   time.Time
}

// NewAdminAuthenticator creates an authenticator for the configured admin
// credential. The admin's subject ID is derived deterministically from the
// email so tokens stay valid across restarts.
func NewAdminAuthenticator(
	cfg config.AuthConfig,
	jwtService JWTService,
	verifier PasswordVerifier,
	logger *slog.Logger,
) *AdminAuthenticator {
	if logger == nil {
		logger = slog.Default()
	}

	return &AdminAuthenticator{
		adminEmail:        cfg.AdminEmail,
		adminPasswordHash: cfg.AdminPasswordHash,
		adminID:           uuid.NewSHA1(uuid.NameSpaceOID, []byte(cfg.AdminEmail)),
		jwtService:        jwtService,
		verifier:          verifier,
		logger:            logger.With("component", "admin_authenticator"),
	}
}

// Login verifies the email and password against the configured admin
// credential and returns an access token. Returns ErrInvalidCredentials
// for any mismatch without distinguishing email from password failures.
func (a *AdminAuthenticator) Login(ctx context.Context, email, password string) (*TokenResult, error) {
	emailMatch := subtle.ConstantTimeCompare([]byte(email), []byte(a.adminEmail)) == 1

	// Always run the bcrypt comparison so response timing doesn't reveal
	// whether the email matched.
	passwordErr := a.verifier.Compare(a.adminPasswordHash, password)

	if !emailMatch || passwordErr != nil {
		a.logger.Warn("admin login failed", "email", email)
		return nil, ErrInvalidCredentials
	}

	token, err := a.jwtService.GenerateToken(ctx, a.adminID)
	if err != nil {
		a.logger.Error("failed to issue admin token", "error", err)
		return nil, err
	}

	claims, err := a.jwtService.ValidateToken(ctx, token)
	if err != nil {
		a.logger.Error("issued admin token failed validation", "error", err)
		return nil, err
	}

	a.logger.Info("admin logged in", "subject_id", a.adminID)
	return &TokenResult{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}

// AdminID returns the deterministic subject identifier for the admin.
func (a *AdminAuthenticator) AdminID() uuid.UUID {
	return a.adminID
}
