package services

import (
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/security"
	"github.com/gensai-lab/sonae-go/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles admin authentication and JWT operations.
type AuthService struct {
	logger *logging.ChanneledLogger
}

// NewAuthService creates a new authentication service.
func NewAuthService(logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{logger: logger}
}

// AuthResult holds authentication result data.
type AuthResult struct {
	Token   string `json:"token"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// AuthenticateAdmin validates the admin token and issues a JWT.
func (a *AuthService) AuthenticateAdmin(token string) *AuthResult {
	authorized := false

	if config.AdminTokenHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(config.AdminTokenHash), []byte(token)); err == nil {
			authorized = true
		}
		// Fallback for plaintext tokens during transition/testing
		if !authorized && token == config.AdminTokenHash {
			authorized = true
		}
	}

	if !authorized {
		a.logger.Auth().Warn("Admin authentication failed")
		return &AuthResult{Success: false, Error: "invalid credentials"}
	}

	jwtToken, err := security.GenerateAdminToken(config.JWTSecret, config.AdminTokenTTL)
	if err != nil {
		a.logger.Auth().Error("Admin token generation failed", "error", err.Error())
		return &AuthResult{Success: false, Error: "token generation failed"}
	}

	a.logger.Auth().Info("Admin authenticated")
	return &AuthResult{Token: jwtToken, Success: true}
}

// ValidateAdminToken reports whether a bearer token is a valid admin JWT.
func (a *AuthService) ValidateAdminToken(tokenString string) bool {
	return security.IsAdminToken(tokenString, config.JWTSecret)
}
