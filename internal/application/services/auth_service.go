package services

import (
	"fmt"

	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/logging"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/security"
	"github.com/campaignforge/campaignforge-go/pkg/config"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues and validates admin tokens. The admin password is
// hashed once at construction so plaintext never sits in memory longer
// than startup.
type AuthService struct {
	passwordHash []byte
	jwtSecret    string
	logger       *logging.ChanneledLogger
}

// NewAuthService creates the auth service from the central configuration.
// It fails when auth is enabled without a password and secret configured.
func NewAuthService(logger *logging.ChanneledLogger) (*AuthService, error) {
	if !config.AuthEnabled {
		return &AuthService{logger: logger}, nil
	}
	if config.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD environment variable is required when auth is enabled")
	}
	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required when auth is enabled")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(config.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	return &AuthService{
		passwordHash: hash,
		jwtSecret:    config.JWTSecret,
		logger:       logger,
	}, nil
}

// Enabled reports whether authentication is active.
func (s *AuthService) Enabled() bool {
	return len(s.passwordHash) > 0
}

// Login verifies the admin password and issues a signed token.
func (s *AuthService) Login(password string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("authentication is not enabled")
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		if s.logger != nil {
			s.logger.Auth().Warn("Failed login attempt")
		}
		return "", fmt.Errorf("invalid credentials")
	}

	token, err := security.GenerateAdminToken(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	if s.logger != nil {
		s.logger.Auth().Info("Admin login succeeded")
	}
	return token, nil
}

// ValidateToken checks a bearer token and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("authentication is not enabled")
	}
	return security.ValidateJWT(tokenString, s.jwtSecret)
}
