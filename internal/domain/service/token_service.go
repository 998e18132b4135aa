package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and validates the JWT pair used by the API.
type TokenService interface {
	// GenerateTokens creates an access and refresh token pair for a user.
	GenerateTokens(userID string, role string) (accessToken string, refreshToken string, err error)

	// ValidateToken parses and verifies a token against a secret.
	ValidateToken(tokenString string, secret string) (*jwt.Token, error)

	// GetRefreshTokenDuration returns the configured refresh token lifetime.
	GetRefreshTokenDuration() time.Duration
}
