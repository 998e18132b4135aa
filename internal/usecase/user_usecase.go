package usecase

import (
	"context"

	"farmradar/internal/domain/entity"
)

// RegisterInput represents the input for creating an account.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"` // vendor or consumer
}

// LoginInput represents the input for a credential login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthTokens carries the session tokens issued on register and login.
type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserUsecase covers the minimal account surface the pipeline needs: an
// identity to hang positions, preferences, and devices on.
type UserUsecase interface {
	// Register creates an account and issues session tokens.
	Register(ctx context.Context, input *RegisterInput) (*entity.User, *AuthTokens, error)

	// Login verifies credentials and issues session tokens.
	Login(ctx context.Context, input *LoginInput) (*entity.User, *AuthTokens, error)
}
