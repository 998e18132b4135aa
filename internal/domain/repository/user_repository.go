package repository

import (
	"context"

	"farmradar/internal/domain/entity"
	"farmradar/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for user persistence.
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUser is returned when the email is already registered.
	ErrDuplicateUser = errors.New("user already exists")
)

// UserRepository persists marketplace accounts.
type UserRepository interface {
	// CreateUser persists a new account.
	CreateUser(ctx context.Context, user *entity.User) error

	// FindUserByID retrieves an account by ID.
	FindUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindUserByEmail retrieves an account by email.
	FindUserByEmail(ctx context.Context, email string) (*entity.User, error)

	// UpdateLastLogin stamps the most recent successful login.
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}
