package impl

import (
	"context"
	"log/slog"
	"strings"

	"farmradar/internal/domain/entity"
	domainerrors "farmradar/internal/domain/errors"
	"farmradar/internal/domain/repository"
	"farmradar/internal/domain/service"
	"farmradar/internal/errors"
	"farmradar/internal/usecase"
)

type userService struct {
	userRepo repository.UserRepository
	hasher   service.PasswordHasher
	tokenSvc service.TokenService
	logger   *slog.Logger
}

// NewUserService creates the account service. The surface is intentionally
// small: positions, preferences, and devices all hang off the account ID.
func NewUserService(
	userRepo repository.UserRepository,
	hasher service.PasswordHasher,
	tokenSvc service.TokenService,
	logger *slog.Logger,
) usecase.UserUsecase {
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
		tokenSvc: tokenSvc,
		logger:   logger,
	}
}

// Register creates an account and issues session tokens.
func (s *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, *usecase.AuthTokens, error) {
	role := entity.Role(strings.ToLower(input.Role))
	if !role.Valid() {
		return nil, nil, domainerrors.ErrInvalidCredentials.WrapMessage("unknown role")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to hash password")
	}

	user := &entity.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Name:         input.Name,
		Role:         role,
		IsActive:     true,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, nil, domainerrors.ErrUserAlreadyExists
		}

		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// Login verifies credentials and issues session tokens.
func (s *userService) Login(ctx context.Context, input *usecase.LoginInput) (*entity.User, *usecase.AuthTokens, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, domainerrors.ErrInvalidCredentials
		}

		return nil, nil, err
	}

	if !user.IsActive || !s.hasher.Check(input.Password, user.PasswordHash) {
		return nil, nil, domainerrors.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		// Non-fatal: the login succeeded, only the stamp failed.
		s.logger.Warn("failed to stamp last login",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

func (s *userService) issueTokens(user *entity.User) (*usecase.AuthTokens, error) {
	access, refresh, err := s.tokenSvc.GenerateTokens(user.ID.String(), string(user.Role))
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue tokens")
	}

	return &usecase.AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}
