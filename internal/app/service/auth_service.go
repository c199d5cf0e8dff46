package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"codequiz/internal/common"
	"codequiz/internal/common/security"
	"codequiz/internal/domain/model"
	"codequiz/internal/domain/repository"
	"codequiz/internal/platform/session"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Registration failure modes surfaced to the form flow. The username
// pre-check is a fast path only; the unique constraint at insert time is the
// final arbiter and comes back as common.ErrConflict.
var (
	ErrPasswordsMismatch = fmt.Errorf("passwords do not match: %w", common.ErrValidation)
	ErrUsernameTaken     = fmt.Errorf("username already exists: %w", common.ErrConflict)
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type AuthService struct {
	userRepo repository.UserRepository
	revoker  session.TokenRevoker
	logger   *slog.Logger
}

func NewAuthService(userRepo repository.UserRepository, revoker session.TokenRevoker, logger *slog.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, revoker: revoker, logger: logger}
}

type RegisterRequest struct {
	Username        string `validate:"required,min=3,max=64"`
	Email           string `validate:"required,email,max=128"`
	Password        string `validate:"required,min=4,max=128"`
	PasswordConfirm string `validate:"required"`
}

type LoginRequest struct {
	Username string
	Password string
}

type LoginResponse struct {
	User      *model.User
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid registration details: %w", common.ErrValidation)
	}
	if req.Password != req.PasswordConfirm {
		return ErrPasswordsMismatch
	}

	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict when the constraint fires.
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "username", user.Username)
	return nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.ErrUnauthorized
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Same answer as a wrong password so usernames cannot be probed.
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, jti, expiresAt, err := security.GenerateToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user.HashedPassword = ""
	return &LoginResponse{
		User:      user,
		Token:     token,
		TokenID:   jti,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout puts the token's jti on the revocation list for its remaining life.
// Cookie deletion happens at the handler regardless of the outcome here.
func (s *AuthService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if err := s.revoker.Revoke(ctx, jti, time.Until(expiresAt)); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.logger.Info("session revoked", "jti", jti)
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Token subject no longer exists; treat as an auth failure.
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}
