package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"judge_client/internal/common"
	"judge_client/internal/common/security"
	"judge_client/internal/domain/model"
	"judge_client/internal/domain/repository"
)

const minPasswordLength = 6

type AuthService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

func NewAuthService(userRepo repository.UserRepository, logger *slog.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, logger: logger}
}

func (s *AuthService) Signup(ctx context.Context, req model.AuthRequest) (*model.Credential, error) {
	email := strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, common.NewStatusError(common.ErrBadRequest, "Invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return nil, common.NewStatusError(common.ErrBadRequest, fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{Email: email, HashedPassword: hashedPassword}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.NewStatusError(common.ErrConflict, "Email already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Info("user signed up", "user_id", user.ID)
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req model.AuthRequest) (*model.Credential, error) {
	invalid := common.NewStatusError(common.ErrUnauthorized, "Invalid email or password")
	if req.Email == "" || req.Password == "" {
		return nil, invalid
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, invalid
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*model.Credential, error) {
	token, err := security.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.Credential{Token: token, Email: user.Email, UserID: user.ID}, nil
}
