package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type authService struct {
	users       repository.UserRepository
	tokens      security.TokenManager
	adminEmails []string
}

func NewAuthService(users repository.UserRepository, tokens security.TokenManager, adminEmails []string) AuthService {
	return &authService{
		users:       users,
		tokens:      tokens,
		adminEmails: adminEmails,
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := domain.UserRoleUser
	if slices.Contains(s.adminEmails, email) {
		role = domain.UserRoleAdmin
	}

	user := &domain.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "User registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.IsAdmin())
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &LoginResult{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) Me(ctx context.Context, userID int32) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
