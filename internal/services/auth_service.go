package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/justsurfingit/jobhunter/internal/apperrors"
	"github.com/justsurfingit/jobhunter/internal/auth"
	"github.com/justsurfingit/jobhunter/internal/dtos"
	"github.com/justsurfingit/jobhunter/internal/models"
	"github.com/justsurfingit/jobhunter/internal/repository"
)

var errBadCredentials = fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)

type AuthService struct {
	users  repository.UserStore
	tokens *auth.TokenIssuer
	log    *slog.Logger
}

func NewAuthService(users repository.UserStore, tokens *auth.TokenIssuer, log *slog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

func (s *AuthService) Register(ctx context.Context, req dtos.RegisterRequest) (dtos.AuthResponse, error) {
	req.Normalize()
	if err := dtos.Struct(&req); err != nil {
		return dtos.AuthResponse{}, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return dtos.AuthResponse{}, err
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return dtos.AuthResponse{}, err
	}
	s.log.Info("user registered", "user_id", user.ID)
	return s.respond(user)
}

func (s *AuthService) Login(ctx context.Context, req dtos.LoginRequest) (dtos.AuthResponse, error) {
	req.Normalize()
	if err := dtos.Struct(&req); err != nil {
		return dtos.AuthResponse{}, err
	}
	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, apperrors.ErrNotFound) {
		return dtos.AuthResponse{}, errBadCredentials
	}
	if err != nil {
		return dtos.AuthResponse{}, err
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			return dtos.AuthResponse{}, errBadCredentials
		}
		return dtos.AuthResponse{}, err
	}
	return s.respond(user)
}

func (s *AuthService) respond(user *models.User) (dtos.AuthResponse, error) {
	token, exp, err := s.tokens.Issue(user.ID)
	if err != nil {
		return dtos.AuthResponse{}, err
	}
	return dtos.AuthResponse{Token: token, ExpiresAt: exp, User: *user}, nil
}

// Authenticate resolves a bearer token to its claims.
func (s *AuthService) Authenticate(ctx context.Context, token string) (auth.Claims, error) {
	return s.tokens.Verify(ctx, token)
}

func (s *AuthService) Logout(ctx context.Context, claims auth.Claims) error {
	return s.tokens.Revoke(ctx, claims)
}

// Me returns the caller's profile. A token whose user was removed is no
// longer valid.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown user", apperrors.ErrUnauthorized)
	}
	return user, err
}
