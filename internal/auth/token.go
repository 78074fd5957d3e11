// Package auth issues and verifies API credentials and bootstraps the Gmail
// OAuth client used by the e-mail watcher.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/justsurfingit/jobhunter/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// Claims identifies the caller of an authenticated request.
type Claims struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

// TokenIssuer signs HS256 tokens with a fixed validity window.
type TokenIssuer struct {
	secret  []byte
	ttl     time.Duration
	revoker Revoker
	now     func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration, revoker Revoker) *TokenIssuer {
	if revoker == nil {
		revoker = NewMemoryRevoker()
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, revoker: revoker, now: time.Now}
}

func (t *TokenIssuer) Issue(userID string) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature, expiry and revocation. Every failure is reported
// as apperrors.ErrUnauthorized.
func (t *TokenIssuer) Verify(ctx context.Context, token string) (Claims, error) {
	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &rc, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	if rc.Subject == "" || rc.ID == "" {
		return Claims{}, fmt.Errorf("%w: incomplete claims", apperrors.ErrUnauthorized)
	}
	revoked, err := t.revoker.IsRevoked(ctx, rc.ID)
	if err != nil {
		return Claims{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return Claims{}, fmt.Errorf("%w: token revoked", apperrors.ErrUnauthorized)
	}
	return Claims{UserID: rc.Subject, TokenID: rc.ID, ExpiresAt: rc.ExpiresAt.Time}, nil
}

// Revoke blocks the token until it would have expired anyway.
func (t *TokenIssuer) Revoke(ctx context.Context, c Claims) error {
	ttl := c.ExpiresAt.Sub(t.now())
	if ttl <= 0 {
		return nil
	}
	return t.revoker.Revoke(ctx, c.TokenID, ttl)
}

// BearerToken extracts the token from an "Authorization: Bearer x" header.
func BearerToken(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", fmt.Errorf("%w: missing bearer token", apperrors.ErrUnauthorized)
	}
	return parts[1], nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports a mismatch as apperrors.ErrUnauthorized.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return apperrors.ErrUnauthorized
	}
	return err
}
