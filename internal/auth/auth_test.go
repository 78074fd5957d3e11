package auth

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/justsurfingit/jobhunter/internal/apperrors"
	"golang.org/x/oauth2"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	issuer := NewTokenIssuer("secret", 7*24*time.Hour, nil)
	token, exp, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatal(err)
	}
	if d := time.Until(exp); d < 7*24*time.Hour-time.Minute {
		t.Fatalf("expiry too short: %v", d)
	}

	claims, err := issuer.Verify(ctx, token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "user-1" || claims.TokenID == "" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestVerifyRejects(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	issuer := NewTokenIssuer("secret", time.Hour, nil)
	token, _, _ := issuer.Issue("user-1")

	expired := NewTokenIssuer("secret", time.Hour, nil)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject: "user-1", ID: "x", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name   string
		issuer *TokenIssuer
		token  string
	}{
		{"wrong secret", NewTokenIssuer("other", time.Hour, nil), token},
		{"expired", expired, token},
		{"garbage", issuer, "not.a.token"},
		{"alg none", issuer, none},
	}
	for _, tt := range tests {
		if _, err := tt.issuer.Verify(ctx, tt.token); !errors.Is(err, apperrors.ErrUnauthorized) {
			t.Errorf("%s: expected unauthorized, got %v", tt.name, err)
		}
	}
}

func TestRevoke(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	issuer := NewTokenIssuer("secret", time.Hour, NewMemoryRevoker())
	token, _, _ := issuer.Issue("user-1")
	claims, err := issuer.Verify(ctx, token)
	if err != nil {
		t.Fatal(err)
	}
	if err := issuer.Revoke(ctx, claims); err != nil {
		t.Fatal(err)
	}
	if _, err := issuer.Verify(ctx, token); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("revoked token accepted: %v", err)
	}

	other, _, _ := issuer.Issue("user-1")
	if _, err := issuer.Verify(ctx, other); err != nil {
		t.Fatalf("revocation must be per token: %v", err)
	}
}

func TestMemoryRevokerExpires(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewMemoryRevoker()
	r.now = func() time.Time { return now }
	_ = r.Revoke(ctx, "jti", time.Minute)

	if ok, _ := r.IsRevoked(ctx, "jti"); !ok {
		t.Fatal("expected revoked")
	}
	now = now.Add(2 * time.Minute)
	if ok, _ := r.IsRevoked(ctx, "jti"); ok {
		t.Fatal("revocation must lapse with the token")
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	for header, want := range map[string]string{
		"Bearer abc": "abc",
		"bearer xyz": "xyz",
	} {
		got, err := BearerToken(header)
		if err != nil || got != want {
			t.Errorf("BearerToken(%q) = %q, %v", header, got, err)
		}
	}
	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer a b"} {
		if _, err := BearerToken(header); !errors.Is(err, apperrors.ErrUnauthorized) {
			t.Errorf("BearerToken(%q) = %v", header, err)
		}
	}
}

func TestPasswords(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckPassword(hash, "hunter22"); err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("mismatch = %v", err)
	}
}

func TestTokenFileRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token.json")
	want := &oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"}
	if err := SaveToken(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := TokenFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.AccessToken != "a" || got.RefreshToken != "r" {
		t.Fatalf("token = %+v", got)
	}
}

func TestTokenFromWebReadsCode(t *testing.T) {
	t.Parallel()

	cfg := &oauth2.Config{ClientID: "id", Endpoint: oauth2.Endpoint{AuthURL: "https://auth.test/o", TokenURL: "http://127.0.0.1:0/token"}}
	var out strings.Builder
	_, err := TokenFromWeb(context.Background(), cfg, strings.NewReader(""), &out)
	if err == nil {
		t.Fatal("expected error when no code is entered")
	}
	if !strings.Contains(out.String(), "https://auth.test/o?") {
		t.Fatalf("consent URL not printed: %q", out.String())
	}
}
