package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/rsvp-backend/internal/platform/apierr"
	"github.com/yungbote/rsvp-backend/internal/platform/ctxutil"
)

const testPassword = "correct horse"

func newTestService(t *testing.T, clock clockwork.Clock) AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	svc, err := NewAuthService(nil, Config{
		JWTSecretKey: "test-secret",
		PasswordHash: string(hash),
		TokenTTL:     time.Hour,
		Clock:        clock,
	})
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return svc
}

func apiStatus(t *testing.T, err error) (int, string) {
	t.Helper()
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected apierr, got %v", err)
	}
	return ae.Status, ae.Code
}

func TestLoginAndVerify(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestService(t, clock)

	tok, err := svc.Login(context.Background(), testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok.TokenType != "Bearer" || tok.AccessToken == "" {
		t.Fatalf("unexpected token: %+v", tok)
	}
	if want := clock.Now().Add(time.Hour); !tok.ExpiresAt.Equal(want) {
		t.Fatalf("expires: want=%s got=%s", want, tok.ExpiresAt)
	}

	ctx, err := svc.SetContextFromToken(context.Background(), tok.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	ad := ctxutil.GetAdminData(ctx)
	if ad == nil || ad.Subject != AdminSubject || ad.SessionID == "" {
		t.Fatalf("admin data: %+v", ad)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t, clockwork.NewFakeClock())
	_, err := svc.Login(context.Background(), "nope")
	if status, code := apiStatus(t, err); status != http.StatusUnauthorized || code != "invalid_credentials" {
		t.Fatalf("want 401 invalid_credentials, got %d %s", status, code)
	}
}

func TestLoginDisabledWithoutHash(t *testing.T) {
	svc, err := NewAuthService(nil, Config{JWTSecretKey: "s"})
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	_, err = svc.Login(context.Background(), "anything")
	if status, _ := apiStatus(t, err); status != http.StatusServiceUnavailable {
		t.Fatalf("status: want=%d got=%d", http.StatusServiceUnavailable, status)
	}
}

func TestNewAuthServiceValidatesConfig(t *testing.T) {
	if _, err := NewAuthService(nil, Config{}); err == nil {
		t.Fatalf("expected error for missing secret")
	}
	if _, err := NewAuthService(nil, Config{JWTSecretKey: "s", PasswordHash: "plaintext"}); err == nil {
		t.Fatalf("expected error for non-bcrypt hash")
	}
}

func TestTokenExpires(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestService(t, clock)
	tok, err := svc.Login(context.Background(), testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	clock.Advance(2 * time.Hour)
	_, err = svc.SetContextFromToken(context.Background(), tok.AccessToken)
	if status, code := apiStatus(t, err); status != http.StatusUnauthorized || code != "token_expired" {
		t.Fatalf("want 401 token_expired, got %d %s", status, code)
	}
}

func TestRejectsForeignTokens(t *testing.T) {
	clock := clockwork.NewFakeClock()
	svc := newTestService(t, clock)

	otherKey, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer, Subject: AdminSubject},
	}).SignedString([]byte("other-secret"))
	wrongSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer, Subject: "guest"},
	}).SignedString([]byte("test-secret"))

	for name, tok := range map[string]string{
		"empty":         "",
		"garbage":       "not-a-jwt",
		"other key":     otherKey,
		"wrong subject": wrongSubject,
	} {
		if _, err := svc.SetContextFromToken(context.Background(), tok); err == nil {
			t.Fatalf("%s: expected rejection", name)
		}
	}
}
