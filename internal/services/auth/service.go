package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/rsvp-backend/internal/platform/apierr"
	"github.com/yungbote/rsvp-backend/internal/platform/ctxutil"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
)

const (
	AdminSubject = "admin"
	issuer       = "rsvp-backend"

	DefaultTokenTTL = 12 * time.Hour
)

type Config struct {
	// JWTSecretKey signs HS256 admin tokens.
	JWTSecretKey string
	// PasswordHash is the bcrypt hash of the shared admin password.
	PasswordHash string
	TokenTTL     time.Duration
	Clock        clockwork.Clock
}

type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	// Login checks password against the configured bcrypt hash and issues a token.
	Login(ctx context.Context, password string) (Token, error)
	// SetContextFromToken validates tokenString and attaches the admin session to ctx.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	TokenTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	secret       []byte
	passwordHash []byte
	ttl          time.Duration
	clock        clockwork.Clock
}

func NewAuthService(log *logger.Logger, cfg Config) (AuthService, error) {
	if log == nil {
		log = logger.Nop()
	}
	secret := strings.TrimSpace(cfg.JWTSecretKey)
	if secret == "" {
		return nil, fmt.Errorf("missing JWT secret key")
	}
	hash := strings.TrimSpace(cfg.PasswordHash)
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return &authService{
		log:          log.With("service", "AuthService"),
		secret:       []byte(secret),
		passwordHash: []byte(hash),
		ttl:          cfg.TokenTTL,
		clock:        cfg.Clock,
	}, nil
}

func (as *authService) TokenTTL() time.Duration { return as.ttl }

func (as *authService) Login(ctx context.Context, password string) (Token, error) {
	if len(as.passwordHash) == 0 {
		return Token{}, apierr.New(http.StatusServiceUnavailable, "admin_login_disabled", fmt.Errorf("no admin password configured"))
	}
	if password == "" {
		return Token{}, apierr.New(http.StatusBadRequest, "missing_password", fmt.Errorf("password is required"))
	}
	if err := bcrypt.CompareHashAndPassword(as.passwordHash, []byte(password)); err != nil {
		as.log.Warn("admin login rejected")
		return Token{}, apierr.New(http.StatusUnauthorized, "invalid_credentials", fmt.Errorf("invalid password"))
	}
	now := as.clock.Now()
	expires := now.Add(as.ttl)
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   AdminSubject,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.secret)
	if err != nil {
		return Token{}, apierr.New(http.StatusInternalServerError, "token_sign_failed", err)
	}
	as.log.Info("admin login", "session_id", claims.ID)
	return Token{AccessToken: signed, TokenType: "Bearer", ExpiresAt: expires.UTC()}, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing token"))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return as.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(as.clock.Now),
	)
	if err != nil {
		code := "unauthorized"
		if errors.Is(err, jwt.ErrTokenExpired) {
			code = "token_expired"
		}
		return ctx, apierr.New(http.StatusUnauthorized, code, fmt.Errorf("failed to parse token: %w", err))
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid || claims.Subject != AdminSubject {
		return ctx, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("invalid or expired token"))
	}
	ad := &ctxutil.AdminData{Subject: claims.Subject, SessionID: claims.ID}
	if claims.ExpiresAt != nil {
		ad.ExpiresAt = claims.ExpiresAt.Time
	}
	return ctxutil.WithAdminData(ctx, ad), nil
}
