package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noruno/platform/internal/infrastructure/config"
)

// ErrTokensDisabled is returned when no signing secret is configured.
var ErrTokensDisabled = errors.New("api tokens are disabled: security.api_token_secret is empty")

const tokenIssuer = "noruno"

// Claims represents the JWT claims of a local API token
type Claims struct {
	Client string `json:"client"`
	jwt.RegisteredClaims
}

// TokenService issues and validates the bearer tokens that guard the local
// API when a secret is configured.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    Clock
}

// NewTokenService creates a token service from the security settings
func NewTokenService(cfg config.SecurityConfig) *TokenService {
	return &TokenService{
		secret: []byte(cfg.APITokenSecret),
		ttl:    cfg.APITokenTTL,
		now:    time.Now,
	}
}

// Enabled reports whether tokens are required
func (s *TokenService) Enabled() bool {
	return len(s.secret) > 0
}

// Issue signs a token for client
func (s *TokenService) Issue(client string) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, ErrTokensDisabled
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := &Claims{
		Client: client,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   client,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate parses tokenString and returns its claims
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	if !s.Enabled() {
		return nil, ErrTokensDisabled
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
