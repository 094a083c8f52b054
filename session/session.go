// Package session issues and validates signin sessions.
//
// Sessions are stateless JSON Web Tokens: the access token carries the
// account ID and expiry, so validation needs no storage. A longer-lived
// refresh token allows renewing the session without re-entering credentials.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session represents an authenticated session.
type Session struct {
	Token            string    `json:"token"`
	RefreshToken     string    `json:"refresh_token,omitempty"`
	AccountID        string    `json:"account_id"`
	IssuedAt         time.Time `json:"issued_at"`
	ExpiresAt        time.Time `json:"expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at,omitempty"`
}

// Strategy defines the interface for session management strategies.
type Strategy interface {
	Create(accountID string) (*Session, error)
	Validate(token string) (*Session, error)
	Refresh(refreshToken string) (*Session, error)
}

// JWTConfig holds the configuration for JWT-based sessions.
type JWTConfig struct {
	SigningMethod jwt.SigningMethod
	SigningKey    any
	VerifyingKey  any
	Expiry        time.Duration
	RefreshExpiry time.Duration
}

// JWTStrategy implements the session strategy using JSON Web Tokens.
type JWTStrategy struct {
	config JWTConfig
}

// NewJWTStrategy creates a new JWT strategy with the given configuration.
func NewJWTStrategy(config JWTConfig) *JWTStrategy {
	return &JWTStrategy{config: config}
}

// NewHS256Strategy is a convenience constructor for HS256 sessions.
func NewHS256Strategy(secret []byte, expiry time.Duration) *JWTStrategy {
	return &JWTStrategy{
		config: JWTConfig{
			SigningMethod: jwt.SigningMethodHS256,
			SigningKey:    secret,
			VerifyingKey:  secret,
			Expiry:        expiry,
			RefreshExpiry: 7 * 24 * time.Hour,
		},
	}
}

type sessionClaims struct {
	Kind string `json:"kind"` // "access" or "refresh"
	jwt.RegisteredClaims
}

func (s *JWTStrategy) sign(accountID, kind string, now time.Time, expiry time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(expiry)
	claims := sessionClaims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(s.config.SigningMethod, claims)
	signed, err := token.SignedString(s.config.SigningKey)
	return signed, expiresAt, err
}

func (s *JWTStrategy) Create(accountID string) (*Session, error) {
	now := time.Now()

	access, accessExp, err := s.sign(accountID, "access", now, s.config.Expiry)
	if err != nil {
		return nil, err
	}

	refresh, refreshExp, err := s.sign(accountID, "refresh", now, s.config.RefreshExpiry)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:            access,
		RefreshToken:     refresh,
		AccountID:        accountID,
		IssuedAt:         now,
		ExpiresAt:        accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *JWTStrategy) parse(tokenString, kind string) (*sessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != s.config.SigningMethod.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.config.VerifyingKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("unexpected token kind %q", claims.Kind)
	}
	return claims, nil
}

func (s *JWTStrategy) Validate(tokenString string) (*Session, error) {
	claims, err := s.parse(tokenString, "access")
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     tokenString,
		AccountID: claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *JWTStrategy) Refresh(refreshToken string) (*Session, error) {
	claims, err := s.parse(refreshToken, "refresh")
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}
	return s.Create(claims.Subject)
}
