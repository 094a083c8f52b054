package flow

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/redshot/mern-auth-server/domain"
)

// ActivationClaims is the payload carried inside an activation token. Secret
// holds the bcrypt hash of the submitted password, never the password itself,
// so interception of the token does not disclose the original credential.
type ActivationClaims struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Secret string `json:"secret"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies self-contained activation tokens using HS256.
// Verification requires no store lookup; any instance holding the same key can
// verify a token minted by another.
type TokenIssuer struct {
	key       []byte
	ttl       time.Duration
	clockSkew time.Duration
}

// NewTokenIssuer creates a token issuer. The key is the process-wide signing
// secret, injected at construction time. clockSkew is the leeway accepted when
// validating expiry against the local clock.
func NewTokenIssuer(key []byte, ttl, clockSkew time.Duration) *TokenIssuer {
	return &TokenIssuer{key: key, ttl: ttl, clockSkew: clockSkew}
}

// TTL returns the configured confirmation window.
func (i *TokenIssuer) TTL() time.Duration { return i.ttl }

// Issue signs the payload together with an absolute expiry computed as
// issuance time plus the configured TTL.
func (i *TokenIssuer) Issue(name, email, secret string) (string, error) {
	now := time.Now()
	claims := ActivationClaims{
		Name:   name,
		Email:  email,
		Secret: secret,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.key)
}

// Verify checks the signature and expiry and recovers the payload.
// Returns domain.ErrTokenExpired for a valid but stale token and
// domain.ErrInvalidToken for anything that fails signature or decode.
func (i *TokenIssuer) Verify(tokenString string) (*ActivationClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActivationClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.key, nil
	}, jwt.WithLeeway(i.clockSkew))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*ActivationClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
