// Package flow implements the authentication flows of the auth server:
// two-phase signup with email confirmation, token-gated account activation,
// and password signin.
//
// Account creation is deferred: submitting a signup only issues a signed,
// expiring token carrying the pending account data. The account materializes
// in storage when the token is presented back, and at most once per email
// regardless of how many times a token is replayed.
package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redshot/mern-auth-server/account"
	"github.com/redshot/mern-auth-server/domain"
)

// ActivationSender is the outbound mail collaborator. Enqueue must not block
// on delivery; dispatch failures are handled out-of-band by the implementation.
type ActivationSender interface {
	Enqueue(to, activationURL string) error
}

// SignupManager runs the first phase of signup: duplicate check, token
// issuance, and activation-mail dispatch. It never creates an account.
type SignupManager struct {
	store  domain.AccountStore
	hasher domain.Hasher
	issuer *TokenIssuer
	sender ActivationSender

	clientURL string

	limiter RateLimiter
	limit   int
	window  time.Duration
}

// NewSignupManager creates a signup manager. clientURL is the base URL of the
// client application; the activation link is built under its /auth/activate
// route.
func NewSignupManager(store domain.AccountStore, hasher domain.Hasher, issuer *TokenIssuer, sender ActivationSender, clientURL string) *SignupManager {
	return &SignupManager{
		store:     store,
		hasher:    hasher,
		issuer:    issuer,
		sender:    sender,
		clientURL: strings.TrimRight(clientURL, "/"),
	}
}

// SetRateLimit enables per-email rate limiting of signup submissions.
func (m *SignupManager) SetRateLimit(limiter RateLimiter, limit int, window time.Duration) {
	m.limiter = limiter
	m.limit = limit
	m.window = window
}

// Submit handles a signup submission. On success a confirmation email has been
// queued and the caller can complete its response immediately; mail delivery
// latency or failure never reaches the submitter.
func (m *SignupManager) Submit(ctx context.Context, req account.SignupRequest) error {
	if m.limiter != nil {
		allowed, remaining, err := m.limiter.Allow(ctx, "signup:"+req.Email, m.limit, m.window)
		// Fail open on limiter backend errors; the duplicate check below still
		// bounds the damage of a burst.
		if err == nil && !allowed {
			return &RateLimitError{RetryAfter: m.window, Remaining: remaining}
		}
	}

	_, err := m.store.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return domain.ErrEmailAlreadyRegistered
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	secret, err := m.hasher.Hash(req.Password)
	if err != nil {
		return fmt.Errorf("signup: hashing password: %w", err)
	}

	token, err := m.issuer.Issue(req.Name, req.Email, secret)
	if err != nil {
		return fmt.Errorf("signup: issuing token: %w", err)
	}

	// Fire-and-forget relative to this call. A full queue is the sender's
	// problem to report; the submission itself has succeeded.
	_ = m.sender.Enqueue(req.Email, m.ActivationURL(token))

	return nil
}

// ActivationURL builds the link embedded in the confirmation email.
func (m *SignupManager) ActivationURL(token string) string {
	return m.clientURL + "/auth/activate/" + token
}
