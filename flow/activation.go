package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redshot/mern-auth-server/account"
	"github.com/redshot/mern-auth-server/domain"
)

// ActivationManager runs the second phase of signup: it verifies a presented
// token and creates the account exactly once.
type ActivationManager struct {
	store     domain.AccountStore
	issuer    *TokenIssuer
	generator domain.IDGenerator
}

func NewActivationManager(store domain.AccountStore, issuer *TokenIssuer) *ActivationManager {
	return &ActivationManager{store: store, issuer: issuer}
}

func (m *ActivationManager) SetIDGenerator(g domain.IDGenerator) {
	m.generator = g
}

// Activate verifies the token, re-checks existence, and persists the account.
//
// The existence re-check plus the store's uniqueness constraint make
// activation idempotent: replaying a consumed token, or racing N concurrent
// activations of the same token, yields one created account and
// domain.ErrAlreadyActivated for every other attempt.
func (m *ActivationManager) Activate(ctx context.Context, token string) (*account.Account, error) {
	claims, err := m.issuer.Verify(token)
	if err != nil {
		return nil, err
	}

	_, err = m.store.FindByEmail(ctx, claims.Email)
	switch {
	case err == nil:
		return nil, domain.ErrAlreadyActivated
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	acct := &account.Account{
		Name:  claims.Name,
		Email: claims.Email,
		// The payload secret is already derived; store it as-is.
		PasswordHash: claims.Secret,
		CreatedAt:    time.Now(),
	}
	if m.generator != nil {
		acct.ID = m.generator()
	}

	created, err := m.store.CreateAccount(ctx, acct)
	if err != nil {
		// Lost the race against a concurrent activation of the same email.
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrAlreadyActivated
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	return created, nil
}
