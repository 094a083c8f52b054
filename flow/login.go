package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/redshot/mern-auth-server/account"
	"github.com/redshot/mern-auth-server/domain"
)

// LoginManager authenticates activated accounts by email and password.
type LoginManager struct {
	store  domain.AccountStore
	hasher domain.Hasher
}

func NewLoginManager(store domain.AccountStore, hasher domain.Hasher) *LoginManager {
	return &LoginManager{store: store, hasher: hasher}
}

// Authenticate returns the account on a successful credential check. Unknown
// email and wrong password both map to domain.ErrInvalidCredentials.
func (m *LoginManager) Authenticate(ctx context.Context, email, password string) (*account.Account, error) {
	acct, err := m.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	if !m.hasher.Compare(password, acct.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return acct, nil
}
