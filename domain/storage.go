// Package domain defines the storage contracts for the auth server.
//
// This package provides the fundamental interfaces that persistence
// implementations must fulfill. It abstracts account storage so flows can run
// against any backend (GORM, in-memory fakes in tests, etc.).
//
// # Interfaces
//
//   - AccountStore: account lookup and creation
//   - Hasher: password hashing and verification
//
// # Supporting Types
//
//   - IDGenerator: function type for generating account identifiers
//
// See the persistence package for a complete GORM-based implementation.
package domain

import (
	"context"

	"github.com/redshot/mern-auth-server/account"
)

// AccountStore defines persistence operations for user accounts.
//
// FindByEmail returns ErrNotFound when no account owns the email; any other
// error indicates a lookup failure. CreateAccount must fail with
// ErrDuplicateEmail when the email uniqueness constraint is violated, which is
// what makes concurrent activations of the same token safe.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*account.Account, error)
	CreateAccount(ctx context.Context, acct *account.Account) (*account.Account, error)
}

// IDGenerator is a function that generates a new account ID.
type IDGenerator func() string

// Hasher defines the interface for password hashing and verification.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) bool
}
