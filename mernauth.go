// Package mernauth provides email-confirmation based account signup for web
// applications.
//
// Signup is two-phase: submitting signup data issues a signed, expiring token
// carrying the pending account (with the password already hashed) and emails
// an activation link; the account is only created when the token is presented
// back, and at most once per email no matter how often a token is replayed.
//
// # Subpackages
//
//   - flow: signup, activation, and signin flows plus token issuance
//   - mailer: asynchronous activation-email dispatch over SMTP
//   - persistence: GORM account store (sqlite, postgres, mysql)
//   - session: stateless JWT sessions issued at signin
//   - api: Echo HTTP handlers
//   - config, logger, health: service plumbing
//
// # Quick Start
//
//	store, _ := persistence.NewStorage("sqlite", "auth.db", nil)
//	issuer := flow.NewTokenIssuer(key, 10*time.Minute, 30*time.Second)
//	signup := mernauth.NewDefaultSignupManager(store, issuer, dispatcher, clientURL)
//	activation := mernauth.NewDefaultActivationManager(store, issuer)
package mernauth

import (
	"github.com/google/uuid"

	"github.com/redshot/mern-auth-server/domain"
	"github.com/redshot/mern-auth-server/flow"
)

// NewDefaultSignupManager creates a SignupManager with bcrypt hashing.
func NewDefaultSignupManager(store domain.AccountStore, issuer *flow.TokenIssuer, sender flow.ActivationSender, clientURL string) *flow.SignupManager {
	return flow.NewSignupManager(store, flow.NewBcryptHasher(14), issuer, sender, clientURL)
}

// NewDefaultActivationManager creates an ActivationManager with UUID account IDs.
func NewDefaultActivationManager(store domain.AccountStore, issuer *flow.TokenIssuer) *flow.ActivationManager {
	m := flow.NewActivationManager(store, issuer)
	m.SetIDGenerator(func() string { return uuid.New().String() })
	return m
}

// NewDefaultLoginManager creates a LoginManager with bcrypt verification.
func NewDefaultLoginManager(store domain.AccountStore) *flow.LoginManager {
	return flow.NewLoginManager(store, flow.NewBcryptHasher(14))
}
