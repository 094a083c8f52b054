// Package account provides the core account types for the auth server.
//
// An Account only materializes in storage once its owner has confirmed the
// signup email; the submitted signup data lives exclusively inside the signed
// activation token until then.
package account

import "time"

// Account represents a confirmed user account. Created exactly once per
// activated signup; the email is unique across all accounts.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// SignupRequest carries a signup submission through token issuance. It is
// transient and never persisted directly.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
