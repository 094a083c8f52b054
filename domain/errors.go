package domain

import "errors"

// Sentinel errors shared across the signup and activation flows. Handlers map
// these to HTTP status codes; callers use errors.Is to branch on the kind.
var (
	// ErrEmailAlreadyRegistered is returned at signup time when the submitted
	// email already owns an account. No token is issued in that case.
	ErrEmailAlreadyRegistered = errors.New("email already registered")

	// ErrInvalidToken is returned when an activation token fails signature
	// verification or cannot be decoded.
	ErrInvalidToken = errors.New("invalid activation token")

	// ErrTokenExpired is returned when an otherwise valid activation token is
	// presented after its expiry window.
	ErrTokenExpired = errors.New("activation token expired")

	// ErrAlreadyActivated is returned when activating a token whose email
	// already owns an account, including replays of an already consumed token.
	ErrAlreadyActivated = errors.New("account already activated")

	// ErrInvalidCredentials is returned at signin time for an unknown email or
	// a password mismatch. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound is returned by stores when a lookup matches no record.
	// Distinct from lookup failure (ErrStorageUnavailable).
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned by stores when an insert violates the
	// email uniqueness constraint.
	ErrDuplicateEmail = errors.New("duplicate email")

	// ErrStorageUnavailable wraps transient store failures. Safe to retry.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
