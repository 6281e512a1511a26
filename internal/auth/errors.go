package auth

import "errors"

var (
	// ErrInvalidToken covers malformed, tampered and expired tokens.
	// The gate never distinguishes these to callers.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrMissingAccount is returned by Login when no account matches the
	// supplied username.
	ErrMissingAccount = errors.New("auth: account not found")

	// ErrBadPassword is returned by Login when the password does not
	// verify against the stored digest.
	ErrBadPassword = errors.New("auth: bad password")

	// ErrDenied is returned by the authorization rules.
	ErrDenied = errors.New("auth: permission denied")

	// ErrNotFound is reported by Directory implementations for unknown
	// ids or usernames. Lookup misses are a result, not a failure.
	ErrNotFound = errors.New("auth: not found")
)
