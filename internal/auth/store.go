package auth

import "context"

// Directory is the account lookup surface the auth subsystem requires.
// Both lookups return ErrNotFound for a miss; they never error on "no
// such account". The tracker stores implement this interface.
type Directory interface {
	FindIdentity(ctx context.Context, id string) (Identity, error)
	FindIdentityByUsername(ctx context.Context, username string) (Identity, error)
}
