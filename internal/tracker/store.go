package tracker

import "context"

// Store is the persistence surface for accounts and activities. The
// store is the sole arbiter of the username/email uniqueness invariant:
// concurrent registrations race in the store, not here, and the loser
// receives a DuplicateError naming the field.
//
// Accounts come back with their activity list populated in attach order.
type Store interface {
	CreateAccount(ctx context.Context, account *Account) error
	FindAccount(ctx context.Context, id string) (*Account, error)
	FindAccountByUsername(ctx context.Context, username string) (*Account, error)
	ListAccounts(ctx context.Context) ([]*Account, error)

	// AddActivity durably creates the activity and attaches it to the
	// account in one step; an activity never exists unattached.
	AddActivity(ctx context.Context, accountID string, activity *Activity) error

	// RemoveActivity detaches and deletes the activity atomically.
	// ErrActivityNotFound when the account does not own activityID.
	RemoveActivity(ctx context.Context, accountID, activityID string) error

	// UpdateActivity applies the patch to an activity owned by the
	// account.
	UpdateActivity(ctx context.Context, accountID, activityID string, patch ActivityPatch) error
}
