package tracker

import (
	"context"

	"timetrack.org/internal/auth"
	"timetrack.org/internal/ids"
)

// Service implements the account and activity operations over a Store.
// It owns validation and the hash-before-persist rule: plaintext
// passwords are replaced with a bcrypt digest before the store ever sees
// the record, and they are never logged.
type Service struct {
	store    Store
	hashCost int
}

// NewService constructs a Service. hashCost is the bcrypt work factor,
// a deliberate latency/security tradeoff fixed at startup.
func NewService(store Store, hashCost int) *Service {
	return &Service{store: store, hashCost: hashCost}
}

// Register validates the registration input, hashes the password and
// creates the account with the default user role. Role is never taken
// from the caller.
func (s *Service) Register(ctx context.Context, in NewAccountInput) (*Account, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	digest, err := auth.HashPassword(in.Password, s.hashCost)
	if err != nil {
		return nil, err
	}
	account := &Account{
		ID:           ids.New(),
		Username:     in.Username,
		PasswordHash: digest,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Role:         auth.RoleUser,
		Activities:   []Activity{},
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount loads one account with its activities.
func (s *Service) GetAccount(ctx context.Context, id string) (*Account, error) {
	if !ids.Valid(id) {
		return nil, ErrNotFound
	}
	return s.store.FindAccount(ctx, id)
}

// ListAccounts returns every account.
func (s *Service) ListAccounts(ctx context.Context) ([]*Account, error) {
	return s.store.ListAccounts(ctx)
}

// AddActivity creates a time entry and attaches it to the account,
// returning the updated account. Attachment happens only after the
// activity is durably created; a rejection leaves no partial mutation.
func (s *Service) AddActivity(ctx context.Context, accountID string, in NewActivityInput) (*Account, error) {
	if !ids.Valid(accountID) {
		return nil, ErrNotFound
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	activity := &Activity{
		ID:       ids.New(),
		Name:     in.Activity,
		Duration: in.ActivityDuration,
		Date:     in.ActivityDate,
	}
	if err := s.store.AddActivity(ctx, accountID, activity); err != nil {
		return nil, err
	}
	return s.store.FindAccount(ctx, accountID)
}

// RemoveActivity deletes the activity and drops it from the account's
// list.
func (s *Service) RemoveActivity(ctx context.Context, accountID, activityID string) error {
	if !ids.Valid(accountID) {
		return ErrNotFound
	}
	if !ids.Valid(activityID) {
		return ErrActivityNotFound
	}
	return s.store.RemoveActivity(ctx, accountID, activityID)
}

// UpdateActivity applies a partial update to an activity the account
// owns.
func (s *Service) UpdateActivity(ctx context.Context, accountID, activityID string, patch ActivityPatch) error {
	if !ids.Valid(accountID) {
		return ErrNotFound
	}
	if !ids.Valid(activityID) {
		return ErrActivityNotFound
	}
	if patch.Empty() {
		return nil
	}
	return s.store.UpdateActivity(ctx, accountID, activityID, patch)
}
