package tracker

import (
	"context"
	"sort"
	"sync"
	"time"

	"timetrack.org/internal/auth"
)

// InMemory implements Store with in-process concurrency safety. It backs
// the test suite and DSN-less development runs; production uses the
// Postgres store.
type InMemory struct {
	mu       sync.RWMutex
	accounts map[string]*Account
}

var _ Store = (*InMemory)(nil)
var _ auth.Directory = (*InMemory)(nil)

// NewInMemory creates an empty store.
func NewInMemory() *InMemory {
	return &InMemory{accounts: make(map[string]*Account)}
}

func (s *InMemory) CreateAccount(ctx context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if existing.Username == account.Username {
			return &DuplicateError{Field: "username"}
		}
		if existing.Email == account.Email {
			return &DuplicateError{Field: "email"}
		}
	}
	now := time.Now().UTC()
	stored := cloneAccount(account)
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.accounts[stored.ID] = stored
	account.CreatedAt = now
	account.UpdatedAt = now
	return nil
}

func (s *InMemory) FindAccount(ctx context.Context, id string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneAccount(account), nil
}

func (s *InMemory) FindAccountByUsername(ctx context.Context, username string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, account := range s.accounts {
		if account.Username == username {
			return cloneAccount(account), nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemory) ListAccounts(ctx context.Context) ([]*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		out = append(out, cloneAccount(account))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemory) AddActivity(ctx context.Context, accountID string, activity *Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	activity.CreatedAt = now
	activity.UpdatedAt = now
	account.Activities = append(account.Activities, *activity)
	account.UpdatedAt = now
	return nil
}

func (s *InMemory) RemoveActivity(ctx context.Context, accountID, activityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return ErrNotFound
	}
	for i, act := range account.Activities {
		if act.ID == activityID {
			account.Activities = append(account.Activities[:i], account.Activities[i+1:]...)
			account.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrActivityNotFound
}

func (s *InMemory) UpdateActivity(ctx context.Context, accountID, activityID string, patch ActivityPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return ErrNotFound
	}
	for i := range account.Activities {
		act := &account.Activities[i]
		if act.ID != activityID {
			continue
		}
		if patch.Activity != nil {
			act.Name = *patch.Activity
		}
		if patch.ActivityDuration != nil {
			act.Duration = *patch.ActivityDuration
		}
		if patch.ActivityDate != nil {
			act.Date = *patch.ActivityDate
		}
		act.UpdatedAt = time.Now().UTC()
		return nil
	}
	return ErrActivityNotFound
}

// FindIdentity implements auth.Directory.
func (s *InMemory) FindIdentity(ctx context.Context, id string) (auth.Identity, error) {
	account, err := s.FindAccount(ctx, id)
	if err != nil {
		return auth.Identity{}, auth.ErrNotFound
	}
	return account.Identity(), nil
}

// FindIdentityByUsername implements auth.Directory.
func (s *InMemory) FindIdentityByUsername(ctx context.Context, username string) (auth.Identity, error) {
	account, err := s.FindAccountByUsername(ctx, username)
	if err != nil {
		return auth.Identity{}, auth.ErrNotFound
	}
	return account.Identity(), nil
}

func cloneAccount(a *Account) *Account {
	out := *a
	out.Activities = make([]Activity, len(a.Activities))
	copy(out.Activities, a.Activities)
	return &out
}
