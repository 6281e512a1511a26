package auth

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Service ties the credential hasher, the token service and the account
// directory together: it owns the login flow and token-to-principal
// resolution. It holds no mutable state and is safe for concurrent use.
type Service struct {
	directory Directory
	tokens    *TokenService
}

// NewService constructs a Service.
func NewService(directory Directory, tokens *TokenService) *Service {
	return &Service{directory: directory, tokens: tokens}
}

// Login authenticates username/password credentials and issues a bearer
// token. An unknown username yields ErrMissingAccount before the password
// is ever inspected; a known account with a non-verifying password yields
// ErrBadPassword. The two cases are deliberately distinguishable for
// client display, which leaks account existence — a documented tradeoff,
// not an oversight.
func (s *Service) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return "", time.Time{}, ErrMissingAccount
	}
	identity, err := s.directory.FindIdentityByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", time.Time{}, ErrMissingAccount
		}
		return "", time.Time{}, err
	}
	if !VerifyPassword(identity.PasswordHash, password) {
		return "", time.Time{}, ErrBadPassword
	}
	return s.tokens.Issue(identity)
}

// Authenticate resolves a raw bearer token to a principal. The claims are
// trusted for username, email and role; the subject id must still resolve
// to an existing account, so deleted accounts lose access immediately
// even while their tokens are unexpired.
func (s *Service) Authenticate(ctx context.Context, token string) (Principal, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return Principal{}, ErrInvalidToken
	}
	if _, err := s.directory.FindIdentity(ctx, claims.Subject); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Principal{}, ErrInvalidToken
		}
		return Principal{}, err
	}
	return Principal{
		ID:       claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     claims.Role,
	}, nil
}
