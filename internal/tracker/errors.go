package tracker

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound         = errors.New("tracker: account not found")
	ErrActivityNotFound = errors.New("tracker: activity not found")
)

// ValidationError carries the human-readable messages for every field
// that failed shape validation. It is recovered locally and surfaced to
// the client; it never crashes the process.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// DuplicateError reports a uniqueness violation, naming the offending
// field (username or email).
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("Oops! That %s is taken. Choose another.", e.Field)
}
