// Package errs defines the error taxonomy every collaborator call is
// normalized into at the storage boundary. Raw driver errors never cross
// into the services or the session manager.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned by every operation when the required
	// backend settings (storage connection string, session secret) are
	// absent. Never retried.
	ErrNotConfigured = errors.New("backend is not configured")

	// ErrInvalidCredentials covers wrong email/password pairs.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned on sign-up with an already registered email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrNotFound is returned when an expected profile or subscription
	// record is missing.
	ErrNotFound = errors.New("record not found")

	// ErrTransient wraps network or backend failures on otherwise valid
	// requests. The caller may retry at its own discretion.
	ErrTransient = errors.New("temporary backend failure")
)

// PartialFailure reports a multi-step write that completed its first step
// but failed its second: a ledger record exists without a matching profile
// state. It is distinct from a clean failure so reconciliation is possible.
type PartialFailure struct {
	RecordID string // the orphaned subscription record
	Step     string // the step that failed
	Err      error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("partial failure at %s (record %s): %v", e.Step, e.RecordID, e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }

// Transient wraps err as a transient failure, keeping the original cause
// available through errors.Is/As.
func Transient(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrTransient, err)
}
