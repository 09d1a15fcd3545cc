// Package common defines shared constants and sentinel errors used across
// client and server layers of Health Rocket. Callers should use errors.Is and
// errors.As to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// AuthenticationError reports a failed credential check, an unconfirmed
// account, or rate limiting by the auth service. The message is surfaced to
// the user verbatim and is never retried automatically.
type AuthenticationError struct {
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// ProfileCreationError means the identity was created but the profile row
// insert failed, leaving an orphaned identity. It must stay distinguishable
// from AuthenticationError so operators can reconcile the account manually.
type ProfileCreationError struct {
	UserID string
	Err    error
}

func (e *ProfileCreationError) Error() string {
	return fmt.Sprintf("profile creation failed for user %s: %v", e.UserID, e.Err)
}

func (e *ProfileCreationError) Unwrap() error {
	return e.Err
}

// ProfilePersistenceError wraps a failed read or update against the profile
// or assessment tables after initial creation. Callers recover by refusing to
// advance state and offering a retry.
type ProfilePersistenceError struct {
	Op  string
	Err error
}

func (e *ProfilePersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProfilePersistenceError) Unwrap() error {
	return e.Err
}

// DataIntegrityError reports a persisted field holding a value outside its
// known set, e.g. an unrecognized onboarding step on an incomplete profile.
type DataIntegrityError struct {
	Field string
	Value string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity: unexpected %s value %q", e.Field, e.Value)
}
