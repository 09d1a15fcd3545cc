package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthenticationError_MessageSurfacedVerbatim(t *testing.T) {
	e := &AuthenticationError{Message: "Invalid login credentials", Err: ErrUnauthorized}
	require.Equal(t, "Invalid login credentials", e.Error())
	require.ErrorIs(t, e, ErrUnauthorized)
}

func TestProfileCreationError_DistinctFromAuthenticationError(t *testing.T) {
	var err error = &ProfileCreationError{UserID: "u-1", Err: errors.New("insert failed")}

	var pce *ProfileCreationError
	require.ErrorAs(t, err, &pce)
	require.Equal(t, "u-1", pce.UserID)

	var ae *AuthenticationError
	require.False(t, errors.As(err, &ae))
}

func TestProfilePersistenceError_WrapsCause(t *testing.T) {
	cause := errors.New("network down")
	err := fmt.Errorf("advance step: %w", &ProfilePersistenceError{Op: "update profile", Err: cause})
	require.ErrorIs(t, err, cause)

	var ppe *ProfilePersistenceError
	require.ErrorAs(t, err, &ppe)
	require.Equal(t, "update profile", ppe.Op)
}

func TestDataIntegrityError_NamesFieldAndValue(t *testing.T) {
	e := &DataIntegrityError{Field: "onboarding_step", Value: "warp-drive"}
	require.Contains(t, e.Error(), "onboarding_step")
	require.Contains(t, e.Error(), "warp-drive")
}
