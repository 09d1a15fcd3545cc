// Package api defines the remote service contract the Health Rocket client
// depends on: session issuance and validation on the auth side, and a
// record-oriented store for profiles, assessments and launch codes.
package api

import (
	"context"

	"github.com/healthrocket/app/internal/client/models"
)

// AuthEvent identifies a change in the underlying identity state.
type AuthEvent string

const (
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// AuthCallback receives auth-state changes. Events are delivered in the order
// the identity state changed; session is nil for EventSignedOut.
type AuthCallback func(event AuthEvent, session *models.Session)

// ProfilePatch is a partial profile update. Nil fields are left untouched.
// The remote store applies a patch to a single row atomically.
type ProfilePatch struct {
	Name                       *string  `json:"name,omitempty"`
	HealthScore                *float64 `json:"health_score,omitempty"`
	HealthspanYears            *float64 `json:"healthspan_years,omitempty"`
	HealthAssessmentsCompleted *int     `json:"health_assessments_completed,omitempty"`
	OnboardingCompleted        *bool    `json:"onboarding_completed,omitempty"`
	OnboardingStep             *string  `json:"onboarding_step,omitempty"`
}

// Client is the boundary to the external auth and persistence services.
//
// Contract:
//   - SignUp / SignInWithPassword: create or validate credentials and issue a
//     session. Failures are *common.AuthenticationError.
//   - SignOut: invalidate the current session. The local session is cleared
//     and EventSignedOut is emitted even when the remote call fails.
//   - Session: the current session, restored from the local token cache at
//     startup; nil when signed out.
//   - OnAuthStateChange: subscribe to auth events; the returned func removes
//     the subscription.
//   - GetProfile: common.ErrNotFound when the row does not exist.
//   - GetLaunchCode: case-insensitive lookup of an active code;
//     common.ErrNotFound when absent or inactive.
//
// All methods must honor context cancellation/timeouts.
type Client interface {
	SignUp(ctx context.Context, email, password string) (*models.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context) error
	Session() *models.Session
	OnAuthStateChange(cb AuthCallback) (unsubscribe func())

	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	CreateProfile(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*models.UserProfile, error)
	CreateAssessment(ctx context.Context, assessment *models.HealthAssessment) error
	GetLaunchCode(ctx context.Context, code string) (*models.LaunchCode, error)
	RecordLaunchCodeUsage(ctx context.Context, userID, codeID string) error

	Close() error
}
