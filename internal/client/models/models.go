// Package models defines client-side data models mirrored from the remote
// record store.
package models

import "time"

// Onboarding step tags persisted on the profile. The wizard order is fixed:
// mission, burn-streak, community, health-assessment, launch.
const (
	StepMission          = "mission"
	StepBurnStreak       = "burn-streak"
	StepCommunity        = "community"
	StepHealthAssessment = "health-assessment"
	StepLaunch           = "launch"
)

// KnownStep reports whether s is one of the wizard's step tags.
func KnownStep(s string) bool {
	switch s {
	case StepMission, StepBurnStreak, StepCommunity, StepHealthAssessment, StepLaunch:
		return true
	}
	return false
}

// Session is the credential bundle issued by the auth service. It is owned by
// the API client and read-only everywhere else.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
}

// UserProfile is the per-user application record, keyed by the identity id.
type UserProfile struct {
	ID                         string    `json:"id"`
	Email                      string    `json:"email"`
	Name                       string    `json:"name"`
	FuelPoints                 int       `json:"fuel_points"`
	Level                      int       `json:"level"`
	BurnStreak                 int       `json:"burn_streak"`
	HealthScore                float64   `json:"health_score"`
	HealthspanYears            float64   `json:"healthspan_years"`
	HealthAssessmentsCompleted int       `json:"health_assessments_completed"`
	OnboardingCompleted        bool      `json:"onboarding_completed"`
	OnboardingStep             string    `json:"onboarding_step"`
	CreatedAt                  time.Time `json:"created_at"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

// Clone returns a copy so observers cannot mutate the controller's mirror.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// HealthAssessment is one completed self-assessment: five category ratings,
// the derived score, and a timestamp. Append-only; never mutated.
type HealthAssessment struct {
	ID         string    `json:"id,omitempty"`
	UserID     string    `json:"user_id"`
	Mindset    int       `json:"mindset"`
	Sleep      int       `json:"sleep"`
	Exercise   int       `json:"exercise"`
	Nutrition  int       `json:"nutrition"`
	Biohacking int       `json:"biohacking"`
	Score      float64   `json:"score"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// LaunchCode is a referral/invite code consumed at sign-up.
type LaunchCode struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	IsActive bool   `json:"is_active"`
}
