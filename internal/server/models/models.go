// Package models defines the server-side persistence models.
package models

import "time"

// Identity is an authentication record: credentials only, no profile data.
type Identity struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// RefreshToken is an opaque long-lived token bound to one identity.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Profile is the per-user application record, keyed by the identity id.
type Profile struct {
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

// ProfilePatch is a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	Name                       *string  `json:"name"`
	HealthScore                *float64 `json:"health_score"`
	HealthspanYears            *float64 `json:"healthspan_years"`
	HealthAssessmentsCompleted *int     `json:"health_assessments_completed"`
	OnboardingCompleted        *bool    `json:"onboarding_completed"`
	OnboardingStep             *string  `json:"onboarding_step"`
}

// Assessment is one appended health self-assessment snapshot.
type Assessment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Mindset    int       `json:"mindset"`
	Sleep      int       `json:"sleep"`
	Exercise   int       `json:"exercise"`
	Nutrition  int       `json:"nutrition"`
	Biohacking int       `json:"biohacking"`
	Score      float64   `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// LaunchCode is a referral/invite code.
type LaunchCode struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	IsActive bool   `json:"is_active"`
}
