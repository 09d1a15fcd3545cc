// Package onboarding implements the onboarding sequencer: a fixed-order
// wizard over the persisted onboarding_step field, with persist-then-advance
// semantics. The remote row is the source of truth; the local position only
// moves after the corresponding write has been committed.
package onboarding

import (
	"context"

	"github.com/healthrocket/app/internal/client/api"
	"github.com/healthrocket/app/internal/client/models"
	"github.com/healthrocket/app/internal/client/session"
	"github.com/healthrocket/app/internal/common"
	"github.com/healthrocket/app/internal/logging"
)

// NextStep returns the step following s in the wizard order. ok is false for
// the last step (launch) and for unknown tags.
func NextStep(s string) (next string, ok bool) {
	switch s {
	case models.StepMission:
		return models.StepBurnStreak, true
	case models.StepBurnStreak:
		return models.StepCommunity, true
	case models.StepCommunity:
		return models.StepHealthAssessment, true
	case models.StepHealthAssessment:
		return models.StepLaunch, true
	}
	return "", false
}

// Sequencer drives one user's onboarding. It is bound to the screen loop that
// created it and is not safe for concurrent use.
type Sequencer struct {
	ctrl   *session.Controller
	client api.Client
	logger logging.Logger

	step      string
	completed bool
}

// NewSequencer positions the wizard at the step persisted on the profile. A
// missing profile row or an unrecognized step tag falls back to the first
// step so the user is never stranded on a screen that does not exist.
func NewSequencer(ctrl *session.Controller, client api.Client, logger logging.Logger) *Sequencer {
	s := &Sequencer{ctrl: ctrl, client: client, logger: logger, step: models.StepMission}

	p := ctrl.State().Profile
	if p == nil {
		return s
	}
	s.completed = p.OnboardingCompleted
	switch {
	case models.KnownStep(p.OnboardingStep):
		s.step = p.OnboardingStep
	case p.OnboardingStep != "" && !s.completed:
		logger.Error(context.Background(), "unrecognized onboarding step, restarting from first",
			"user_id", p.ID, "onboarding_step", p.OnboardingStep)
	}
	return s
}

// Step returns the wizard's current step tag.
func (s *Sequencer) Step() string { return s.step }

// Completed reports whether the terminal completion update has landed.
func (s *Sequencer) Completed() bool { return s.completed }

func (s *Sequencer) userID() (string, error) {
	st := s.ctrl.State()
	if st.Session == nil {
		return "", api.ErrNoSession
	}
	return st.Session.UserID, nil
}

// Advance persists the next step, then moves the local position. From the
// last step it performs the terminal completion update instead. The local
// position never moves when the write fails.
func (s *Sequencer) Advance(ctx context.Context) error {
	if s.completed {
		return nil
	}
	next, ok := NextStep(s.step)
	if !ok {
		return s.Complete(ctx)
	}

	userID, err := s.userID()
	if err != nil {
		return err
	}
	if _, err := s.client.UpdateProfile(ctx, userID, api.ProfilePatch{OnboardingStep: &next}); err != nil {
		return &common.ProfilePersistenceError{Op: "advance onboarding step", Err: err}
	}

	s.step = next
	s.logger.Info(ctx, "onboarding step advanced", "user_id", userID, "onboarding_step", next)
	return nil
}

// Skip jumps straight to the terminal completion update from any step.
func (s *Sequencer) Skip(ctx context.Context) error {
	if s.completed {
		return nil
	}
	return s.Complete(ctx)
}

// Complete persists onboarding_completed=true, then asks the controller to
// re-read the profile so routing switches to the main app. The re-fetch is
// best effort: the flag is already durable when it runs.
func (s *Sequencer) Complete(ctx context.Context) error {
	userID, err := s.userID()
	if err != nil {
		return err
	}

	done := true
	if _, err := s.client.UpdateProfile(ctx, userID, api.ProfilePatch{OnboardingCompleted: &done}); err != nil {
		return &common.ProfilePersistenceError{Op: "complete onboarding", Err: err}
	}
	s.completed = true
	s.logger.Info(ctx, "onboarding completed", "user_id", userID)

	if err := s.ctrl.RefreshProfile(ctx); err != nil {
		s.logger.Warn(ctx, "profile refresh after onboarding completion failed", "err", err)
	}
	return nil
}

// CompleteAssessment commits a finished health assessment: the append-only
// assessment record first, then one combined profile patch carrying the new
// score, the healthspan projection, the incremented completion counter and
// the step advance to launch. Any failure surfaces before the local position
// moves, leaving the wizard on the assessment screen for a retry.
func (s *Sequencer) CompleteAssessment(ctx context.Context, a *Assessment) error {
	if s.step != models.StepHealthAssessment {
		return &common.DataIntegrityError{Field: "onboarding_step", Value: s.step}
	}

	userID, err := s.userID()
	if err != nil {
		return err
	}

	if err := s.client.CreateAssessment(ctx, a.Record(userID)); err != nil {
		return &common.ProfilePersistenceError{Op: "record health assessment", Err: err}
	}

	completedCount := 1
	if p := s.ctrl.State().Profile; p != nil {
		completedCount = p.HealthAssessmentsCompleted + 1
	}
	score := a.Score()
	years := a.HealthspanYears()
	next := models.StepLaunch

	patch := api.ProfilePatch{
		HealthScore:                &score,
		HealthspanYears:            &years,
		HealthAssessmentsCompleted: &completedCount,
		OnboardingStep:             &next,
	}
	if _, err := s.client.UpdateProfile(ctx, userID, patch); err != nil {
		return &common.ProfilePersistenceError{Op: "apply health assessment results", Err: err}
	}

	s.step = next
	s.logger.Info(ctx, "health assessment completed",
		"user_id", userID, "score", score, "healthspan_years", years)

	if err := s.ctrl.RefreshProfile(ctx); err != nil {
		s.logger.Warn(ctx, "profile refresh after assessment failed", "err", err)
	}
	return nil
}
