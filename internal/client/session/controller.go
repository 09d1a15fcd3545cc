// Package session implements the session/profile controller: the single
// owner of the authenticated session and the mirrored user profile record.
//
// The controller mediates every read and write of identity and profile
// state. All other components observe its snapshots and request mutations
// through its operations; none of them touch the session or profile
// directly.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/healthrocket/app/internal/client/api"
	"github.com/healthrocket/app/internal/client/models"
	"github.com/healthrocket/app/internal/common"
	"github.com/healthrocket/app/internal/logging"
)

// Route is the root routing decision derived from controller state.
type Route int

const (
	RouteLoading Route = iota
	RouteUnauthenticated
	RouteOnboarding
	RouteMain
)

func (r Route) String() string {
	switch r {
	case RouteLoading:
		return "loading"
	case RouteUnauthenticated:
		return "unauthenticated"
	case RouteOnboarding:
		return "onboarding"
	case RouteMain:
		return "main"
	}
	return "unknown"
}

// State is an immutable snapshot of {session, profile, loading}.
type State struct {
	Session *models.Session
	Profile *models.UserProfile
	Loading bool
}

type queuedEvent struct {
	event   api.AuthEvent
	session *models.Session
}

// Controller owns the session and the profile mirror.
//
// Auth-state events are consumed by a single goroutine in arrival order.
// Profile fetches triggered by those events run asynchronously; each fetch
// remembers the state version it was started under and its result is
// discarded if any later write has landed by the time it completes. The
// version check replaces cancellation: a slow fetch for a superseded session
// can never overwrite state written by a later event.
type Controller struct {
	client api.Client
	logger logging.Logger

	mu      sync.Mutex
	session *models.Session
	profile *models.UserProfile
	loading bool
	version uint64

	events      chan queuedEvent
	unsubscribe func()
	loopDone    chan struct{}
	fetches     sync.WaitGroup
}

func NewController(client api.Client, logger logging.Logger) *Controller {
	return &Controller{
		client: client,
		logger: logger,
		events: make(chan queuedEvent, 16),
	}
}

// Initialize resolves any existing session, subscribes to auth-state changes
// and, when a session was restored, starts the initial profile fetch. The
// subscription lives until Close.
func (c *Controller) Initialize(ctx context.Context) {
	s := c.client.Session()

	c.mu.Lock()
	c.session = s
	c.loading = s != nil
	version := c.version
	c.mu.Unlock()

	c.unsubscribe = c.client.OnAuthStateChange(func(event api.AuthEvent, session *models.Session) {
		c.events <- queuedEvent{event: event, session: session}
	})

	c.loopDone = make(chan struct{})
	go c.eventLoop()

	if s != nil {
		c.logger.Info(ctx, "session restored", "user_id", s.UserID)
		c.startFetch(s.UserID, version)
	} else {
		c.logger.Info(ctx, "no existing session")
	}
}

// Close releases the auth subscription and waits for the event loop and any
// in-flight fetches to finish. Intended for clean shutdown and tests.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	close(c.events)
	if c.loopDone != nil {
		<-c.loopDone
	}
	c.fetches.Wait()
}

func (c *Controller) eventLoop() {
	defer close(c.loopDone)
	for qe := range c.events {
		c.handleAuthEvent(qe.event, qe.session)
	}
}

func (c *Controller) handleAuthEvent(event api.AuthEvent, s *models.Session) {
	ctx := context.Background()

	switch event {
	case api.EventSignedOut:
		c.mu.Lock()
		c.session = nil
		c.profile = nil
		c.loading = false
		c.version++
		c.mu.Unlock()
		c.logger.Info(ctx, "signed out")

	case api.EventSignedIn:
		c.mu.Lock()
		c.session = s
		c.loading = true
		c.version++
		version := c.version
		c.mu.Unlock()
		c.logger.Info(ctx, "session resolved", "user_id", s.UserID)
		c.startFetch(s.UserID, version)

	case api.EventTokenRefreshed:
		c.mu.Lock()
		c.session = s
		c.mu.Unlock()
	}
}

func (c *Controller) startFetch(userID string, version uint64) {
	c.fetches.Add(1)
	go func() {
		defer c.fetches.Done()
		p, err := c.client.GetProfile(context.Background(), userID)
		c.commitFetch(version, p, err)
	}()
}

// commitFetch applies a completed profile fetch under the stale-response
// guard: results started under an older state version are dropped.
func (c *Controller) commitFetch(version uint64, p *models.UserProfile, err error) {
	ctx := context.Background()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.version != version {
		c.logger.Debug(ctx, "discarding stale profile fetch")
		return
	}
	c.loading = false

	switch {
	case err == nil:
		c.profile = p
	case errors.Is(err, common.ErrNotFound):
		// The row may not have propagated yet; treat as absent, not fatal.
		c.profile = nil
	default:
		c.logger.Error(ctx, "profile fetch failed", "err", err)
	}
}

// State returns a snapshot. The profile is a copy; mutating it has no effect
// on the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	var s *models.Session
	if c.session != nil {
		v := *c.session
		s = &v
	}
	return State{Session: s, Profile: c.profile.Clone(), Loading: c.loading}
}

// Route derives the root routing decision from the current state.
func (c *Controller) Route() Route {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.loading:
		return RouteLoading
	case c.session == nil:
		return RouteUnauthenticated
	case c.profile == nil || !c.profile.OnboardingCompleted:
		return RouteOnboarding
	default:
		return RouteMain
	}
}

// SignIn validates credentials with the auth service. The profile is not
// fetched here; the auth-change subscription takes care of that, surfaced to
// the UI via the loading flag.
func (c *Controller) SignIn(ctx context.Context, email, password string) error {
	_, err := c.client.SignInWithPassword(ctx, email, password)
	return err
}

// SignUp creates the identity, then the profile row with onboarding at the
// first step. A failed profile insert is returned as *ProfileCreationError:
// the identity exists without a profile and the caller must handle that.
// Launch-code bookkeeping runs last and never fails the sign-up.
func (c *Controller) SignUp(ctx context.Context, email, password, name, launchCode string) error {
	s, err := c.client.SignUp(ctx, email, password)
	if err != nil {
		return err
	}

	profile := &models.UserProfile{
		ID:                  s.UserID,
		Email:               s.Email,
		Name:                name,
		Level:               1,
		OnboardingCompleted: false,
		OnboardingStep:      models.StepMission,
	}

	created, err := c.client.CreateProfile(ctx, profile)
	if err != nil {
		c.logger.Error(ctx, "profile creation failed, identity exists without profile",
			"user_id", s.UserID, "err", err)
		return &common.ProfileCreationError{UserID: s.UserID, Err: err}
	}

	// Seed the mirror immediately so onboarding mounts without waiting for
	// the subscription's re-fetch.
	c.mu.Lock()
	c.profile = created
	c.loading = false
	c.version++
	c.mu.Unlock()
	c.logger.Info(ctx, "profile created", "user_id", created.ID, "onboarding_step", created.OnboardingStep)

	if launchCode != "" {
		c.consumeLaunchCode(ctx, s.UserID, launchCode)
	}
	return nil
}

// consumeLaunchCode records referral usage. The account and profile already
// exist at this point, so failures are logged and swallowed.
func (c *Controller) consumeLaunchCode(ctx context.Context, userID, code string) {
	lc, err := c.client.GetLaunchCode(ctx, strings.TrimSpace(code))
	if err != nil {
		c.logger.Warn(ctx, "launch code lookup failed", "code", code, "err", err)
		return
	}
	if err := c.client.RecordLaunchCodeUsage(ctx, userID, lc.ID); err != nil {
		c.logger.Warn(ctx, "launch code usage not recorded", "code", code, "err", err)
		return
	}
	c.logger.Info(ctx, "launch code recorded", "code", lc.Code, "user_id", userID)
}

// SignOut clears the profile mirror before the remote round trip so the UI
// cannot show stale gamification numbers, then invalidates the session. The
// local state stays cleared even when invalidation fails.
func (c *Controller) SignOut(ctx context.Context) error {
	c.mu.Lock()
	c.profile = nil
	c.version++
	c.mu.Unlock()

	return c.client.SignOut(ctx)
}

// RefreshProfile re-reads the profile row for the current session and commits
// it under the stale-response guard. "Row not found" clears the mirror
// without being treated as a hard error.
func (c *Controller) RefreshProfile(ctx context.Context) error {
	c.mu.Lock()
	sess := c.session
	version := c.version
	c.mu.Unlock()

	if sess == nil {
		return api.ErrNoSession
	}

	p, err := c.client.GetProfile(ctx, sess.UserID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.version != version {
		c.logger.Debug(ctx, "discarding stale profile refresh")
		return nil
	}
	c.loading = false

	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.profile = nil
			c.version++
			return nil
		}
		return &common.ProfilePersistenceError{Op: "fetch profile", Err: err}
	}
	c.profile = p
	c.version++
	return nil
}
