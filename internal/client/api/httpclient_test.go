package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/healthrocket/app/internal/client/models"
	"github.com/healthrocket/app/internal/common"
	"github.com/healthrocket/app/internal/logging"
)

// ---- helpers ----

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// memCache is an in-memory tokencache.Repository.
type memCache struct {
	s        *models.Session
	setCalls int
}

func (m *memCache) Get(ctx context.Context) (*models.Session, error) {
	if m.s == nil {
		return nil, nil
	}
	s := *m.s
	return &s, nil
}

func (m *memCache) Set(ctx context.Context, s *models.Session) error {
	v := *s
	m.s = &v
	m.setCalls++
	return nil
}

func (m *memCache) Clear(ctx context.Context) error {
	m.s = nil
	return nil
}

func writeSession(w http.ResponseWriter, token, userID string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token":  token,
		"refresh_token": "refresh-" + token,
		"expires_at":    time.Now().Add(time.Hour).UTC(),
		"user":          map[string]string{"id": userID, "email": "a@b.c"},
	})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func newClient(t *testing.T, srv *httptest.Server, cache *memCache) *HTTPClient {
	t.Helper()
	c, err := NewHTTPClient(context.Background(), srv.URL, "test-key", cache, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// ---- TESTS ----

func TestHTTPClient_SignIn_SetsSessionAndNotifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get(common.APIKeyHeaderName))
		writeSession(w, "token-1", "u-1")
	}))
	defer srv.Close()

	cache := &memCache{}
	c := newClient(t, srv, cache)

	var events []AuthEvent
	c.OnAuthStateChange(func(ev AuthEvent, s *models.Session) {
		events = append(events, ev)
		require.NotNil(t, s)
		require.Equal(t, "u-1", s.UserID)
	})

	s, err := c.SignInWithPassword(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	require.Equal(t, "token-1", s.AccessToken)
	require.Equal(t, []AuthEvent{EventSignedIn}, events)
	require.Equal(t, 1, cache.setCalls)
	require.NotNil(t, c.Session())
}

func TestHTTPClient_SignIn_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusUnauthorized, "Invalid login credentials")
	}))
	defer srv.Close()

	c := newClient(t, srv, &memCache{})

	_, err := c.SignInWithPassword(context.Background(), "a@b.c", "wrong")
	var ae *common.AuthenticationError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, "Invalid login credentials", ae.Message)
	require.Nil(t, c.Session())
}

func TestHTTPClient_RestoresCachedSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	cache := &memCache{s: &models.Session{AccessToken: "cached", UserID: "u-9"}}
	c := newClient(t, srv, cache)

	s := c.Session()
	require.NotNil(t, s)
	require.Equal(t, "u-9", s.UserID)
}

func TestHTTPClient_GetProfile_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "profile not found")
	}))
	defer srv.Close()

	cache := &memCache{s: &models.Session{AccessToken: "at", UserID: "u-1"}}
	c := newClient(t, srv, cache)

	_, err := c.GetProfile(context.Background(), "u-1")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestHTTPClient_RefreshesExpiredTokenAndReplays(t *testing.T) {
	var profileCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/profiles/u-1":
			profileCalls++
			if r.Header.Get("Authorization") == "Bearer stale" {
				writeError(w, http.StatusUnauthorized, common.ErrTokenExpired.Error())
				return
			}
			require.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(models.UserProfile{ID: "u-1", OnboardingStep: models.StepMission})
		case "/api/auth/refresh":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			require.Equal(t, "old-refresh", body["refresh_token"])
			writeSession(w, "fresh", "u-1")
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	cache := &memCache{s: &models.Session{AccessToken: "stale", RefreshToken: "old-refresh", UserID: "u-1"}}
	c := newClient(t, srv, cache)

	var events []AuthEvent
	c.OnAuthStateChange(func(ev AuthEvent, s *models.Session) { events = append(events, ev) })

	p, err := c.GetProfile(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, "u-1", p.ID)
	require.Equal(t, 2, profileCalls)
	require.Equal(t, []AuthEvent{EventTokenRefreshed}, events)
	require.Equal(t, "fresh", c.Session().AccessToken)
}

func TestHTTPClient_SignOut_ClearsSessionEvenOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusInternalServerError, "backend on fire")
	}))
	defer srv.Close()

	cache := &memCache{s: &models.Session{AccessToken: "at", UserID: "u-1"}}
	c := newClient(t, srv, cache)

	var events []AuthEvent
	c.OnAuthStateChange(func(ev AuthEvent, s *models.Session) {
		events = append(events, ev)
		require.Nil(t, s)
	})

	err := c.SignOut(context.Background())
	require.Error(t, err)
	require.Nil(t, c.Session())
	require.Nil(t, cache.s)
	require.Equal(t, []AuthEvent{EventSignedOut}, events)
}

func TestHTTPClient_GetLaunchCode_NormalizesCase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/launch-codes/ROCKET1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.LaunchCode{ID: "lc-1", Code: "ROCKET1", IsActive: true})
	}))
	defer srv.Close()

	cache := &memCache{s: &models.Session{AccessToken: "at", UserID: "u-1"}}
	c := newClient(t, srv, cache)

	lc, err := c.GetLaunchCode(context.Background(), "  rocket1 ")
	require.NoError(t, err)
	require.True(t, lc.IsActive)
}

func TestHTTPClient_Unsubscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeSession(w, "t", "u-1")
	}))
	defer srv.Close()

	c := newClient(t, srv, &memCache{})

	calls := 0
	unsubscribe := c.OnAuthStateChange(func(ev AuthEvent, s *models.Session) { calls++ })
	unsubscribe()

	_, err := c.SignInWithPassword(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	require.Zero(t, calls)
}

func TestHTTPClient_AuthedRequestWithoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := newClient(t, srv, &memCache{})

	_, err := c.GetProfile(context.Background(), "u-1")
	require.ErrorIs(t, err, ErrNoSession)
}
