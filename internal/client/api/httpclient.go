package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/healthrocket/app/internal/client/models"
	"github.com/healthrocket/app/internal/client/tokencache"
	"github.com/healthrocket/app/internal/common"
	"github.com/healthrocket/app/internal/logging"
)

// HTTPClient is the Client implementation over the service's REST/JSON API.
// It owns the session: it attaches the access token to outbound requests,
// transparently refreshes an expired token once per request, persists the
// session in the local token cache, and notifies subscribers about
// auth-state changes in the order they occur.
type HTTPClient struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	cache   tokencache.Repository
	logger  logging.Logger

	mu      sync.Mutex
	session *models.Session
	subs    []subscriber
	nextID  int
}

type subscriber struct {
	id int
	cb AuthCallback
}

// statusError carries a non-2xx response; the message is the server's.
type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.code, e.msg)
}

// NewHTTPClient builds a client for the service at baseURL and restores any
// cached session so the caller can resume it without re-authenticating.
func NewHTTPClient(ctx context.Context, baseURL, apiKey string, cache tokencache.Repository, logger logging.Logger) (*HTTPClient, error) {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		cache:   cache,
		logger:  logger,
	}

	s, err := cache.Get(ctx)
	if err != nil {
		logger.Warn(ctx, "could not restore cached session", "err", err)
	} else {
		c.session = s
	}
	return c, nil
}

func (c *HTTPClient) Close() error {
	c.httpc.CloseIdleConnections()
	return nil
}

// Session returns a copy of the current session, or nil when signed out.
func (c *HTTPClient) Session() *models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// OnAuthStateChange registers cb for auth events. Callbacks run synchronously
// in registration order, so events are observed in the order they occurred.
func (c *HTTPClient) OnAuthStateChange(cb AuthCallback) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber{id: id, cb: cb})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

func (c *HTTPClient) emit(event AuthEvent, session *models.Session) {
	c.mu.Lock()
	subs := make([]subscriber, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		var cp *models.Session
		if session != nil {
			v := *session
			cp = &v
		}
		s.cb(event, cp)
	}
}

func (c *HTTPClient) setSession(ctx context.Context, s *models.Session, event AuthEvent) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()

	if err := c.cache.Set(ctx, s); err != nil {
		c.logger.Warn(ctx, "could not cache session", "err", err)
	}
	c.emit(event, s)
}

func (c *HTTPClient) clearSession(ctx context.Context) {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()

	if err := c.cache.Clear(ctx); err != nil {
		c.logger.Warn(ctx, "could not clear cached session", "err", err)
	}
	c.emit(EventSignedOut, nil)
}

// wireSession is the auth endpoints' response shape.
type wireSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (w *wireSession) toSession() *models.Session {
	return &models.Session{
		AccessToken:  w.AccessToken,
		RefreshToken: w.RefreshToken,
		ExpiresAt:    w.ExpiresAt,
		UserID:       w.User.ID,
		Email:        w.User.Email,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	var ws wireSession
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", credentials{Email: email, Password: password}, &ws, false)
	if err != nil {
		return nil, asAuthError(err)
	}

	s := ws.toSession()
	c.setSession(ctx, s, EventSignedIn)
	return s, nil
}

func (c *HTTPClient) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	var ws wireSession
	err := c.do(ctx, http.MethodPost, "/api/auth/login", credentials{Email: email, Password: password}, &ws, false)
	if err != nil {
		return nil, asAuthError(err)
	}

	s := ws.toSession()
	c.setSession(ctx, s, EventSignedIn)
	return s, nil
}

// SignOut invalidates the session remotely. The local session is cleared and
// EventSignedOut emitted whether or not the remote call succeeds; the remote
// error, if any, is returned for the caller to surface.
func (c *HTTPClient) SignOut(ctx context.Context) error {
	if c.Session() == nil {
		return nil
	}

	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, true)
	c.clearSession(ctx)
	return err
}

// refresh exchanges the refresh token for a new session. Called from do on an
// expired-token response.
func (c *HTTPClient) refresh(ctx context.Context) error {
	s := c.Session()
	if s == nil || s.RefreshToken == "" {
		return ErrNoSession
	}

	body := map[string]string{"refresh_token": s.RefreshToken}
	var ws wireSession
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", body, &ws, false); err != nil {
		return err
	}

	ns := ws.toSession()
	if ns.UserID == "" {
		ns.UserID = s.UserID
		ns.Email = s.Email
	}
	c.setSession(ctx, ns, EventTokenRefreshed)
	return nil
}

func (c *HTTPClient) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var p models.UserProfile
	err := c.do(ctx, http.MethodGet, "/api/profiles/"+url.PathEscape(userID), nil, &p, true)
	if err != nil {
		return nil, asRecordError(err)
	}
	return &p, nil
}

func (c *HTTPClient) CreateProfile(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error) {
	var created models.UserProfile
	err := c.do(ctx, http.MethodPost, "/api/profiles", profile, &created, true)
	if err != nil {
		return nil, asRecordError(err)
	}
	return &created, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*models.UserProfile, error) {
	var updated models.UserProfile
	err := c.do(ctx, http.MethodPatch, "/api/profiles/"+url.PathEscape(userID), patch, &updated, true)
	if err != nil {
		return nil, asRecordError(err)
	}
	return &updated, nil
}

func (c *HTTPClient) CreateAssessment(ctx context.Context, assessment *models.HealthAssessment) error {
	err := c.do(ctx, http.MethodPost, "/api/assessments", assessment, nil, true)
	if err != nil {
		return asRecordError(err)
	}
	return nil
}

// GetLaunchCode looks the code up case-insensitively; codes are stored
// upper-cased.
func (c *HTTPClient) GetLaunchCode(ctx context.Context, code string) (*models.LaunchCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	var lc models.LaunchCode
	err := c.do(ctx, http.MethodGet, "/api/launch-codes/"+url.PathEscape(normalized), nil, &lc, true)
	if err != nil {
		return nil, asRecordError(err)
	}
	return &lc, nil
}

func (c *HTTPClient) RecordLaunchCodeUsage(ctx context.Context, userID, codeID string) error {
	body := map[string]string{"user_id": userID, "launch_code_id": codeID}
	err := c.do(ctx, http.MethodPost, "/api/launch-code-usages", body, nil, true)
	if err != nil {
		return asRecordError(err)
	}
	return nil
}

// do performs one JSON round trip. For authenticated requests that fail with
// an expired access token it refreshes the session and replays the request
// once (the refresh token may itself be rejected, which ends the attempt).
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	retried := false
	for {
		err := c.roundTrip(ctx, method, path, body, out, authed)
		if err == nil {
			return nil
		}

		var se *statusError
		if !retried && authed && errors.As(err, &se) &&
			se.code == http.StatusUnauthorized && se.msg == common.ErrTokenExpired.Error() {
			if rerr := c.refresh(ctx); rerr == nil {
				retried = true
				continue
			}
		}
		return err
	}
}

func (c *HTTPClient) roundTrip(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.APIKeyHeaderName, c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		s := c.Session()
		if s == nil {
			return ErrNoSession
		}
		req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &statusError{code: resp.StatusCode, msg: readErrorMessage(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// readErrorMessage extracts {"error": "..."} from an error response body,
// falling back to the raw body text.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return "request failed"
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(data))
}

// asAuthError maps transport errors from the auth endpoints to the error
// taxonomy: any server rejection becomes an AuthenticationError carrying the
// service's message.
func asAuthError(err error) error {
	var se *statusError
	if errors.As(err, &se) {
		return &common.AuthenticationError{Message: se.msg, Err: err}
	}
	return err
}

// asRecordError maps record-store errors: 404 is the sentinel ErrNotFound,
// 401 is ErrUnauthorized, anything else keeps the server's message.
func asRecordError(err error) error {
	var se *statusError
	if errors.As(err, &se) {
		switch se.code {
		case http.StatusNotFound:
			return common.ErrNotFound
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", common.ErrUnauthorized, se.msg)
		default:
			return fmt.Errorf("record store error: %s", se.msg)
		}
	}
	return err
}
