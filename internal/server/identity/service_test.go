package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/healthrocket/app/internal/common"
	"github.com/healthrocket/app/internal/server/auth"
	"github.com/healthrocket/app/internal/server/models"
)

var secret = []byte("test-secret")

type fakeIdentityRepo struct {
	byEmail map[string]*models.Identity
	byID    map[string]*models.Identity
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{
		byEmail: map[string]*models.Identity{},
		byID:    map[string]*models.Identity{},
	}
}

func (f *fakeIdentityRepo) Create(ctx context.Context, identity *models.Identity) (*models.Identity, error) {
	identity.CreatedAt = time.Now()
	f.byEmail[identity.Email] = identity
	f.byID[identity.ID] = identity
	return identity, nil
}

func (f *fakeIdentityRepo) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	if i, ok := f.byEmail[email]; ok {
		return i, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeIdentityRepo) GetByID(ctx context.Context, id string) (*models.Identity, error) {
	if i, ok := f.byID[id]; ok {
		return i, nil
	}
	return nil, common.ErrNotFound
}

type fakeTokenRepo struct {
	tokens map[string]*models.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeTokenRepo) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	f.tokens[token] = &models.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(validity),
	}
	return nil
}

func (f *fakeTokenRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if rt, ok := f.tokens[token]; ok {
		return rt, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeTokenRepo) Delete(ctx context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func (f *fakeTokenRepo) DeleteForUser(ctx context.Context, userID string) error {
	for t, rt := range f.tokens {
		if rt.UserID == userID {
			delete(f.tokens, t)
		}
	}
	return nil
}

func newService() (*Service, *fakeIdentityRepo, *fakeTokenRepo) {
	ir := newFakeIdentityRepo()
	tr := newFakeTokenRepo()
	return NewService(ir, tr, secret, 15*time.Minute, time.Hour), ir, tr
}

func TestRegister(t *testing.T) {
	s, ir, tr := newService()

	identity, pair, err := s.Register(context.Background(), "A@B.C", "pass123")
	require.NoError(t, err)
	require.Equal(t, "a@b.c", identity.Email)
	require.NotEmpty(t, identity.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.True(t, pair.ExpiresAt.After(time.Now()))

	userID, err := auth.GetUserIDFromToken(pair.AccessToken, secret)
	require.NoError(t, err)
	require.Equal(t, identity.ID, userID)

	require.Len(t, ir.byID, 1)
	require.Len(t, tr.tokens, 1)
}

func TestRegister_EmailTaken(t *testing.T) {
	s, _, _ := newService()

	_, _, err := s.Register(context.Background(), "a@b.c", "pass123")
	require.NoError(t, err)

	_, _, err = s.Register(context.Background(), "a@b.c", "other-pass")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_WeakPassword(t *testing.T) {
	s, _, _ := newService()

	_, _, err := s.Register(context.Background(), "a@b.c", "short")
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	s, _, _ := newService()
	registered, _, err := s.Register(context.Background(), "a@b.c", "pass123")
	require.NoError(t, err)

	identity, pair, err := s.Login(context.Background(), "a@b.c", "pass123")
	require.NoError(t, err)
	require.Equal(t, registered.ID, identity.ID)
	require.NotEmpty(t, pair.AccessToken)
}

func TestLogin_BadCredentials(t *testing.T) {
	s, _, _ := newService()
	_, _, err := s.Register(context.Background(), "a@b.c", "pass123")
	require.NoError(t, err)

	_, _, err = s.Login(context.Background(), "a@b.c", "wrong")
	require.ErrorIs(t, err, common.ErrUnauthorized)

	// Unknown email is indistinguishable from a wrong password.
	_, _, err = s.Login(context.Background(), "nobody@b.c", "pass123")
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestRefresh_RotatesToken(t *testing.T) {
	s, _, tr := newService()
	_, pair, err := s.Register(context.Background(), "a@b.c", "pass123")
	require.NoError(t, err)

	_, fresh, err := s.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, fresh.RefreshToken)

	// The old token is revoked; replaying it fails.
	_, _, err = s.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, common.ErrInvalidToken)
	require.Len(t, tr.tokens, 1)
}

func TestRefresh_Expired(t *testing.T) {
	s, _, tr := newService()
	_, pair, err := s.Register(context.Background(), "a@b.c", "pass123")
	require.NoError(t, err)

	tr.tokens[pair.RefreshToken].ExpiresAt = time.Now().Add(-time.Minute)

	_, _, err = s.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, common.ErrRefreshTokenExpired)
	require.Empty(t, tr.tokens, "expired token must be revoked")
}

func TestLogout_RevokesAllTokens(t *testing.T) {
	s, _, tr := newService()
	identity, _, err := s.Register(context.Background(), "a@b.c", "pass123")
	require.NoError(t, err)
	_, _, err = s.Login(context.Background(), "a@b.c", "pass123")
	require.NoError(t, err)
	require.Len(t, tr.tokens, 2)

	require.NoError(t, s.Logout(context.Background(), identity.ID))
	require.Empty(t, tr.tokens)
}
