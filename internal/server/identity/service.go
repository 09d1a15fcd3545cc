// Package identity implements the authentication service: registration,
// credential checks and the access/refresh token lifecycle.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthrocket/app/internal/common"
	"github.com/healthrocket/app/internal/server/auth"
	"github.com/healthrocket/app/internal/server/models"
	"github.com/healthrocket/app/internal/server/repositories/identities"
	"github.com/healthrocket/app/internal/server/repositories/refreshtokens"
)

// ErrEmailTaken is returned by Register when the email already has an account.
var ErrEmailTaken = errors.New("user already registered")

const minPasswordLength = 6

// TokenPair is an issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

type Service struct {
	repo             identities.Repository
	refreshTokenRepo refreshtokens.Repository
	jwtSecret        []byte
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
}

func NewService(repo identities.Repository, refreshTokenRepo refreshtokens.Repository,
	jwtSecret []byte, accessTokenTTL, refreshTokenTTL time.Duration) *Service {
	return &Service{
		repo:             repo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        jwtSecret,
		accessTokenTTL:   accessTokenTTL,
		refreshTokenTTL:  refreshTokenTTL,
	}
}

// Register creates an identity with a bcrypt-hashed password and issues the
// first token pair. No profile row is created here; that is a separate write
// owned by the client.
func (s *Service) Register(ctx context.Context, email, password string) (*models.Identity, *TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, nil, fmt.Errorf("email is required")
	}
	if len(password) < minPasswordLength {
		return nil, nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, nil, common.ErrInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, common.ErrInternal
	}

	identity := &models.Identity{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	identity, err = s.repo.Create(ctx, identity)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating identity: %w", err)
	}

	pair, err := s.issueTokens(ctx, identity)
	if err != nil {
		return nil, nil, err
	}
	return identity, pair, nil
}

// Login validates credentials and issues a token pair. Unknown email and bad
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Identity, *TokenPair, error) {
	identity, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrUnauthorized
		}
		return nil, nil, common.ErrInternal
	}

	if bcrypt.CompareHashAndPassword(identity.PasswordHash, []byte(password)) != nil {
		return nil, nil, common.ErrUnauthorized
	}

	pair, err := s.issueTokens(ctx, identity)
	if err != nil {
		return nil, nil, err
	}
	return identity, pair, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. An expired token is revoked and rejected.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.Identity, *TokenPair, error) {
	rt, err := s.refreshTokenRepo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrInvalidToken
		}
		return nil, nil, common.ErrInternal
	}

	if time.Now().After(rt.ExpiresAt) {
		_ = s.refreshTokenRepo.Delete(ctx, refreshToken)
		return nil, nil, common.ErrRefreshTokenExpired
	}

	identity, err := s.repo.GetByID(ctx, rt.UserID)
	if err != nil {
		return nil, nil, common.ErrInternal
	}

	if err := s.refreshTokenRepo.Delete(ctx, refreshToken); err != nil {
		return nil, nil, common.ErrInternal
	}

	pair, err := s.issueTokens(ctx, identity)
	if err != nil {
		return nil, nil, err
	}
	return identity, pair, nil
}

// Logout revokes every refresh token issued to userID. Access tokens simply
// age out.
func (s *Service) Logout(ctx context.Context, userID string) error {
	return s.refreshTokenRepo.DeleteForUser(ctx, userID)
}

func (s *Service) issueTokens(ctx context.Context, identity *models.Identity) (*TokenPair, error) {
	expiresAt := time.Now().Add(s.accessTokenTTL)

	accessToken, err := auth.GenerateToken(identity.ID, s.jwtSecret, s.accessTokenTTL)
	if err != nil {
		return nil, common.ErrInternal
	}

	refreshToken, err := makeRandHexString(32)
	if err != nil {
		return nil, common.ErrInternal
	}
	if err := s.refreshTokenRepo.Create(ctx, identity.ID, refreshToken, s.refreshTokenTTL); err != nil {
		return nil, common.ErrInternal
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

func makeRandHexString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
