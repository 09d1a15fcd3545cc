package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/healthrocket/app/internal/common"
	"github.com/healthrocket/app/internal/server/identity"
	"github.com/healthrocket/app/internal/server/models"
)

// wireSession is the auth endpoints' response shape.
type wireSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         wireUser  `json:"user"`
}

type wireUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func toWireSession(i *models.Identity, pair *identity.TokenPair) wireSession {
	return wireSession{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
		User:         wireUser{ID: i.ID, Email: i.Email},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	i, pair, err := s.identity.Register(r.Context(), creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "User already registered")
			return
		}
		if errors.Is(err, common.ErrInternal) {
			s.logger.Error(r.Context(), "signup failed", "err", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toWireSession(i, pair))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	i, pair, err := s.identity.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid login credentials")
			return
		}
		s.logger.Error(r.Context(), "login failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toWireSession(i, pair))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	i, pair, err := s.identity.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRefreshTokenExpired):
			writeError(w, http.StatusUnauthorized, common.ErrRefreshTokenExpired.Error())
		case errors.Is(err, common.ErrInvalidToken):
			writeError(w, http.StatusUnauthorized, common.ErrInvalidToken.Error())
		default:
			s.logger.Error(r.Context(), "token refresh failed", "err", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toWireSession(i, pair))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.identity.Logout(r.Context(), userID(r.Context())); err != nil {
		s.logger.Error(r.Context(), "logout failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
