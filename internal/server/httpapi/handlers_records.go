package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/healthrocket/app/internal/common"
	"github.com/healthrocket/app/internal/server/models"
)

// Record endpoints are row-scoped to the authenticated user: reads of another
// user's row look identical to a missing row, writes are rejected outright.

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var p models.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if p.ID != userID(r.Context()) {
		writeError(w, http.StatusForbidden, "cannot create a profile for another user")
		return
	}
	if p.OnboardingStep == "" {
		p.OnboardingStep = "mission"
	}
	if p.Level == 0 {
		p.Level = 1
	}

	created, err := s.profiles.Create(r.Context(), &p)
	if err != nil {
		s.logger.Error(r.Context(), "profile create failed", "user_id", p.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not create profile")
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id != userID(r.Context()) {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}

	p, err := s.profiles.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		s.logger.Error(r.Context(), "profile read failed", "user_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "could not read profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePatchProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id != userID(r.Context()) {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}

	var patch models.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := s.profiles.Patch(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		s.logger.Error(r.Context(), "profile patch failed", "user_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "could not update profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	var a models.Assessment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if a.UserID != userID(r.Context()) {
		writeError(w, http.StatusForbidden, "cannot record an assessment for another user")
		return
	}

	created, err := s.assessments.Create(r.Context(), &a)
	if err != nil {
		s.logger.Error(r.Context(), "assessment create failed", "user_id", a.UserID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not record assessment")
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleGetLaunchCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	lc, err := s.launchCodes.FindActive(r.Context(), code)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "launch code not found")
			return
		}
		s.logger.Error(r.Context(), "launch code lookup failed", "code", code, "err", err)
		writeError(w, http.StatusInternalServerError, "could not look up launch code")
		return
	}
	writeJSON(w, http.StatusOK, lc)
}

func (s *Server) handleRecordLaunchCodeUsage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID       string `json:"user_id"`
		LaunchCodeID string `json:"launch_code_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.LaunchCodeID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if body.UserID != userID(r.Context()) {
		writeError(w, http.StatusForbidden, "cannot record usage for another user")
		return
	}

	if err := s.launchCodes.RecordUsage(r.Context(), body.UserID, body.LaunchCodeID); err != nil {
		s.logger.Error(r.Context(), "launch code usage failed", "user_id", body.UserID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not record launch code usage")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
