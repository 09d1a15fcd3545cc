// Package httpapi exposes the backend over REST/JSON: auth endpoints issuing
// bearer token pairs, and record endpoints for profiles, assessments and
// launch codes.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/healthrocket/app/internal/logging"
	"github.com/healthrocket/app/internal/server/identity"
	"github.com/healthrocket/app/internal/server/repositories/assessments"
	"github.com/healthrocket/app/internal/server/repositories/launchcodes"
	"github.com/healthrocket/app/internal/server/repositories/profiles"
)

type Server struct {
	identity    *identity.Service
	profiles    profiles.Repository
	assessments assessments.Repository
	launchCodes launchcodes.Repository
	logger      logging.Logger
	apiKey      string
	jwtSecret   []byte
}

func NewServer(identitySvc *identity.Service, profileRepo profiles.Repository,
	assessmentRepo assessments.Repository, launchCodeRepo launchcodes.Repository,
	logger logging.Logger, apiKey string, jwtSecret []byte) *Server {
	return &Server{
		identity:    identitySvc,
		profiles:    profileRepo,
		assessments: assessmentRepo,
		launchCodes: launchCodeRepo,
		logger:      logger,
		apiKey:      apiKey,
		jwtSecret:   jwtSecret,
	}
}

// Routes assembles the router: CORS and the project key gate apply to every
// endpoint, the bearer gate only to record and logout endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Api-Key"},
	}))
	r.Use(s.logRequests)
	r.Use(s.RequireAPIKey)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignUp)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(s.RequireAuth)

			r.Post("/auth/logout", s.handleLogout)

			r.Post("/profiles", s.handleCreateProfile)
			r.Get("/profiles/{id}", s.handleGetProfile)
			r.Patch("/profiles/{id}", s.handlePatchProfile)

			r.Post("/assessments", s.handleCreateAssessment)

			r.Get("/launch-codes/{code}", s.handleGetLaunchCode)
			r.Post("/launch-code-usages", s.handleRecordLaunchCodeUsage)
		})
	})

	return r
}
