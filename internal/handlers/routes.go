package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/latampartners/landing/internal/middleware"
	"github.com/latampartners/landing/internal/ratelimit"
	"github.com/latampartners/landing/internal/validation"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Leads      LeadStore
	Limiter    RateLimiter
	Dispatcher LeadDispatcher
	Validator  validation.Validator
	RatePolicy ratelimit.Policy
	FormOrigin string
	Health     map[string]HealthCheck
}

// NewRouter wires the HTTP surface.
func NewRouter(deps Dependencies, logger *slog.Logger) http.Handler {
	health := HealthHandler{Checks: deps.Health}
	submissions := SubmissionHandler{
		Leads:      deps.Leads,
		Limiter:    deps.Limiter,
		Dispatcher: deps.Dispatcher,
		Validator:  deps.Validator,
		Policy:     deps.RatePolicy,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.SecurityHeaders(deps.FormOrigin))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(req.Context(), w, http.StatusNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(req.Context(), w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})

	r.Get("/healthz", health.Handle)
	r.Route("/api", func(r chi.Router) {
		r.Post("/submit-seller", submissions.Seller)
		r.Post("/submit-partner", submissions.Partner)
	})

	return r
}
