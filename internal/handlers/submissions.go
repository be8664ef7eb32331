package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/latampartners/landing/internal/logging"
	"github.com/latampartners/landing/internal/models"
	"github.com/latampartners/landing/internal/ratelimit"
	"github.com/latampartners/landing/internal/repositories"
	"github.com/latampartners/landing/internal/security"
	"github.com/latampartners/landing/internal/validation"
)

const (
	maxBodyBytes = 64 << 10

	msgInvalidBody      = "Invalid request body"
	msgInternalError    = "Internal server error"
	msgMethodNotAllowed = "Method not allowed"
	msgNotFound         = "Not found"

	routeSubmitSeller  = "submit-seller"
	routeSubmitPartner = "submit-partner"
)

// SubmissionHandler accepts the seller and partner lead-capture forms.
type SubmissionHandler struct {
	Leads      LeadStore
	Limiter    RateLimiter
	Dispatcher LeadDispatcher
	Validator  validation.Validator
	Policy     ratelimit.Policy
}

// submission describes one persona's pipeline from payload to stored row.
type submission[S, R any] struct {
	route      string
	saveFailed string
	validate   func(body any) validation.Result[S]
	trap       func(S) string
	create     func(ctx context.Context, s S) (R, error)
	lead       func(R) models.Lead
}

// Seller implements POST /api/submit-seller.
func (h SubmissionHandler) Seller(w http.ResponseWriter, r *http.Request) {
	handleSubmission(h, w, r, submission[models.SellerSubmission, models.SellerLead]{
		route:      routeSubmitSeller,
		saveFailed: "Failed to save submission",
		validate:   h.Validator.ValidateSeller,
		trap:       func(s models.SellerSubmission) string { return s.Website },
		create:     h.createSeller,
		lead:       models.SellerLead.Lead,
	})
}

// Partner implements POST /api/submit-partner.
func (h SubmissionHandler) Partner(w http.ResponseWriter, r *http.Request) {
	handleSubmission(h, w, r, submission[models.PartnerSubmission, models.PartnerApplication]{
		route:      routeSubmitPartner,
		saveFailed: "Failed to save application",
		validate:   h.Validator.ValidatePartner,
		trap:       func(s models.PartnerSubmission) string { return s.Website },
		create:     h.createPartner,
		lead:       models.PartnerApplication.Lead,
	})
}

func (h SubmissionHandler) createSeller(ctx context.Context, s models.SellerSubmission) (models.SellerLead, error) {
	return h.Leads.CreateSeller(ctx, s)
}

func (h SubmissionHandler) createPartner(ctx context.Context, s models.PartnerSubmission) (models.PartnerApplication, error) {
	return h.Leads.CreatePartner(ctx, s)
}

func handleSubmission[S, R any](h SubmissionHandler, w http.ResponseWriter, r *http.Request, sub submission[S, R]) {
	if r.Method != http.MethodPost {
		respondError(r.Context(), w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	ip := security.ClientIP(r)
	ctx, logger := logging.With(r.Context(), "route", sub.route, "client", security.HashIP(ip))

	if h.Leads == nil {
		logger.Error("submission handler missing lead store")
		respondError(ctx, w, http.StatusInternalServerError, msgInternalError)
		return
	}

	if reason := security.CheckOrigin(r.WithContext(ctx)); reason != "" {
		respondError(ctx, w, http.StatusForbidden, reason)
		return
	}

	if !allowRequest(ctx, w, h.Limiter, rateLimitKey(sub.route, ip), h.Policy) {
		return
	}

	body, ok := decodeBody(w, r)
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result := sub.validate(body)
	if !result.OK() {
		respondError(ctx, w, http.StatusBadRequest, result.Error)
		return
	}

	if sub.trap(result.Data) != "" {
		logger.Info("honeypot field filled, discarding submission")
		respondJSON(ctx, w, http.StatusOK, successResponse{Success: true})
		return
	}

	spanCtx, span := logging.StartSpan(ctx, "persist")
	row, err := sub.create(spanCtx, result.Data)
	span.End(err)
	if err != nil {
		logger.Error("insert submission failed", "error", err, "sqlstate", repositories.SQLState(err))
		respondError(ctx, w, http.StatusInternalServerError, sub.saveFailed)
		return
	}

	if h.Dispatcher != nil {
		lead := sub.lead(row)
		if !h.Dispatcher.Enqueue(lead) {
			logger.Warn("lead not queued for delivery", "lead_id", lead.ID)
		}
	}

	respondJSON(ctx, w, http.StatusOK, successResponse{Success: true, Data: row})
}

// decodeBody reads a size-capped JSON document of any shape.
func decodeBody(w http.ResponseWriter, r *http.Request) (any, bool) {
	if r.Body == nil {
		return nil, false
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, false
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, false
	}
	return body, true
}
