package handlers

import (
	"context"

	"github.com/latampartners/landing/internal/models"
	"github.com/latampartners/landing/internal/ratelimit"
)

// LeadStore captures the persistence operations required by the submission handlers.
type LeadStore interface {
	CreateSeller(ctx context.Context, submission models.SellerSubmission) (models.SellerLead, error)
	CreatePartner(ctx context.Context, submission models.PartnerSubmission) (models.PartnerApplication, error)
}

// RateLimiter counts submissions per key.
type RateLimiter interface {
	Check(ctx context.Context, key string, policy ratelimit.Policy) (ratelimit.Decision, error)
}

// LeadDispatcher schedules background delivery of accepted leads. Enqueue
// must not block.
type LeadDispatcher interface {
	Enqueue(lead models.Lead) bool
}
