package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/latampartners/landing/internal/logging"
	"github.com/latampartners/landing/internal/ratelimit"
)

const msgTooManyRequests = "Too many requests. Please try again later."

func rateLimitKey(scope, ip string) string {
	if scope == "" {
		return ip
	}
	return fmt.Sprintf("%s:%s", scope, ip)
}

// allowRequest counts the request against key and writes the 429 when the
// window is exhausted or the bucket is contended. Store errors let the
// request through.
func allowRequest(ctx context.Context, w http.ResponseWriter, limiter RateLimiter, key string, policy ratelimit.Policy) bool {
	if limiter == nil {
		return true
	}

	decision, err := limiter.Check(ctx, key, policy)
	switch {
	case errors.Is(err, ratelimit.ErrContention):
		logging.FromContext(ctx).Warn("rate limit bucket contended, denying request", "error", err)
		decision = ratelimit.Decision{Allowed: false, RetryAfterSeconds: max(decision.RetryAfterSeconds, 1)}
	case err != nil:
		logging.FromContext(ctx).Error("rate limit check failed, allowing request", "error", err)
		return true
	}
	if decision.Allowed {
		return true
	}

	w.Header().Set("Retry-After", strconv.Itoa(decision.RetryAfterSeconds))
	respondError(ctx, w, http.StatusTooManyRequests, msgTooManyRequests)
	return false
}
