// Package ratelimit implements a fixed-window request counter over a
// pluggable bucket store.
//
// Fixed windows allow a burst of up to twice the limit around a window
// boundary; submissions are low volume so the simpler algorithm is kept.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrContention is returned when a bucket keeps changing underneath the
// limiter. It comes with a denying Decision: the key is busy, not the store down.
var ErrContention = errors.New("rate limit bucket contention")

const maxSwapAttempts = 8

// Policy bounds how many requests a key may make per window.
type Policy struct {
	Max    int
	Window time.Duration
}

// Decision is the outcome of a single Check.
type Decision struct {
	Allowed           bool
	RetryAfterSeconds int
}

// Limiter applies fixed-window policies against a Store.
type Limiter struct {
	store Store
	now   func() time.Time
}

// NewLimiter constructs a limiter backed by store.
func NewLimiter(store Store) *Limiter {
	if store == nil {
		panic("ratelimit: store must not be nil")
	}
	return &Limiter{store: store, now: time.Now}
}

// WithNowFunc allows tests to override the time source.
func (l *Limiter) WithNowFunc(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Check counts one request for key and reports whether it fits in the
// current window.
func (l *Limiter) Check(ctx context.Context, key string, policy Policy) (Decision, error) {
	if policy.Max <= 0 {
		policy.Max = 1
	}
	if policy.Window <= 0 {
		policy.Window = time.Second
	}

	for attempt := 0; attempt < maxSwapAttempts; attempt++ {
		now := l.now()

		current, found, err := l.store.Get(ctx, key)
		if err != nil {
			return Decision{}, fmt.Errorf("load bucket: %w", err)
		}

		var (
			prev *Bucket
			next Bucket
		)
		if found {
			prev = &current
		}

		switch {
		case !found || now.After(current.ResetAt):
			next = Bucket{Count: 1, ResetAt: now.Add(policy.Window)}
		case current.Count >= policy.Max:
			return Decision{Allowed: false, RetryAfterSeconds: retryAfter(current.ResetAt.Sub(now))}, nil
		default:
			next = Bucket{Count: current.Count + 1, ResetAt: current.ResetAt}
		}

		swapped, err := l.store.CompareAndSwap(ctx, key, prev, next)
		if err != nil {
			return Decision{}, fmt.Errorf("store bucket: %w", err)
		}
		if swapped {
			return Decision{Allowed: true}, nil
		}
	}

	return Decision{Allowed: false, RetryAfterSeconds: 1}, ErrContention
}

func retryAfter(remaining time.Duration) int {
	secs := int(math.Ceil(remaining.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
