package ratelimit

import (
	"context"
	"time"
)

// Bucket is the window state tracked for one key.
type Bucket struct {
	Count   int
	ResetAt time.Time
}

// Store persists buckets. Implementations must make CompareAndSwap atomic
// per key; an expired bucket may be evicted at any time since the limiter
// treats it the same as a missing one.
type Store interface {
	// Get returns the bucket for key and whether one exists.
	Get(ctx context.Context, key string) (Bucket, bool, error)
	// CompareAndSwap stores next only if the key still holds old. A nil old
	// means the key must not exist.
	CompareAndSwap(ctx context.Context, key string, old *Bucket, next Bucket) (bool, error)
}
