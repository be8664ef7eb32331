package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/latampartners/landing/internal/config"
	"github.com/latampartners/landing/internal/leadsync"
	"github.com/latampartners/landing/internal/ratelimit"
)

type fakePool struct{}

func (fakePool) Acquire(context.Context) (*pgxpool.Conn, error) {
	return nil, errors.New("not implemented")
}

func (fakePool) Close() {}

func testConfig() config.Config {
	return config.Config{
		HoneypotField: "website",
		RateLimit: config.RateLimitConfig{
			Max:      15,
			Window:   10 * time.Minute,
			Backend:  config.RateLimitBackendMemory,
			Sweep:    time.Minute,
			RedisURL: "redis://localhost:6379/0",
		},
		Marketing: config.MarketingConfig{
			BaseURL:      "https://go.payoneer.com",
			MunchkinID:   "039-FTK-845",
			SellerFormID: 20090,
		},
		Forwarding: config.ForwardingConfig{Timeout: time.Second, Workers: 1, QueueSize: 4},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runCleanup(t *testing.T, cleanup cleanupFunc) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := cleanup(ctx); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestBuildDependencies(t *testing.T) {
	cfg := testConfig()
	cfg.ObjectStore = config.ObjectStoreConfig{Bucket: "test-bucket", Endpoint: "http://localhost:9000", Region: "us-east-1", Prefix: "leads"}

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	deps, cleanup, err := buildDependencies(context.Background(), fakePool{}, cfg, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cleanup == nil {
		t.Fatal("expected cleanup function")
	}
	defer runCleanup(t, cleanup)

	if deps.Leads == nil {
		t.Fatal("expected lead repository to be configured")
	}
	if _, ok := deps.Limiter.(*ratelimit.Limiter); !ok {
		t.Fatalf("expected fixed-window limiter, got %T", deps.Limiter)
	}
	if _, ok := deps.Dispatcher.(*leadsync.Dispatcher); !ok {
		t.Fatalf("expected lead dispatcher, got %T", deps.Dispatcher)
	}
	if deps.Validator.HoneypotField != "website" {
		t.Fatalf("expected honeypot field to be configured, got %q", deps.Validator.HoneypotField)
	}
	if deps.RatePolicy != (ratelimit.Policy{Max: 15, Window: 10 * time.Minute}) {
		t.Fatalf("unexpected rate policy %+v", deps.RatePolicy)
	}
	if _, ok := deps.Health["database"]; !ok {
		t.Fatal("expected database health check")
	}
	if err := deps.Health["database"](context.Background()); err == nil {
		t.Fatal("expected database health check to surface pool errors")
	}
}

func TestBuildDependenciesRedisBackend(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Backend = config.RateLimitBackendRedis

	deps, cleanup, err := buildDependencies(context.Background(), fakePool{}, cfg, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer runCleanup(t, cleanup)

	if _, ok := deps.Health["redis"]; !ok {
		t.Fatal("expected redis health check")
	}
}

func TestBuildDependenciesRejectsBadRedisURL(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Backend = config.RateLimitBackendRedis
	cfg.RateLimit.RedisURL = "ftp://nope"

	if _, _, err := buildDependencies(context.Background(), fakePool{}, cfg, discardLogger()); err == nil {
		t.Fatal("expected error for invalid redis url")
	}
}
