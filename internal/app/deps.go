package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/latampartners/landing/internal/config"
	"github.com/latampartners/landing/internal/db"
	"github.com/latampartners/landing/internal/handlers"
	"github.com/latampartners/landing/internal/leadsync"
	"github.com/latampartners/landing/internal/marketing"
	"github.com/latampartners/landing/internal/ratelimit"
	"github.com/latampartners/landing/internal/repositories"
	"github.com/latampartners/landing/internal/storage"
	"github.com/latampartners/landing/internal/validation"
)

type cleanupFunc func(ctx context.Context) error

// buildDependencies wires together concrete implementations used by the HTTP handlers.
// The returned cleanup drains the lead dispatcher and releases background resources.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, logger *slog.Logger) (handlers.Dependencies, cleanupFunc, error) {
	bgCtx, stopBackground := context.WithCancel(context.Background())
	var closers []func() error

	health := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error {
			conn, err := pool.Acquire(ctx)
			if err != nil {
				return err
			}
			conn.Release()
			return nil
		},
	}

	var store ratelimit.Store
	switch cfg.RateLimit.Backend {
	case config.RateLimitBackendRedis:
		opts, err := redis.ParseURL(cfg.RateLimit.RedisURL)
		if err != nil {
			stopBackground()
			return handlers.Dependencies{}, nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		closers = append(closers, rdb.Close)
		health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		store = ratelimit.NewRedisStore(rdb)
	default:
		mem := ratelimit.NewMemoryStore()
		mem.StartJanitor(bgCtx, cfg.RateLimit.Sweep)
		store = mem
	}

	sinks := []leadsync.Sink{
		marketing.NewClient(cfg.Marketing.BaseURL, cfg.Marketing.MunchkinID,
			cfg.Marketing.SellerFormID, cfg.Marketing.PartnerFormID, cfg.Forwarding.Timeout),
	}
	if cfg.ObjectStore.Enabled() {
		s3, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
		if err != nil {
			stopBackground()
			closeAll(closers)
			return handlers.Dependencies{}, nil, err
		}
		sinks = append(sinks, storage.NewArchive(s3, cfg.ObjectStore.Prefix))
	}

	dispatcher := leadsync.NewDispatcher(sinks, leadsync.Config{
		QueueSize:     cfg.Forwarding.QueueSize,
		Workers:       cfg.Forwarding.Workers,
		Timeout:       cfg.Forwarding.Timeout,
		RatePerSecond: cfg.Forwarding.RatePerSecond,
	}, logger)

	deps := handlers.Dependencies{
		Leads:      repositories.NewPostgresLeadRepository(pool),
		Limiter:    ratelimit.NewLimiter(store),
		Dispatcher: dispatcher,
		Validator:  validation.Validator{HoneypotField: cfg.HoneypotField},
		RatePolicy: ratelimit.Policy{Max: cfg.RateLimit.Max, Window: cfg.RateLimit.Window},
		FormOrigin: cfg.Marketing.BaseURL,
		Health:     health,
	}

	cleanup := func(ctx context.Context) error {
		err := dispatcher.Shutdown(ctx)
		stopBackground()
		return errors.Join(err, closeAll(closers))
	}

	return deps, cleanup, nil
}

func closeAll(closers []func() error) error {
	var errs []error
	for _, c := range closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
