// Package leadsync delivers accepted leads to downstream systems in the
// background so a slow or failing destination never affects the submitter.
package leadsync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/latampartners/landing/internal/models"
)

var (
	// ErrClosed is returned once Shutdown has been called.
	ErrClosed = errors.New("lead dispatcher closed")
	// ErrQueueFull is returned when every queue slot is taken.
	ErrQueueFull = errors.New("lead queue full")
)

// Sink receives accepted leads.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, lead models.Lead) error
}

// SkipError marks a delivery a sink chose not to perform. It is logged at
// debug level instead of as a failure.
type SkipError interface {
	error
	Skipped() bool
}

// Config controls the concurrency and pacing of the dispatcher.
type Config struct {
	QueueSize     int
	Workers       int
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// Dispatcher fans accepted leads out to sinks from a bounded worker pool.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
	pace    *rate.Limiter
	logger  *slog.Logger

	jobs   chan models.Lead
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts cfg.Workers goroutines delivering to sinks.
func NewDispatcher(sinks []Sink, cfg Config, logger *slog.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.Workers
	}
	if logger == nil {
		logger = slog.Default()
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	ctx, cancel := context.WithCancel(context.Background())

	d := &Dispatcher{
		sinks:   sinks,
		timeout: cfg.Timeout,
		pace:    rate.NewLimiter(limit, cfg.Burst),
		logger:  logger.With("component", "leadsync"),
		jobs:    make(chan models.Lead, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.worker()
	}

	return d
}

// Enqueue hands lead to the workers without blocking. It reports false when
// the queue is full or the dispatcher has shut down; the lead is dropped.
func (d *Dispatcher) Enqueue(lead models.Lead) bool {
	err := d.TryEnqueue(lead)
	if errors.Is(err, ErrQueueFull) {
		d.logger.Warn("lead queue full, dropping delivery", "lead_id", lead.ID, "persona", lead.Persona)
	}
	return err == nil
}

// TryEnqueue is Enqueue with the reason for a refusal.
func (d *Dispatcher) TryEnqueue(lead models.Lead) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}

	select {
	case d.jobs <- lead:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops intake and waits for queued leads to be delivered. When ctx
// ends first, in-flight deliveries are cancelled and ctx.Err() is returned.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for lead := range d.jobs {
		d.deliver(lead)
	}
}

func (d *Dispatcher) deliver(lead models.Lead) {
	logger := d.logger.With("lead_id", lead.ID, "persona", lead.Persona)

	for _, sink := range d.sinks {
		if err := d.pace.Wait(d.ctx); err != nil {
			logger.Warn("lead delivery abandoned", "sink", sink.Name(), "error", err)
			return
		}

		ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
		start := time.Now()
		err := sink.Deliver(ctx, lead)
		cancel()

		var skip SkipError
		switch {
		case err == nil:
			logger.Info("lead delivered", "sink", sink.Name(), "duration", time.Since(start))
		case errors.As(err, &skip) && skip.Skipped():
			logger.Debug("lead delivery skipped", "sink", sink.Name(), "reason", err)
		default:
			logger.Error("lead delivery failed", "sink", sink.Name(), "duration", time.Since(start), "error", err)
		}
	}
}
