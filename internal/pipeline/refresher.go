package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/rain-risk-service/internal/domain"
	"github.com/couchcryptid/rain-risk-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Refresher reruns the pipeline for a fixed city list on a schedule and keeps
// the latest result.
type Refresher struct {
	runner   *Runner
	cities   []string
	interval time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
	latest   atomic.Pointer[domain.RunResult]
}

// NewRefresher creates a Refresher. An interval <= 0 runs once and then idles
// until the context is cancelled.
func NewRefresher(runner *Runner, cities []string, interval time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Refresher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Refresher{
		runner:   runner,
		cities:   cities,
		interval: interval,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run refreshes immediately and then on every tick until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("refresher started", "cities", r.cities, "interval", r.interval)
	defer r.metrics.PipelineReady.Set(0)

	r.refresh(ctx)

	if r.interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			r.refresh(ctx)
		}
	}
}

// Latest returns the most recent successful run result.
func (r *Refresher) Latest() (domain.RunResult, bool) {
	res := r.latest.Load()
	if res == nil {
		return domain.RunResult{}, false
	}
	return *res, true
}

// CheckReadiness returns nil once at least one refresh has completed.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if r.latest.Load() == nil {
		return errors.New("no forecast refresh has completed yet")
	}
	return nil
}

func (r *Refresher) refresh(ctx context.Context) {
	result, err := r.runner.Run(ctx, r.cities)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Error("refresh failed", "error", err)
		return
	}
	r.latest.Store(&result)
	r.metrics.PipelineReady.Set(1)
}
