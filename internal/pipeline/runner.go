package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/couchcryptid/rain-risk-service/internal/domain"
	"github.com/couchcryptid/rain-risk-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// WeatherSource fetches the raw forecast for one city.
type WeatherSource interface {
	FetchForecast(ctx context.Context, city string) (domain.RawForecast, error)
}

// Publisher writes city snapshots to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, snapshots []domain.CitySnapshot) error
}

// Runner performs one fetch-score-publish pass over a list of cities.
type Runner struct {
	source      WeatherSource
	aggregator  *Aggregator
	geocoder    domain.Geocoder
	publisher   Publisher
	clock       clockwork.Clock
	logger      *slog.Logger
	metrics     *observability.Metrics
	concurrency int
}

// NewRunner creates a Runner. geocoder and publisher may be nil to disable
// location enrichment and publishing. concurrency bounds simultaneous fetches.
func NewRunner(
	source WeatherSource,
	aggregator *Aggregator,
	geocoder domain.Geocoder,
	publisher Publisher,
	clock clockwork.Clock,
	logger *slog.Logger,
	metrics *observability.Metrics,
	concurrency int,
) *Runner {
	if concurrency <= 0 {
		concurrency = 1
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Runner{
		source:      source,
		aggregator:  aggregator,
		geocoder:    geocoder,
		publisher:   publisher,
		clock:       clock,
		logger:      logger,
		metrics:     metrics,
		concurrency: concurrency,
	}
}

// WithoutPublish returns a Runner sharing r's source, aggregator, and geocoder
// that never publishes snapshots. The HTTP API uses it for caller-chosen city
// lists so the sink only carries scheduled refreshes.
func (r *Runner) WithoutPublish() *Runner {
	c := *r
	c.publisher = nil
	return &c
}

// Run fetches every city, aggregates the results in request order, and
// publishes one snapshot per built city. It fails only when the model is
// unavailable or ctx is done; per-city failures are reported in the result.
func (r *Runner) Run(ctx context.Context, cities []string) (domain.RunResult, error) {
	if !r.aggregator.Ready() {
		return domain.RunResult{}, domain.ErrModelUnavailable
	}

	start := r.clock.Now()
	fetches := r.fetchAll(ctx, cities)
	if err := ctx.Err(); err != nil {
		return domain.RunResult{}, err
	}

	result, err := r.aggregator.Aggregate(fetches)
	if err != nil {
		return domain.RunResult{}, err
	}

	r.publish(ctx, result.View.Series)

	r.metrics.RunDuration.Observe(r.clock.Since(start).Seconds())
	r.logger.Info("run complete",
		"requested", len(cities),
		"built", len(result.View.Series),
		"failed", len(result.Failures),
	)
	return result, nil
}

// fetchAll fetches all cities concurrently; results keep the request order.
func (r *Runner) fetchAll(ctx context.Context, cities []string) []domain.FetchResult {
	results := make([]domain.FetchResult, len(cities))
	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup

	for i, city := range cities {
		wg.Add(1)
		go func(i int, city string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = domain.FetchResult{City: city, Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()
			results[i] = r.fetchOne(ctx, city)
		}(i, city)
	}

	wg.Wait()
	return results
}

func (r *Runner) fetchOne(ctx context.Context, city string) domain.FetchResult {
	start := r.clock.Now()
	forecast, err := r.source.FetchForecast(ctx, city)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	r.metrics.FetchDuration.WithLabelValues(outcome).Observe(r.clock.Since(start).Seconds())

	if err != nil {
		return domain.FetchResult{City: city, Err: err}
	}
	forecast.Location = domain.EnrichLocation(ctx, city, forecast.Location, r.geocoder, r.logger)
	return domain.FetchResult{City: city, Forecast: forecast}
}

func (r *Runner) publish(ctx context.Context, series []domain.CitySeries) {
	if r.publisher == nil || len(series) == 0 {
		return
	}

	now := r.clock.Now()
	snapshots := make([]domain.CitySnapshot, len(series))
	for i := range series {
		snapshots[i] = domain.NewCitySnapshot(series[i], now)
	}

	if err := r.publisher.Publish(ctx, snapshots); err != nil {
		r.metrics.SinkErrors.Inc()
		r.logger.Error("publish snapshots failed", "error", err, "count", len(snapshots))
		return
	}
	r.metrics.SnapshotsPublished.Add(float64(len(snapshots)))
}
