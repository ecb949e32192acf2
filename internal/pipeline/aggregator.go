package pipeline

import (
	"errors"
	"log/slog"

	"github.com/couchcryptid/rain-risk-service/internal/domain"
	"github.com/couchcryptid/rain-risk-service/internal/observability"
)

// Aggregator builds the multi-city view from per-city fetch results. It performs
// no I/O; the same input always yields the same RunResult.
type Aggregator struct {
	scorer  Scorer
	builder *SeriesBuilder
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAggregator creates an Aggregator that scores with the given scorer.
func NewAggregator(scorer Scorer, logger *slog.Logger, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{
		scorer:  scorer,
		builder: NewSeriesBuilder(scorer),
		logger:  logger,
		metrics: metrics,
	}
}

// Ready reports whether the underlying scorer has a model loaded.
func (a *Aggregator) Ready() bool {
	return a.scorer.Ready()
}

// Aggregate evaluates every fetch result in order. City-level failures are
// collected into RunResult.Failures; a missing model aborts the run with
// domain.ErrModelUnavailable before any city is built.
func (a *Aggregator) Aggregate(fetches []domain.FetchResult) (domain.RunResult, error) {
	if !a.scorer.Ready() {
		return domain.RunResult{}, domain.ErrModelUnavailable
	}

	series := make([]domain.CitySeries, 0, len(fetches))
	failures := make([]domain.CityFailure, 0)

	for _, f := range fetches {
		outcome, err := a.Evaluate(f)
		if err != nil {
			return domain.RunResult{}, err
		}
		switch outcome.State {
		case domain.StateBuilt:
			series = append(series, *outcome.Series)
		default:
			failures = append(failures, *outcome.Failure)
		}
	}

	a.metrics.RunsTotal.Inc()
	return domain.RunResult{
		View:     domain.NewAggregateView(series),
		Failures: failures,
	}, nil
}

// Evaluate drives one city to its terminal state. The returned error is
// non-nil only for process-level failures (domain.ErrModelUnavailable).
func (a *Aggregator) Evaluate(f domain.FetchResult) (domain.CityOutcome, error) {
	if f.Err != nil {
		a.logger.Warn("city fetch failed", "city", f.City, "stage", "fetch", "error", f.Err)
		return a.fail(f.City, domain.StateFetchFailed, f.Err), nil
	}

	// Series are keyed by the requested name, not the source's resolved name.
	raw := f.Forecast
	if f.City != "" {
		raw.City = f.City
	}

	series, err := a.builder.Build(raw)
	if err != nil {
		if errors.Is(err, domain.ErrModelUnavailable) {
			return domain.CityOutcome{}, err
		}
		attrs := []any{"city", f.City, "stage", "scoring", "error", err}
		var ie *IntervalError
		if errors.As(err, &ie) {
			attrs = append(attrs, "timestamp", ie.Timestamp)
		}
		a.logger.Warn("city scoring failed", attrs...)
		return a.fail(f.City, domain.StateScoringFailed, err), nil
	}

	a.metrics.CitiesBuilt.Inc()
	a.metrics.IntervalsScored.Add(float64(len(series.Intervals)))
	a.metrics.RiskBands.WithLabelValues(string(series.Current.Risk)).Inc()

	return domain.CityOutcome{City: f.City, State: domain.StateBuilt, Series: &series}, nil
}

func (a *Aggregator) fail(city string, state domain.CityState, err error) domain.CityOutcome {
	failure := domain.NewCityFailure(city, state, err)
	a.metrics.CitiesFailed.WithLabelValues(string(state), failure.Kind).Inc()
	return domain.CityOutcome{City: city, State: state, Failure: &failure}
}
