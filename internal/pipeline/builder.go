package pipeline

import (
	"fmt"
	"time"

	"github.com/couchcryptid/rain-risk-service/internal/domain"
)

// Scorer turns the three predictive features into a rain probability percentage.
type Scorer interface {
	Ready() bool
	Score(temperature, humidity, pressure float64) (float64, error)
}

// IntervalError identifies the interval whose scoring failed a series build.
type IntervalError struct {
	Index     int
	Timestamp time.Time
	Err       error
}

func (e *IntervalError) Error() string {
	return fmt.Sprintf("score interval %d (%s): %v", e.Index, e.Timestamp.Format(time.DateTime), e.Err)
}

func (e *IntervalError) Unwrap() error { return e.Err }

// SeriesBuilder scores every interval of a city forecast.
type SeriesBuilder struct {
	scorer Scorer
}

// NewSeriesBuilder creates a SeriesBuilder backed by the given scorer.
func NewSeriesBuilder(scorer Scorer) *SeriesBuilder {
	return &SeriesBuilder{scorer: scorer}
}

// Build normalizes, scores, and bands each interval in source order. Any
// scoring failure fails the whole city; an empty forecast fails with
// domain.ErrEmptyForecast.
func (b *SeriesBuilder) Build(raw domain.RawForecast) (domain.CitySeries, error) {
	if len(raw.Intervals) == 0 {
		return domain.CitySeries{}, fmt.Errorf("build series for %s: %w", raw.City, domain.ErrEmptyForecast)
	}

	scored := make([]domain.ScoredInterval, 0, len(raw.Intervals))
	for i, ri := range raw.Intervals {
		s, err := b.scoreInterval(ri)
		if err != nil {
			return domain.CitySeries{}, &IntervalError{Index: i, Timestamp: ri.Timestamp, Err: err}
		}
		scored = append(scored, s)
	}

	return domain.CitySeries{
		City:      raw.City,
		Location:  raw.Location,
		Current:   scored[0],
		Intervals: scored,
	}, nil
}

func (b *SeriesBuilder) scoreInterval(raw domain.RawInterval) (domain.ScoredInterval, error) {
	fi := domain.NormalizeInterval(raw)
	p, err := b.scorer.Score(fi.Temperature, fi.Humidity, fi.Pressure)
	if err != nil {
		return domain.ScoredInterval{}, err
	}
	return domain.ScoredInterval{
		ForecastInterval: fi,
		RainProbability:  p,
		Risk:             domain.Band(p),
		RainLikely:       domain.RainLikely(p),
	}, nil
}
