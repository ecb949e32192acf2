package owm

import (
	"context"
	"fmt"

	"github.com/couchcryptid/rain-risk-service/internal/domain"
	"golang.org/x/time/rate"
)

// ForecastFetcher is the subset of Client wrapped by RateLimitedSource.
type ForecastFetcher interface {
	FetchForecast(ctx context.Context, city string) (domain.RawForecast, error)
}

// RateLimitedSource throttles forecast requests with a token bucket.
type RateLimitedSource struct {
	source  ForecastFetcher
	limiter *rate.Limiter
}

// NewRateLimitedSource wraps source. rps may be fractional; burst is the
// bucket size.
func NewRateLimitedSource(source ForecastFetcher, rps float64, burst int) *RateLimitedSource {
	return &RateLimitedSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// FetchForecast waits for a token, then delegates.
func (r *RateLimitedSource) FetchForecast(ctx context.Context, city string) (domain.RawForecast, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.RawForecast{}, fmt.Errorf("fetch forecast for %q: %w: rate limit wait: %w", city, domain.ErrFetchFailed, err)
	}
	return r.source.FetchForecast(ctx, city)
}
