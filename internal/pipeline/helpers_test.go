package pipeline_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/rain-risk-service/internal/domain"
	"github.com/couchcryptid/rain-risk-service/internal/model"
)

// --- fakes ---

// humidityClassifier maps humidity linearly to p(rain) so tests can pick
// probabilities through the input.
type humidityClassifier struct{}

func (humidityClassifier) PredictProbability(x model.FeatureVector) ([2]float64, error) {
	p := x[1] / 100
	return [2]float64{1 - p, p}, nil
}

// fixedClassifier returns the same distribution for every input.
type fixedClassifier struct {
	rain float64
}

func (f fixedClassifier) PredictProbability(_ model.FeatureVector) ([2]float64, error) {
	return [2]float64{1 - f.rain, f.rain}, nil
}

type fakeSource struct {
	mu        sync.Mutex
	forecasts map[string]domain.RawForecast
	errs      map[string]error
	delays    map[string]time.Duration
	calls     []string
}

func (f *fakeSource) FetchForecast(ctx context.Context, city string) (domain.RawForecast, error) {
	f.mu.Lock()
	f.calls = append(f.calls, city)
	delay := f.delays[city]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return domain.RawForecast{}, ctx.Err()
		}
	}
	if err, ok := f.errs[city]; ok {
		return domain.RawForecast{}, err
	}
	fc, ok := f.forecasts[city]
	if !ok {
		return domain.RawForecast{}, fmt.Errorf("fetch forecast for %s: %w", city, domain.ErrCityNotFound)
	}
	return fc, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type recordingPublisher struct {
	mu        sync.Mutex
	err       error
	snapshots []domain.CitySnapshot
}

func (p *recordingPublisher) Publish(_ context.Context, snapshots []domain.CitySnapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.snapshots = append(p.snapshots, snapshots...)
	return nil
}

type staticGeocoder struct {
	result domain.GeocodingResult
}

func (g staticGeocoder) ForwardGeocode(_ context.Context, _, _ string) (domain.GeocodingResult, error) {
	return g.result, nil
}

func (g staticGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	return g.result, nil
}

// --- helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr(v float64) *float64 { return &v }

var baseTime = time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

// rawForecast builds a city forecast with one interval per humidity value,
// three hours apart.
func rawForecast(city string, lat, lon float64, humidities ...float64) domain.RawForecast {
	intervals := make([]domain.RawInterval, len(humidities))
	for i, h := range humidities {
		intervals[i] = domain.RawInterval{
			Timestamp:   baseTime.Add(time.Duration(i) * 3 * time.Hour),
			Temperature: 28,
			TempMin:     27,
			TempMax:     29,
			Humidity:    h,
			Pressure:    1008,
			WindSpeed:   3.2,
			Cloudiness:  40,
			Description: "scattered clouds",
			Icon:        "03d",
		}
	}
	return domain.RawForecast{
		City:      city,
		Location:  domain.Location{Lat: lat, Lon: lon, Country: "IN"},
		Intervals: intervals,
	}
}

func threeCities() map[string]domain.RawForecast {
	return map[string]domain.RawForecast{
		"Delhi":     rawForecast("Delhi", 28.6667, 77.2167, 20, 35, 50),
		"Mumbai":    rawForecast("Mumbai", 19.0144, 72.8479, 85, 90),
		"Bangalore": rawForecast("Bangalore", 12.9762, 77.6033, 45, 65, 70, 30),
	}
}
