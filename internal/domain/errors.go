package domain

import "errors"

var (
	// ErrCityNotFound means the weather source does not know the requested city.
	ErrCityNotFound = errors.New("city not found")
	// ErrFetchFailed covers transport, status, and decode failures at the source.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrEmptyForecast means the source returned zero intervals for a city.
	ErrEmptyForecast = errors.New("empty forecast")
	// ErrModelUnavailable means the rain classifier was not loaded.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrInvalidFeatureVector means a non-finite feature reached the classifier.
	ErrInvalidFeatureVector = errors.New("invalid feature vector")
)

// CityState is the terminal state of one requested city within a run.
type CityState string

const (
	StateFetchFailed   CityState = "fetch_failed"
	StateScoringFailed CityState = "scoring_failed"
	StateBuilt         CityState = "built"
)

// CityFailure reports why a requested city is missing from the aggregate view.
type CityFailure struct {
	City   string    `json:"city"`
	State  CityState `json:"state"`
	Kind   string    `json:"kind"`
	Reason string    `json:"reason"`
}

// NewCityFailure classifies err for the given city and terminal state.
func NewCityFailure(city string, state CityState, err error) CityFailure {
	return CityFailure{
		City:   city,
		State:  state,
		Kind:   FailureKind(err),
		Reason: err.Error(),
	}
}

// FailureKind returns a stable short name for the error kinds this package
// defines, or "unknown".
func FailureKind(err error) string {
	switch {
	case errors.Is(err, ErrCityNotFound):
		return "city_not_found"
	case errors.Is(err, ErrFetchFailed):
		return "fetch_failed"
	case errors.Is(err, ErrEmptyForecast):
		return "empty_forecast"
	case errors.Is(err, ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, ErrInvalidFeatureVector):
		return "invalid_feature_vector"
	default:
		return "unknown"
	}
}
