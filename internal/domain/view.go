package domain

import "time"

// FetchResult is the weather source outcome for one requested city:
// either Forecast or Err is meaningful.
type FetchResult struct {
	City     string
	Forecast RawForecast
	Err      error
}

// CityOutcome is the per-city result of a run: exactly one of Series and
// Failure is set, matching State.
type CityOutcome struct {
	City    string
	State   CityState
	Series  *CitySeries
	Failure *CityFailure
}

// AggregateView is the multi-city result of one run. Series keeps the request
// order; Summary maps a city name to its current interval (the last duplicate
// request wins).
type AggregateView struct {
	Series  []CitySeries              `json:"series"`
	Summary map[string]ScoredInterval `json:"summary"`
}

// RunResult pairs the aggregate view with the cities that did not make it.
type RunResult struct {
	View     AggregateView `json:"view"`
	Failures []CityFailure `json:"failures"`
}

// MapMarker is the overview entry for one city.
type MapMarker struct {
	City            string   `json:"city"`
	Lat             float64  `json:"lat"`
	Lon             float64  `json:"lon"`
	RainProbability float64  `json:"rain_probability"`
	Risk            RiskBand `json:"risk"`
	Color           string   `json:"color"`
}

// NewAggregateView builds the view from series already in request order.
func NewAggregateView(series []CitySeries) AggregateView {
	summary := make(map[string]ScoredInterval, len(series))
	for _, s := range series {
		summary[s.City] = s.Current
	}
	if series == nil {
		series = []CitySeries{}
	}
	return AggregateView{Series: series, Summary: summary}
}

// Markers returns one map marker per series, in series order.
func (v AggregateView) Markers() []MapMarker {
	markers := make([]MapMarker, 0, len(v.Series))
	for _, s := range v.Series {
		markers = append(markers, MapMarker{
			City:            s.City,
			Lat:             s.Location.Lat,
			Lon:             s.Location.Lon,
			RainProbability: s.Current.RainProbability,
			Risk:            s.Current.Risk,
			Color:           s.Current.Risk.Color(),
		})
	}
	return markers
}

// CitySnapshot is the message published to sinks for one built city.
type CitySnapshot struct {
	City        string           `json:"city"`
	GeneratedAt time.Time        `json:"generated_at"`
	Location    Location         `json:"location"`
	Current     ScoredInterval   `json:"current"`
	Intervals   []ScoredInterval `json:"intervals"`
}

// NewCitySnapshot stamps a series with its generation time.
func NewCitySnapshot(series CitySeries, generatedAt time.Time) CitySnapshot {
	return CitySnapshot{
		City:        series.City,
		GeneratedAt: generatedAt.UTC(),
		Location:    series.Location,
		Current:     series.Current,
		Intervals:   series.Intervals,
	}
}
