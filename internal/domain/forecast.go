package domain

import (
	"fmt"
	"time"
)

// OWMIconBaseURL is the OpenWeatherMap icon CDN prefix.
const OWMIconBaseURL = "http://openweathermap.org/img/wn/"

// RawInterval is one forecast interval as delivered by the weather source.
// Pointer fields are optional upstream and may be nil.
type RawInterval struct {
	Timestamp     time.Time
	Temperature   float64
	TempMin       float64
	TempMax       float64
	Humidity      float64
	Pressure      float64
	WindSpeed     float64
	WindDirection *float64
	Cloudiness    float64
	Rain3h        *float64
	Description   string
	Icon          string
}

// Location is a WGS-84 coordinate pair plus optional display metadata.
type Location struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Country   string  `json:"country,omitempty"`
	PlaceName string  `json:"place_name,omitempty"`
	GeoSource string  `json:"geo_source,omitempty"` // "forward", "reverse", "original", "failed"
}

// HasCoords reports whether the location carries a non-zero coordinate.
func (l Location) HasCoords() bool {
	return l.Lat != 0 || l.Lon != 0
}

// RawForecast is a successful weather source payload for one requested city.
type RawForecast struct {
	City      string
	Location  Location
	Intervals []RawInterval
}

// ForecastInterval is a normalized interval with optional fields defaulted.
type ForecastInterval struct {
	Timestamp     time.Time `json:"timestamp"`
	Date          string    `json:"date"`
	Temperature   float64   `json:"temperature"`
	TempMin       float64   `json:"temp_min"`
	TempMax       float64   `json:"temp_max"`
	Humidity      float64   `json:"humidity"`
	Pressure      float64   `json:"pressure"`
	WindSpeed     float64   `json:"wind_speed"`
	WindDirection float64   `json:"wind_direction"`
	Cloudiness    float64   `json:"cloudiness"`
	Rain3h        float64   `json:"rain_3h"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
}

// ScoredInterval is a ForecastInterval with its rain probability and risk band.
type ScoredInterval struct {
	ForecastInterval
	RainProbability float64  `json:"rain_probability"`
	Risk            RiskBand `json:"risk"`
	RainLikely      bool     `json:"rain_likely"`
}

// IconURL returns the 2x icon image URL for the interval's weather icon.
func (s ScoredInterval) IconURL() string {
	if s.Icon == "" {
		return ""
	}
	return fmt.Sprintf("%s%s@2x.png", OWMIconBaseURL, s.Icon)
}

// CitySeries is the scored, source-ordered forecast for one city.
// Intervals is never empty and Current is always Intervals[0].
type CitySeries struct {
	City      string           `json:"city"`
	Location  Location         `json:"location"`
	Current   ScoredInterval   `json:"current"`
	Intervals []ScoredInterval `json:"intervals"`
}
