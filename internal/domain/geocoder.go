package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0 to 1.0 provider confidence score
}

// Geocoder resolves city names and coordinates.
type Geocoder interface {
	// ForwardGeocode converts a city name and optional country code to coordinates.
	ForwardGeocode(ctx context.Context, name, country string) (GeocodingResult, error)

	// ReverseGeocode converts coordinates to place details.
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}
