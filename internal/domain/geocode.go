package domain

import (
	"context"
	"log/slog"
)

// EnrichLocation fills in a city's location from a geocoder. Missing coordinates
// are resolved by forward geocoding the city name; present coordinates get a
// place name by reverse geocoding. If geocoder is nil the location is returned
// unchanged; geocoding errors leave the source coordinates in place with
// GeoSource "failed".
func EnrichLocation(ctx context.Context, city string, loc Location, geocoder Geocoder, logger *slog.Logger) Location {
	if geocoder == nil {
		return loc
	}

	if !loc.HasCoords() {
		if city == "" {
			loc.GeoSource = "original"
			return loc
		}
		result, err := geocoder.ForwardGeocode(ctx, city, loc.Country)
		if err != nil {
			logger.Warn("forward geocoding failed",
				"city", city,
				"country", loc.Country,
				"error", err,
			)
			loc.GeoSource = "failed"
			return loc
		}
		if result.Lat != 0 || result.Lon != 0 {
			loc.Lat = result.Lat
			loc.Lon = result.Lon
			loc.PlaceName = result.FormattedAddress
			loc.GeoSource = "forward"
			return loc
		}
		loc.GeoSource = "original"
		return loc
	}

	if loc.PlaceName != "" {
		loc.GeoSource = "original"
		return loc
	}

	result, err := geocoder.ReverseGeocode(ctx, loc.Lat, loc.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"city", city,
			"lat", loc.Lat,
			"lon", loc.Lon,
			"error", err,
		)
		loc.GeoSource = "failed"
		return loc
	}
	if result.FormattedAddress != "" {
		loc.PlaceName = result.FormattedAddress
		loc.GeoSource = "reverse"
		return loc
	}
	loc.GeoSource = "original"
	return loc
}
