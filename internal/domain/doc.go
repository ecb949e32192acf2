// Package domain models multi-city rain risk forecasts.
//
// # Data Source
//
// Forecasts come from the OpenWeatherMap 5-day / 3-hour forecast endpoint
// (/data/2.5/forecast). Each response holds city metadata and an ordered list of
// forecast intervals, one per 3-hour slot, nearest slot first. The owm adapter
// decodes that payload into [RawForecast]; everything downstream of it lives here
// and in the pipeline package and performs no I/O.
//
// # OpenWeatherMap Conventions
//
// Timestamp:
//
//	"dt_txt" is "YYYY-MM-DD HH:MM:SS" with no zone designator; the adapter parses it
//	as UTC. The calendar date of an interval is the date literally encoded in that
//	timestamp (see [DateOf]); no zone conversion is applied.
//
// Optional fields:
//
//	"wind.deg" and "rain.3h" are omitted by the API when unknown or when no rain is
//	expected. They are decoded as nil pointers and defaulted to 0 by
//	[NormalizeInterval]. No other field is defaulted.
//
// Units (units=metric): temperature °C, pressure hPa, humidity %, wind speed m/s,
// wind direction degrees, cloudiness %, precipitation mm over the trailing 3 hours.
//
// # Scoring
//
// The rain probability of an interval depends only on (temperature, humidity,
// pressure), in that order, fed to a fitted binary classifier (see package model).
// The probability of the "rain" class is scaled to a 0 to 100 percentage rounded to two
// decimals.
//
// Risk classification uses fixed thresholds, applied by [Band] and nowhere else:
//
//	probability < 30        low       (green)
//	30 <= probability < 60  moderate  (yellow)
//	probability >= 60       high      (red)
//
// Independently of the band, an interval is flagged RainLikely when the probability
// is strictly above 50.
//
// # Failures
//
// Failures are scoped per city. A fetch failure, an empty forecast, or a scoring
// failure excludes that city from the [AggregateView] and is reported as a
// [CityFailure]; other cities are unaffected. [ErrModelUnavailable] is the only
// process-level failure.
package domain
