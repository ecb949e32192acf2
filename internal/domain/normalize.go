package domain

import "time"

// NormalizeInterval converts a raw interval into a ForecastInterval, defaulting
// the optional wind direction and 3h precipitation to 0 and deriving the
// calendar date from the timestamp.
func NormalizeInterval(raw RawInterval) ForecastInterval {
	return ForecastInterval{
		Timestamp:     raw.Timestamp,
		Date:          DateOf(raw.Timestamp),
		Temperature:   raw.Temperature,
		TempMin:       raw.TempMin,
		TempMax:       raw.TempMax,
		Humidity:      raw.Humidity,
		Pressure:      raw.Pressure,
		WindSpeed:     raw.WindSpeed,
		WindDirection: valueOrZero(raw.WindDirection),
		Cloudiness:    raw.Cloudiness,
		Rain3h:        valueOrZero(raw.Rain3h),
		Description:   raw.Description,
		Icon:          raw.Icon,
	}
}

// DateOf truncates a timestamp to its calendar date ("YYYY-MM-DD") in the
// timestamp's own location.
func DateOf(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
