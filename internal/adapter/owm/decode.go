package owm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/rain-risk-service/internal/domain"
)

// forecastResponse mirrors the fields of the /forecast payload that the
// pipeline consumes.
type forecastResponse struct {
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
		Coord   struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
	} `json:"city"`
	List []listEntry `json:"list"`
}

type listEntry struct {
	Dt    int64  `json:"dt"`
	DtTxt string `json:"dt_txt"`
	Main  struct {
		Temp     float64 `json:"temp"`
		TempMin  float64 `json:"temp_min"`
		TempMax  float64 `json:"temp_max"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64  `json:"speed"`
		Deg   *float64 `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Rain *struct {
		ThreeHour *float64 `json:"3h"`
	} `json:"rain"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// DecodeForecast parses an OpenWeatherMap /forecast payload. RawForecast.City
// holds the name the provider resolved. Interval timestamps are UTC; dt_txt is
// preferred and dt is used when it is absent.
func DecodeForecast(data []byte) (domain.RawForecast, error) {
	var resp forecastResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return domain.RawForecast{}, fmt.Errorf("decode forecast: %w", err)
	}

	intervals := make([]domain.RawInterval, 0, len(resp.List))
	for i, e := range resp.List {
		ts, err := entryTime(e)
		if err != nil {
			return domain.RawForecast{}, fmt.Errorf("decode forecast: list[%d]: %w", i, err)
		}

		iv := domain.RawInterval{
			Timestamp:     ts,
			Temperature:   e.Main.Temp,
			TempMin:       e.Main.TempMin,
			TempMax:       e.Main.TempMax,
			Humidity:      e.Main.Humidity,
			Pressure:      e.Main.Pressure,
			WindSpeed:     e.Wind.Speed,
			WindDirection: e.Wind.Deg,
			Cloudiness:    e.Clouds.All,
		}
		if e.Rain != nil {
			iv.Rain3h = e.Rain.ThreeHour
		}
		if len(e.Weather) > 0 {
			iv.Description = e.Weather[0].Description
			iv.Icon = e.Weather[0].Icon
		}
		intervals = append(intervals, iv)
	}

	return domain.RawForecast{
		City: resp.City.Name,
		Location: domain.Location{
			Lat:     resp.City.Coord.Lat,
			Lon:     resp.City.Coord.Lon,
			Country: resp.City.Country,
		},
		Intervals: intervals,
	}, nil
}

func entryTime(e listEntry) (time.Time, error) {
	if e.DtTxt == "" {
		if e.Dt == 0 {
			return time.Time{}, errors.New("missing timestamp")
		}
		return time.Unix(e.Dt, 0).UTC(), nil
	}
	ts, err := time.ParseInLocation(time.DateTime, e.DtTxt, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse dt_txt %q: %w", e.DtTxt, err)
	}
	return ts, nil
}
