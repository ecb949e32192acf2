package owm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/rain-risk-service/internal/domain"
)

// DefaultBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Client fetches 5-day / 3-hour forecasts from OpenWeatherMap.
type Client struct {
	apiKey     string
	baseURL    string
	units      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap forecast client.
func NewClient(apiKey, baseURL, units string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if units == "" {
		units = "metric"
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		units:   units,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchForecast returns the raw forecast for city. The returned forecast is
// keyed by the requested name. A 404 maps to domain.ErrCityNotFound; every
// other failure maps to domain.ErrFetchFailed.
func (c *Client) FetchForecast(ctx context.Context, city string) (domain.RawForecast, error) {
	params := url.Values{
		"q":     {city},
		"appid": {c.apiKey},
		"units": {c.units},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forecast?"+params.Encode(), nil)
	if err != nil {
		return domain.RawForecast{}, fmt.Errorf("fetch forecast for %q: %w: %w", city, domain.ErrFetchFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RawForecast{}, fmt.Errorf("fetch forecast for %q: %w: %w", city, domain.ErrFetchFailed, redact(err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.RawForecast{}, fmt.Errorf("fetch forecast for %q: %w", city, domain.ErrCityNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.RawForecast{}, fmt.Errorf("fetch forecast for %q: %w: status %d: %s",
			city, domain.ErrFetchFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.RawForecast{}, fmt.Errorf("fetch forecast for %q: %w: read body: %w", city, domain.ErrFetchFailed, err)
	}

	forecast, err := DecodeForecast(data)
	if err != nil {
		return domain.RawForecast{}, fmt.Errorf("fetch forecast for %q: %w: %w", city, domain.ErrFetchFailed, err)
	}
	resolved := forecast.City
	forecast.City = city

	c.logger.Debug("forecast fetched",
		"city", city,
		"resolved_name", resolved,
		"intervals", len(forecast.Intervals),
	)
	return forecast, nil
}

// redact strips the request URL, which carries the API key, from transport errors.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}
