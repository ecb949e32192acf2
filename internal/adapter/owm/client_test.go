package owm

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/rain-risk-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/mumbai.json")
	require.NoError(t, err)
	return data
}

func TestDecodeForecast(t *testing.T) {
	fc, err := DecodeForecast(loadFixture(t))
	require.NoError(t, err)

	assert.Equal(t, "Mumbai", fc.City)
	assert.Equal(t, domain.Location{Lat: 19.0144, Lon: 72.8479, Country: "IN"}, fc.Location)
	require.Len(t, fc.Intervals, 3)

	first := fc.Intervals[0]
	assert.Equal(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), first.Timestamp)
	assert.Equal(t, 28.1, first.Temperature)
	assert.Equal(t, 85.0, first.Humidity)
	assert.Equal(t, 1008.0, first.Pressure)
	require.NotNil(t, first.WindDirection)
	assert.Equal(t, 245.0, *first.WindDirection)
	require.NotNil(t, first.Rain3h)
	assert.Equal(t, 1.21, *first.Rain3h)
	assert.Equal(t, "light rain", first.Description)
	assert.Equal(t, "10d", first.Icon)

	second := fc.Intervals[1]
	assert.Nil(t, second.WindDirection, "missing wind.deg stays nil")
	assert.Nil(t, second.Rain3h, "missing rain block stays nil")
}

func TestDecodeForecast_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"list": [`},
		{"bad dt_txt", `{"list": [{"dt_txt": "yesterday"}]}`},
		{"no timestamp", `{"list": [{"main": {"temp": 20}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeForecast([]byte(tt.body))
			require.Error(t, err)
		})
	}
}

func TestDecodeForecast_UnixFallback(t *testing.T) {
	fc, err := DecodeForecast([]byte(`{"list": [{"dt": 1719792000}]}`))
	require.NoError(t, err)
	require.Len(t, fc.Intervals, 1)
	assert.Equal(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), fc.Intervals[0].Timestamp)
}

func TestClient_FetchForecast(t *testing.T) {
	fixture := loadFixture(t)
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		gotQuery = map[string]string{
			"q":     r.URL.Query().Get("q"),
			"appid": r.URL.Query().Get("appid"),
			"units": r.URL.Query().Get("units"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(fixture)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, "", 5*time.Second, discardLogger())
	fc, err := c.FetchForecast(context.Background(), "Bombay")
	require.NoError(t, err)

	assert.Equal(t, "Bombay", fc.City, "keyed by requested name")
	assert.Len(t, fc.Intervals, 3)
	assert.Equal(t, map[string]string{"q": "Bombay", "appid": "test-key", "units": "metric"}, gotQuery)
}

func TestClient_FetchForecast_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not found", http.StatusNotFound, `{"cod":"404","message":"city not found"}`, domain.ErrCityNotFound},
		{"unauthorized", http.StatusUnauthorized, `{"cod":401}`, domain.ErrFetchFailed},
		{"server error", http.StatusInternalServerError, `oops`, domain.ErrFetchFailed},
		{"bad body", http.StatusOK, `not json`, domain.ErrFetchFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient("k", srv.URL, "metric", 5*time.Second, discardLogger())
			_, err := c.FetchForecast(context.Background(), "Atlantis")
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_TransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := NewClient("secret-key", srv.URL, "metric", time.Second, discardLogger())
	_, err := c.FetchForecast(context.Background(), "Delhi")

	require.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.NotContains(t, err.Error(), "secret-key")
}

type countingFetcher struct {
	calls int
}

func (c *countingFetcher) FetchForecast(_ context.Context, city string) (domain.RawForecast, error) {
	c.calls++
	return domain.RawForecast{City: city}, nil
}

func TestRateLimitedSource(t *testing.T) {
	inner := &countingFetcher{}
	src := NewRateLimitedSource(inner, 1, 1)

	_, err := src.FetchForecast(context.Background(), "Delhi")
	require.NoError(t, err)

	// The bucket is empty and the next token is a second away.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = src.FetchForecast(ctx, "Mumbai")
	require.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.Equal(t, 1, inner.calls)
}
