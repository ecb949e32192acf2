//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/rain-risk-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require MAPBOX_TOKEN.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return NewClient(token, 10*time.Second, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_ForwardGeocode(t *testing.T) {
	c := smokeClient(t)

	result, err := c.ForwardGeocode(context.Background(), "Delhi", "IN")
	require.NoError(t, err)

	assert.InDelta(t, 28.6, result.Lat, 0.5)
	assert.InDelta(t, 77.2, result.Lon, 0.5)
	assert.Contains(t, result.FormattedAddress, "Delhi")
	assert.Greater(t, result.Confidence, 0.5)
}

func TestSmoke_ReverseGeocode(t *testing.T) {
	c := smokeClient(t)

	result, err := c.ReverseGeocode(context.Background(), 19.0144, 72.8479)
	require.NoError(t, err)

	assert.Contains(t, result.FormattedAddress, "Mumbai")
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	c := smokeClient(t)
	cached := NewCachedGeocoder(c, 10, observability.NewMetricsForTesting())

	r1, err := cached.ForwardGeocode(context.Background(), "Bangalore", "IN")
	require.NoError(t, err)
	r2, err := cached.ForwardGeocode(context.Background(), "Bangalore", "IN")
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
