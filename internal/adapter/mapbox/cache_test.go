package mapbox

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/rain-risk-service/internal/domain"
	"github.com/couchcryptid/rain-risk-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGeocoder struct {
	forwardCalls int
	reverseCalls int
	result       domain.GeocodingResult
	err          error
}

func (m *countingGeocoder) ForwardGeocode(_ context.Context, _, _ string) (domain.GeocodingResult, error) {
	m.forwardCalls++
	return m.result, m.err
}

func (m *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	m.reverseCalls++
	return m.result, m.err
}

var mumbai = domain.GeocodingResult{Lat: 19.0144, Lon: 72.8479, PlaceName: "Mumbai", FormattedAddress: "Mumbai, Maharashtra, India"}

func TestCachedGeocoder_ForwardCacheHit(t *testing.T) {
	inner := &countingGeocoder{result: mumbai}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedGeocoder(inner, 10, metrics)

	r1, err := cached.ForwardGeocode(context.Background(), "Mumbai", "IN")
	require.NoError(t, err)
	r2, err := cached.ForwardGeocode(context.Background(), " mumbai", "in")
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.forwardCalls, "name and country are normalized in the key")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("forward", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("forward", "hit")))
}

func TestCachedGeocoder_CountryScopesKey(t *testing.T) {
	inner := &countingGeocoder{result: mumbai}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.ForwardGeocode(context.Background(), "Hyderabad", "IN")
	_, _ = cached.ForwardGeocode(context.Background(), "Hyderabad", "PK")

	assert.Equal(t, 2, inner.forwardCalls)
}

func TestCachedGeocoder_ReverseCacheHit(t *testing.T) {
	inner := &countingGeocoder{result: mumbai}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.ReverseGeocode(context.Background(), 19.0144, 72.8479)
	require.NoError(t, err)
	_, err = cached.ReverseGeocode(context.Background(), 19.01441, 72.84789)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.reverseCalls, "coordinates are rounded to 4 decimals in the key")
}

func TestCachedGeocoder_EmptyAndErrorsNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.ForwardGeocode(context.Background(), "Atlantis", "")
	_, _ = cached.ForwardGeocode(context.Background(), "Atlantis", "")
	assert.Equal(t, 2, inner.forwardCalls)

	inner.err = errors.New("boom")
	inner.result = mumbai
	_, err := cached.ReverseGeocode(context.Background(), 1, 2)
	require.Error(t, err)
	assert.Zero(t, cached.cache.len())
}

func TestLRUCache(t *testing.T) {
	a := domain.GeocodingResult{PlaceName: "A"}
	b := domain.GeocodingResult{PlaceName: "B"}
	c := domain.GeocodingResult{PlaceName: "C"}

	tests := []struct {
		name    string
		ops     func(l *lruCache)
		present []string
		absent  []string
	}{
		{
			name:    "evicts least recently inserted",
			ops:     func(l *lruCache) { l.put("a", a); l.put("b", b); l.put("c", c) },
			present: []string{"b", "c"},
			absent:  []string{"a"},
		},
		{
			name: "get promotes entry",
			ops: func(l *lruCache) {
				l.put("a", a)
				l.put("b", b)
				l.get("a")
				l.put("c", c)
			},
			present: []string{"a", "c"},
			absent:  []string{"b"},
		},
		{
			name:    "put on existing key updates in place",
			ops:     func(l *lruCache) { l.put("a", a); l.put("a", b) },
			present: []string{"a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLRUCache(2)
			tt.ops(l)
			for _, k := range tt.present {
				_, ok := l.get(k)
				assert.True(t, ok, k)
			}
			for _, k := range tt.absent {
				_, ok := l.get(k)
				assert.False(t, ok, k)
			}
		})
	}
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	l := newLRUCache(2)
	l.put("a", domain.GeocodingResult{PlaceName: "A1"})
	l.put("a", domain.GeocodingResult{PlaceName: "A2"})

	result, ok := l.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", result.PlaceName)
	assert.Equal(t, 1, l.len())
}
