package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBand(t *testing.T) {
	tests := []struct {
		name        string
		probability float64
		expected    RiskBand
	}{
		{"zero", 0, RiskLow},
		{"just below moderate", 29.99, RiskLow},
		{"moderate boundary", 30, RiskModerate},
		{"mid moderate", 45, RiskModerate},
		{"just below high", 59.99, RiskModerate},
		{"high boundary", 60, RiskHigh},
		{"concrete scenario", 72, RiskHigh},
		{"hundred", 100, RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Band(tt.probability))
		})
	}
}

func TestBand_TotalOverRange(t *testing.T) {
	for p := 0.0; p <= 100; p += 0.25 {
		b := Band(p)
		switch {
		case p < 30:
			assert.Equal(t, RiskLow, b, "p=%v", p)
		case p < 60:
			assert.Equal(t, RiskModerate, b, "p=%v", p)
		default:
			assert.Equal(t, RiskHigh, b, "p=%v", p)
		}
	}
}

func TestBand_MonotonicRank(t *testing.T) {
	prev := Band(0).Rank()
	for p := 0.0; p <= 100; p += 0.5 {
		r := Band(p).Rank()
		assert.GreaterOrEqual(t, r, prev, "rank decreased at p=%v", p)
		prev = r
	}
	assert.Equal(t, -1, RiskBand("unknown").Rank())
}

func TestRainLikely(t *testing.T) {
	assert.False(t, RainLikely(50))
	assert.True(t, RainLikely(math.Nextafter(50, 51)))
	assert.False(t, RainLikely(0))
	assert.True(t, RainLikely(72))
}

func TestRiskBand_Presentation(t *testing.T) {
	tests := []struct {
		band    RiskBand
		color   string
		message string
	}{
		{RiskLow, "green", "Low chance of rain"},
		{RiskModerate, "yellow", "Moderate chance of rain"},
		{RiskHigh, "red", "High chance of rain"},
		{RiskBand(""), "", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.band), func(t *testing.T) {
			assert.Equal(t, tt.color, tt.band.Color())
			assert.Equal(t, tt.message, tt.band.Message())
		})
	}
}
