package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummaryStatsFormatting(t *testing.T) {
	four := 4.0
	mixed := 11.0 / 3.0

	tests := []struct {
		name  string
		stats SummaryStats
		want  string
	}{
		{"no reviews", SummaryStats{}, "0.0"},
		{"whole rating", SummaryStats{AverageRating: &four}, "4.0"},
		{"fractional rating", SummaryStats{AverageRating: &mixed}, "3.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stats.Summary().AverageRating)
		})
	}
}

func TestParseBookingDate(t *testing.T) {
	blank, err := ParseBookingDate("  ")
	assert.NoError(t, err)
	assert.Nil(t, blank)

	for _, raw := range []string{"2025-03-01T09:30:00Z", "2025-03-01T09:30", "2025-03-01 09:30:00"} {
		got, err := ParseBookingDate(raw)
		if assert.NoError(t, err, raw) {
			assert.Equal(t, 9, got.Hour(), raw)
			assert.Equal(t, 30, got.Minute(), raw)
		}
	}

	day, err := ParseBookingDate("2025-03-01")
	assert.NoError(t, err)
	assert.Equal(t, 1, day.Day())

	_, err = ParseBookingDate("next tuesday")
	assert.Error(t, err)
}
