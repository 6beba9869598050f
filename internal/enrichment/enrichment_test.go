package enrichment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wardwise/server/internal/models"
)

func TestViewScore(t *testing.T) {
	tests := []struct {
		name     string
		property models.Property
		expected float64
	}{
		{"mid floor", models.Property{Floor: 5, BuildingFloors: 10}, 5},
		{"top floor", models.Property{Floor: 10, BuildingFloors: 10}, 10},
		{"obstructed mid floor", models.Property{Floor: 5, BuildingFloors: 10, ViewObstructed: true}, 2},
		{"obstructed top floor", models.Property{Floor: 10, BuildingFloors: 10, ViewObstructed: true}, 7},
		{"obstruction clamps at zero", models.Property{Floor: 1, BuildingFloors: 10, ViewObstructed: true}, 0},
		{"unknown floor", models.Property{Floor: 0, BuildingFloors: 10}, 0},
		{"unknown building height", models.Property{Floor: 5, BuildingFloors: 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ViewScore(&tt.property), 1e-9)
		})
	}
}

func TestLightScore(t *testing.T) {
	tests := []struct {
		orientation string
		goodLight   bool
		expected    float64
	}{
		{"South", false, 10},
		{"south-east", false, 10},
		{"East", false, 7},
		{"west", false, 7},
		{"North", false, 3},
		{"", false, 5},
		{"unknown direction", false, 5},
		{"South", true, 10}, // capped at 10
		{"North", true, 4},
	}
	for _, tt := range tests {
		p := &models.Property{Orientation: tt.orientation, GoodLight: tt.goodLight}
		assert.InDelta(t, tt.expected, LightScore(p), 1e-9, "orientation %q", tt.orientation)
	}
}

func TestSunlightScore(t *testing.T) {
	assert.InDelta(t, 8.0, SunlightScore(10, 5), 1e-9)
	assert.InDelta(t, 4.2, SunlightScore(7, 0), 1e-9)
	assert.InDelta(t, 0.0, SunlightScore(0, 0), 1e-9)
	assert.InDelta(t, 10.0, SunlightScore(10, 10), 1e-9)
}

func TestEarthquakeScoreByAge(t *testing.T) {
	tests := []struct {
		age      float64
		expected float64
	}{
		{5, 10}, {10, 10}, {15, 8}, {20, 8}, {25, 6}, {30, 6}, {35, 4}, {40, 4}, {45, 2},
	}
	for _, tt := range tests {
		p := &models.Property{AgeYears: tt.age}
		assert.Equal(t, tt.expected, EarthquakeScore(p, EarthquakeByAge), "age %v", tt.age)
	}

	// Unknown formula values fall back to age banding
	p := &models.Property{AgeYears: 5}
	assert.Equal(t, 10.0, EarthquakeScore(p, ""))
}

func TestEarthquakeScoreByYear(t *testing.T) {
	tests := []struct {
		year     int
		expected float64
	}{
		{0, 0}, {1975, 0}, {1980, 0}, {1981, 5}, {2000, 5}, {2001, 10}, {2020, 10},
	}
	for _, tt := range tests {
		p := &models.Property{ConstructionYear: tt.year}
		assert.Equal(t, tt.expected, EarthquakeScore(p, EarthquakeByYear), "year %d", tt.year)
	}
}

func TestDaysOnMarket(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysOnMarket(&models.Property{}, now))

	zero := time.Time{}
	assert.Equal(t, 0, DaysOnMarket(&models.Property{FirstSeenDate: &zero}, now))

	tenDaysAgo := now.AddDate(0, 0, -10)
	assert.Equal(t, 10, DaysOnMarket(&models.Property{FirstSeenDate: &tenDaysAgo}, now))

	partialDay := now.Add(-36 * time.Hour)
	assert.Equal(t, 1, DaysOnMarket(&models.Property{FirstSeenDate: &partialDay}, now))

	future := now.AddDate(0, 0, 3)
	assert.Equal(t, 0, DaysOnMarket(&models.Property{FirstSeenDate: &future}, now))
}

func TestNegotiabilityScore(t *testing.T) {
	// Unknown days on market uses the fixed base
	assert.InDelta(t, 2.0, NegotiabilityScore(0, false, 0), 1e-9)

	// Known days ramp to 10 over 180 days
	assert.InDelta(t, 0.0, NegotiabilityScore(0, true, 0), 1e-9)
	assert.InDelta(t, 5.0, NegotiabilityScore(90, true, 0), 1e-9)
	assert.InDelta(t, 10.0, NegotiabilityScore(180, true, 0), 1e-9)
	assert.InDelta(t, 10.0, NegotiabilityScore(365, true, 0), 1e-9)

	// Price cut bonus, saturating at 5 for a 15% cut
	assert.InDelta(t, 5.0, NegotiabilityScore(0, false, 9), 1e-9)
	assert.InDelta(t, 7.0, NegotiabilityScore(0, false, 15), 1e-9)
	assert.InDelta(t, 7.0, NegotiabilityScore(0, false, 30), 1e-9)

	// Total capped at 10
	assert.InDelta(t, 10.0, NegotiabilityScore(180, true, 30), 1e-9)
}
