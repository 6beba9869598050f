package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wardwise/server/internal/models"
)

func TestMedian(t *testing.T) {
	assert.Equal(t, 900000.0, Median([]float64{800000, 900000, 1000000}))
	assert.Equal(t, 850000.0, Median([]float64{800000, 900000}))
	assert.Equal(t, 5.0, Median([]float64{5}))
	assert.Equal(t, 0.0, Median(nil))

	// Input order is preserved
	values := []float64{3, 1, 2}
	assert.Equal(t, 2.0, Median(values))
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestMean(t *testing.T) {
	assert.Equal(t, 5.0, Mean([]float64{2, 4, 4, 4, 5, 5, 7, 9}))
	assert.Equal(t, 0.0, Mean(nil))
}

func TestStdDev(t *testing.T) {
	// Classic population stddev example
	assert.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
	assert.Equal(t, 0.0, StdDev([]float64{7, 7, 7}))
	assert.Equal(t, 0.0, StdDev(nil))
}

func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}

	assert.InDelta(t, 17.5, Percentile(sorted, 25), 1e-9)
	assert.InDelta(t, 25.0, Percentile(sorted, 50), 1e-9)
	assert.InDelta(t, 32.5, Percentile(sorted, 75), 1e-9)
	assert.InDelta(t, 37.0, Percentile(sorted, 90), 1e-9)
	assert.Equal(t, 10.0, Percentile(sorted, 0))
	assert.Equal(t, 40.0, Percentile(sorted, 100))

	assert.Equal(t, 42.0, Percentile([]float64{42}, 75))
	assert.Equal(t, 0.0, Percentile(nil, 50))
}

func TestBySegment(t *testing.T) {
	pool := []models.Property{
		{ID: "1", MarketSegment: "Minato", PricePerArea: 1000000},
		{ID: "2", MarketSegment: "Minato", PricePerArea: 1200000},
		{ID: "3", MarketSegment: "Minato", PricePerArea: 0}, // no valid sample
		{ID: "4", MarketSegment: "Adachi", PricePerArea: 400000},
		{ID: "5", MarketSegment: "Shibuya", PricePerArea: -1}, // no valid sample
	}

	result := BySegment(pool)

	minato := result["Minato"]
	assert.Equal(t, 2, minato.SampleCount)
	assert.Equal(t, 1100000.0, minato.MedianPricePerArea)
	assert.Equal(t, 1100000.0, minato.MeanPricePerArea)

	adachi := result["Adachi"]
	assert.Equal(t, 1, adachi.SampleCount)
	assert.Equal(t, 400000.0, adachi.MedianPricePerArea)

	// Segments with no valid samples produce no entry
	_, ok := result["Shibuya"]
	assert.False(t, ok)
	assert.Len(t, result, 2)
}
