// Package stats computes grouped market statistics over a property pool.
package stats

import (
	"math"
	"sort"

	"wardwise/server/internal/models"
)

// Median returns the standard even/odd median of values. Returns 0 for an
// empty slice. The input is not modified.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation, 0 for an empty slice.
func StdDev(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

// Percentile returns the p-th percentile (0-100) of a sorted slice using
// linear interpolation between the two nearest ranks. Returns 0 for an empty
// slice; the caller must pass sorted values.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	k := (p / 100) * float64(n-1)
	floor := int(k)
	if floor >= n-1 {
		return sorted[n-1]
	}
	frac := k - float64(floor)
	return sorted[floor]*(1-frac) + sorted[floor+1]*frac
}

// BySegment groups the pool by market segment and computes median/mean
// price-per-area over records where it is a positive number. Segments with no
// valid samples produce no entry; callers fall back to the subject's own
// price-per-area, which makes the ward discount zero rather than an error.
func BySegment(pool []models.Property) map[string]models.MarketSegmentStats {
	grouped := make(map[string][]float64)
	for _, p := range pool {
		if p.PricePerArea > 0 {
			grouped[p.MarketSegment] = append(grouped[p.MarketSegment], p.PricePerArea)
		}
	}

	result := make(map[string]models.MarketSegmentStats, len(grouped))
	for segment, values := range grouped {
		result[segment] = models.MarketSegmentStats{
			MedianPricePerArea: Median(values),
			MeanPricePerArea:   Mean(values),
			SampleCount:        len(values),
		}
	}
	return result
}
