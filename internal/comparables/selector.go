// Package comparables selects similar properties for a subject and derives
// the market statistics the scoring engine consumes.
package comparables

import (
	"math"
	"sort"

	"wardwise/server/internal/models"
	"wardwise/server/internal/numeric"
	"wardwise/server/internal/stats"
)

// MaxComparables caps the result list.
const MaxComparables = 8

// Tolerance bands, all inclusive.
const (
	priceBandLow  = 0.70
	priceBandHigh = 1.30
	sizeBandLow   = 0.75
	sizeBandHigh  = 1.25
	ageBandYears  = 10.0
)

// MarketStats is the side product of comparable selection used as scoring
// input. It is never persisted on its own.
type MarketStats struct {
	NumComparables          int     `json:"num_comparables"`
	ComparablePriceVariance float64 `json:"comparable_price_variance"`
	MarketMedianPPA         float64 `json:"market_median_ppa"`
	TargetVsMarketPct       float64 `json:"target_vs_market_pct"`
}

// Select filters the pool down to at most MaxComparables properties inside
// the price (±30%), size (±25%) and age (±10y) bands of the subject, closest
// price delta first with size delta breaking ties. Returns nil when the
// subject lacks price-per-area or size, or when nothing passes all filters.
func Select(subject *models.Property, pool []models.Property) []models.Comparable {
	if subject.PricePerArea <= 0 || subject.Size <= 0 {
		return nil
	}

	subjectAge := numeric.PositiveFloat(subject.AgeYears, numeric.DefaultComparableAge)
	ageLow := math.Max(0, subjectAge-ageBandYears)
	ageHigh := subjectAge + ageBandYears

	var matches []models.Comparable
	for i := range pool {
		c := &pool[i]
		if c.ID == subject.ID {
			continue
		}
		// A candidate missing price or size data is never matched.
		if c.PricePerArea <= 0 || c.Size <= 0 {
			continue
		}
		if c.PricePerArea < subject.PricePerArea*priceBandLow || c.PricePerArea > subject.PricePerArea*priceBandHigh {
			continue
		}
		if c.Size < subject.Size*sizeBandLow || c.Size > subject.Size*sizeBandHigh {
			continue
		}
		if c.AgeYears < ageLow || c.AgeYears > ageHigh {
			continue
		}
		matches = append(matches, models.Comparable{
			PropertyID:    c.ID,
			PricePerArea:  c.PricePerArea,
			Size:          c.Size,
			AgeYears:      c.AgeYears,
			PriceDeltaPct: math.Abs(c.PricePerArea-subject.PricePerArea) / subject.PricePerArea * 100,
			SizeDelta:     math.Abs(c.Size - subject.Size),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].PriceDeltaPct != matches[j].PriceDeltaPct {
			return matches[i].PriceDeltaPct < matches[j].PriceDeltaPct
		}
		return matches[i].SizeDelta < matches[j].SizeDelta
	})

	if len(matches) > MaxComparables {
		matches = matches[:MaxComparables]
	}
	return matches
}

// MarketStatsFor summarizes the selected comparables relative to the subject.
// With no comparables the variance defaults to 1.0 and the subject's own
// price-per-area stands in as the market median, which makes the
// target-vs-market delta zero.
func MarketStatsFor(subject *models.Property, comps []models.Comparable) MarketStats {
	ms := MarketStats{
		NumComparables:          len(comps),
		ComparablePriceVariance: numeric.DefaultPriceVariance,
		MarketMedianPPA:         subject.PricePerArea,
	}

	if len(comps) > 0 {
		ppas := make([]float64, len(comps))
		for i, c := range comps {
			ppas[i] = c.PricePerArea
		}
		ms.MarketMedianPPA = stats.Median(ppas)
		mean := stats.Mean(ppas)
		ms.ComparablePriceVariance = numeric.Ratio(stats.StdDev(ppas), mean)
	}

	if ms.MarketMedianPPA > 0 {
		ms.TargetVsMarketPct = (subject.PricePerArea - ms.MarketMedianPPA) / ms.MarketMedianPPA * 100
	}
	return ms
}
