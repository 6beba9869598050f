package scoring

import (
	"math"

	"wardwise/server/internal/models"
	"wardwise/server/internal/numeric"
	"wardwise/server/internal/stats"
)

// Component names as persisted in the scoring_components map.
const (
	ComponentWardDiscount       = "ward_discount"
	ComponentBuildingDiscount   = "building_discount"
	ComponentCompsConsistency   = "comps_consistency"
	ComponentCondition          = "condition"
	ComponentSizeEfficiency     = "size_efficiency"
	ComponentCarryCost          = "carry_cost"
	ComponentPriceCut           = "price_cut"
	ComponentRenovation         = "renovation_potential"
	ComponentAccess             = "access"
	ComponentVisionPositive     = "vision_positive"
	ComponentVisionNegative     = "vision_negative"
	ComponentDataQuality        = "data_quality_penalty"
	ComponentOverstatedDiscount = "overstated_discount_penalty"
)

// peerSizeBand is the ±20% size tolerance used for building peers and
// same-segment consistency comparables.
const peerSizeBand = 0.20

// wardDiscount returns the discount of the subject's price-per-area against
// the segment median as a fraction (-0.15 = 15% below market). A segment
// without stats falls back to the subject's own value, making the discount
// zero rather than an error.
func wardDiscount(p *models.Property, segStats map[string]models.MarketSegmentStats) float64 {
	st, ok := segStats[p.MarketSegment]
	if !ok || st.MedianPricePerArea <= 0 || p.PricePerArea <= 0 {
		return 0
	}
	return (p.PricePerArea - st.MedianPricePerArea) / st.MedianPricePerArea
}

// wardDiscountScore maps the discount fraction to 0-35. A 21% discount or
// deeper hits the cap.
func wardDiscountScore(discount float64) int {
	if discount >= 0 {
		return 0
	}
	return int(math.Round(math.Min(35, math.Abs(discount)*166.7)))
}

// buildingDiscountScore compares the subject against similar-size units in
// the same building. No peers means no information, which earns a flat 5.
func buildingDiscountScore(p *models.Property, buildingPeers []*models.Property) int {
	if p.PricePerArea <= 0 {
		return 0
	}
	var ppas []float64
	for _, peer := range buildingPeers {
		if peer.ID == p.ID || peer.PricePerArea <= 0 {
			continue
		}
		if peer.Size < p.Size*(1-peerSizeBand) || peer.Size > p.Size*(1+peerSizeBand) {
			continue
		}
		ppas = append(ppas, peer.PricePerArea)
	}
	if len(ppas) == 0 {
		return 5
	}
	median := stats.Median(ppas)
	if median <= 0 {
		return 5
	}
	discount := (p.PricePerArea - median) / median
	switch {
	case discount >= 0:
		return 0
	case discount <= -0.20:
		return 10
	default:
		return int(math.Round(math.Abs(discount) * 50))
	}
}

// compsConsistencyScore rewards a tight price spread among same-segment,
// similar-size comparables. Fewer than two comparables scores 0.
func compsConsistencyScore(p *models.Property, segmentPeers []*models.Property) int {
	var ppas []float64
	for _, peer := range segmentPeers {
		if peer.ID == p.ID || peer.PricePerArea <= 0 {
			continue
		}
		if peer.Size < p.Size*(1-peerSizeBand) || peer.Size > p.Size*(1+peerSizeBand) {
			continue
		}
		ppas = append(ppas, peer.PricePerArea)
	}
	if len(ppas) < 2 {
		return 0
	}
	cv := numeric.Ratio(stats.StdDev(ppas), stats.Mean(ppas))
	return int(math.Round(numeric.Clamp((0.30-cv)/0.30, 0, 1) * 10))
}

func conditionScore(ageYears float64) int {
	age := numeric.Float(ageYears, 0)
	switch {
	case age <= 5:
		return 7
	case age <= 10:
		return 6
	case age <= 20:
		return 4
	case age <= 30:
		return 2
	default:
		return 0
	}
}

func sizeEfficiencyScore(size float64) int {
	switch {
	case size >= 40 && size <= 90:
		return 4
	case (size >= 30 && size < 40) || (size > 90 && size <= 110):
		return 2
	default:
		return 0
	}
}

func carryCostScore(p *models.Property) int {
	ratio := numeric.Ratio(float64(p.MonthlyFees()), p.PriceYen())
	switch {
	case ratio <= 0.001:
		return 4
	case ratio <= 0.002:
		return 2
	default:
		return 0
	}
}

func priceCutScore(priceCutPct float64) int {
	cut := numeric.Float(priceCutPct, 0)
	switch {
	case cut >= 15:
		return 5
	case cut >= 8:
		return 3
	case cut >= 3:
		return 1
	default:
		return 0
	}
}

// renovationScore pays for poor-condition units, more when the ward already
// prices the property at a 10%+ discount.
func renovationScore(conditionRating int, wardDiscountPct float64) int {
	if conditionRating < 1 || conditionRating > 2 {
		return 0
	}
	if wardDiscountPct <= -10 {
		return 5
	}
	return 3
}

func accessScore(walkMinutes int) int {
	switch {
	case walkMinutes <= 5:
		return 5
	case walkMinutes >= 20:
		return 0
	default:
		return int(math.Round(5 - 0.25*float64(walkMinutes-5)))
	}
}

func visionPositiveScore(viewScore float64) int {
	return int(math.Min(5, math.Round(viewScore)))
}

func visionNegativeScore(p *models.Property) int {
	if p.ViewObstructed {
		return -2
	}
	return 0
}

// criticalFieldsMissing counts the absent members of the seven fields the
// formula depends on most.
func criticalFieldsMissing(p *models.Property) int {
	missing := 0
	if p.Price <= 0 {
		missing++
	}
	if p.Size <= 0 {
		missing++
	}
	if p.AgeYears <= 0 {
		missing++
	}
	if p.Floor <= 0 {
		missing++
	}
	if p.BuildingFloors <= 0 {
		missing++
	}
	if p.MonthlyFees() <= 0 {
		missing++
	}
	if p.FirstSeenDate == nil || p.FirstSeenDate.IsZero() {
		missing++
	}
	return missing
}

func dataQualityPenalty(p *models.Property) int {
	missing := criticalFieldsMissing(p)
	if missing > 4 {
		missing = 4
	}
	return -2 * missing
}

// overstatedDiscountPenalty dampens discounts explained by an extreme size or
// an old building rather than mispricing. Both penalties can apply.
func overstatedDiscountPenalty(p *models.Property) int {
	penalty := 0
	if p.Size < 20 || p.Size > 120 {
		penalty -= 4
	}
	if p.AgeYears >= 40 {
		penalty -= 4
	}
	return penalty
}

// verdictFor classifies score + ward discount (in percent). The WATCH branch
// is deliberately an OR of a score band and a discount band; see DESIGN.md.
func verdictFor(finalScore int, wardDiscountPct float64) models.Verdict {
	switch {
	case finalScore >= 50 && wardDiscountPct <= -10:
		return models.VerdictBuyCandidate
	case (finalScore >= 35 && finalScore < 50) || (wardDiscountPct > -10 && wardDiscountPct <= -5):
		return models.VerdictWatch
	default:
		return models.VerdictReject
	}
}
