// Package enrichment computes the per-property metrics that feed scoring.
// All functions are pure and substitute documented defaults for missing or
// invalid input; none of them can fail.
package enrichment

import (
	"strings"
	"time"

	"wardwise/server/internal/models"
	"wardwise/server/internal/numeric"
)

// EarthquakeFormula selects how seismic resilience is banded. Two formulas
// exist historically: banding by building age relative to now, and banding by
// absolute construction year against the 1981 (shin-taishin) and 2000 code
// revisions. They diverge for older runs, so the choice is explicit
// configuration rather than a silent merge. Age banding is the default.
type EarthquakeFormula string

const (
	EarthquakeByAge  EarthquakeFormula = "age"
	EarthquakeByYear EarthquakeFormula = "year"
)

// ViewScore scales floor position within the building to 0-10, with a 3 point
// penalty for an obstructed view. Unknown floor or building height scores 0.
func ViewScore(p *models.Property) float64 {
	if p.BuildingFloors <= 0 || p.Floor <= 0 {
		return 0
	}
	score := 10 * float64(p.Floor) / float64(p.BuildingFloors)
	if p.ViewObstructed {
		score -= 3
	}
	return numeric.Clamp(score, 0, 10)
}

// LightScore maps orientation to a base score and adds one point when the
// listing photos were flagged as bright, capped at 10.
func LightScore(p *models.Property) float64 {
	o := strings.ToLower(p.Orientation)
	var base float64
	switch {
	case strings.Contains(o, "south"):
		base = 10
	case strings.Contains(o, "east"), strings.Contains(o, "west"):
		base = 7
	case strings.Contains(o, "north"):
		base = 3
	default:
		base = numeric.DefaultLightBase
	}
	if p.GoodLight {
		base++
	}
	return numeric.Clamp(base, 0, 10)
}

// SunlightScore blends light and view into one rounded figure.
func SunlightScore(lightScore, viewScore float64) float64 {
	return numeric.Round1(lightScore*0.6 + viewScore*0.4)
}

// EarthquakeScore bands seismic resilience per the selected formula.
func EarthquakeScore(p *models.Property, formula EarthquakeFormula) float64 {
	if formula == EarthquakeByYear {
		return earthquakeByYear(p.ConstructionYear)
	}
	return earthquakeByAge(p.AgeYears)
}

func earthquakeByAge(ageYears float64) float64 {
	age := numeric.Float(ageYears, 0)
	switch {
	case age <= 10:
		return 10
	case age <= 20:
		return 8
	case age <= 30:
		return 6
	case age <= 40:
		return 4
	default:
		return 2
	}
}

func earthquakeByYear(year int) float64 {
	switch {
	case year <= 0:
		return 0
	case year < 1981:
		return 0
	case year <= 2000:
		return 5
	default:
		return 10
	}
}

// DaysOnMarket counts whole days since the listing was first seen, 0 when the
// first-seen date is unknown or in the future.
func DaysOnMarket(p *models.Property, now time.Time) int {
	if p.FirstSeenDate == nil || p.FirstSeenDate.IsZero() {
		return 0
	}
	days := int(now.Sub(*p.FirstSeenDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// NegotiabilityScore estimates seller flexibility: days on market ramps the
// base to 10 over 180 days (fixed default of 2 when unknown), and an observed
// price cut adds up to 5 bonus points (15% cut saturates). Capped at 10.
func NegotiabilityScore(daysOnMarket int, daysKnown bool, priceCutPct float64) float64 {
	base := numeric.DefaultNegotiability
	if daysKnown {
		base = numeric.Clamp(float64(daysOnMarket)/18, 0, 10)
	}
	cut := numeric.Float(priceCutPct, 0)
	var bonus float64
	if cut > 0 {
		bonus = numeric.Clamp(cut/3, 0, 5)
	}
	return numeric.Clamp(base+bonus, 0, 10)
}
