// Package numeric centralizes defaulting and rounding for scoring inputs.
// Every formula reads missing or invalid values through these helpers so the
// default table lives in one place.
package numeric

import "math"

// Defaults substituted for missing inputs.
const (
	DefaultComparableAge = 30.0 // subject age when unknown, comparable band center
	DefaultNegotiability = 2.0  // negotiability base when days-on-market unknown
	DefaultLightBase     = 5.0  // light score for unknown orientation
	DefaultPriceVariance = 1.0  // comparable price CV with no comparables
)

// Float returns v, or def when v is NaN or infinite.
func Float(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// PositiveFloat returns v when it is a finite positive number, def otherwise.
func PositiveFloat(v, def float64) float64 {
	v = Float(v, def)
	if v <= 0 {
		return def
	}
	return v
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt bounds v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Ratio returns num/den, or 0 when den is not a positive number. Formulas use
// this instead of guarding division themselves.
func Ratio(num, den float64) float64 {
	if den <= 0 || math.IsNaN(den) || math.IsInf(den, 0) {
		return 0
	}
	return num / den
}
