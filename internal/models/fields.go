package models

// ScoreFieldColumns maps every exported ScoringResult field to the column it
// is persisted under. The store builds its update set from this table, so a
// new result field without a mapping is caught by tests instead of being
// silently dropped.
var ScoreFieldColumns = map[string]string{
	"Components":      "scoring_components",
	"BaseScore":       "base_score",
	"AddonScore":      "addon_score",
	"AdjustmentScore": "adjustment_score",
	"FinalScore":      "final_score",
	"Verdict":         "verdict",

	"ViewScore":          "view_score",
	"LightScore":         "light_score",
	"SunlightScore":      "sunlight_score",
	"EarthquakeScore":    "earthquake_score",
	"DaysOnMarket":       "days_on_market",
	"NegotiabilityScore": "negotiability_score",

	"WardDiscountPct":         "ward_discount_pct",
	"NumComparables":          "num_comparables",
	"ComparablePriceVariance": "comparable_price_variance",
	"MarketMedianPPA":         "market_median_ppa",
	"TargetVsMarketPct":       "target_vs_market_pct",
	"Comparables":             "comparables",

	"Upside":        "upside",
	"Risks":         "risks",
	"Justification": "justification",
}
