package models

import "time"

// Verdict is the three-way investment classification for a property.
type Verdict string

const (
	VerdictBuyCandidate Verdict = "BUY_CANDIDATE"
	VerdictWatch        Verdict = "WATCH"
	VerdictReject       Verdict = "REJECT"
)

// Property is one normalized condominium listing plus the enrichment and
// scoring fields that get overwritten on every analysis run.
type Property struct {
	ID            string `gorm:"primaryKey" json:"id"`
	URL           string `json:"url"`
	BuildingID    string `gorm:"index" json:"building_id"`
	PropertyType  string `json:"property_type"`
	MarketSegment string `gorm:"index;default:Unknown" json:"market_segment"`
	Status        string `gorm:"index;default:active" json:"status"`

	Price            int     `json:"price"` // man-yen
	PricePerArea     float64 `json:"price_per_area"`
	Size             float64 `json:"size"` // m²
	AgeYears         float64 `json:"age_years"`
	ConstructionYear int     `json:"construction_year"`
	Floor            int     `json:"floor"`
	BuildingFloors   int     `json:"building_floors"`
	ManagementFee    int     `json:"management_fee"` // yen/month
	RepairReserve    int     `json:"repair_reserve"` // yen/month
	WalkMinutes      int     `json:"walk_minutes"`
	Orientation      string  `json:"orientation"`
	ViewObstructed   bool    `json:"view_obstructed"`
	GoodLight        bool    `json:"good_light"`
	ConditionRating  int     `json:"condition_rating"` // 1-5, 0 = unknown
	PriceCutPct      float64 `json:"price_cut_pct"`

	FirstSeenDate *time.Time `json:"first_seen_date,omitempty"`
	Latitude      *float64   `json:"latitude,omitempty"`
	Longitude     *float64   `json:"longitude,omitempty"`

	// Enrichment fields, recomputed every run. Column names are pinned
	// because ApplyScore writes them through the ScoreFieldColumns table.
	ViewScore          float64 `gorm:"column:view_score" json:"view_score"`
	LightScore         float64 `gorm:"column:light_score" json:"light_score"`
	SunlightScore      float64 `gorm:"column:sunlight_score" json:"sunlight_score"`
	EarthquakeScore    float64 `gorm:"column:earthquake_score" json:"earthquake_score"`
	DaysOnMarket       int     `gorm:"column:days_on_market" json:"days_on_market"`
	NegotiabilityScore float64 `gorm:"column:negotiability_score" json:"negotiability_score"`

	// Scoring fields, recomputed every run.
	ScoringComponents       string  `gorm:"column:scoring_components" json:"scoring_components,omitempty"` // JSON map
	BaseScore               int     `gorm:"column:base_score" json:"base_score"`
	AddonScore              int     `gorm:"column:addon_score" json:"addon_score"`
	AdjustmentScore         int     `gorm:"column:adjustment_score" json:"adjustment_score"`
	FinalScore              int     `gorm:"column:final_score;index" json:"final_score"`
	Verdict                 Verdict `gorm:"column:verdict;index" json:"verdict"`
	WardDiscountPct         float64 `gorm:"column:ward_discount_pct" json:"ward_discount_pct"`
	NumComparables          int     `gorm:"column:num_comparables" json:"num_comparables"`
	ComparablePriceVariance float64 `gorm:"column:comparable_price_variance" json:"comparable_price_variance"`
	MarketMedianPPA         float64 `gorm:"column:market_median_ppa" json:"market_median_ppa"`
	TargetVsMarketPct       float64 `gorm:"column:target_vs_market_pct" json:"target_vs_market_pct"`
	Comparables             string  `gorm:"column:comparables" json:"comparables,omitempty"` // JSON array

	// Qualitative overlay (optional collaborator, fallback text otherwise).
	Upside        string `gorm:"column:upside" json:"upside,omitempty"`
	Risks         string `gorm:"column:risks" json:"risks,omitempty"`
	Justification string `gorm:"column:justification" json:"justification,omitempty"`

	ScoredAt  *time.Time `json:"scored_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// MonthlyFees returns the total monthly carrying cost in yen.
func (p *Property) MonthlyFees() int {
	return p.ManagementFee + p.RepairReserve
}

// PriceYen returns the asking price in yen (Price is stored in man-yen).
func (p *Property) PriceYen() float64 {
	return float64(p.Price) * 10000
}

// Comparable is a reference to a similarly priced/sized/aged property in the
// same market. Built fresh for each subject, never persisted standalone.
type Comparable struct {
	PropertyID    string  `json:"property_id"`
	PricePerArea  float64 `json:"price_per_area"`
	Size          float64 `json:"size"`
	AgeYears      float64 `json:"age_years"`
	PriceDeltaPct float64 `json:"price_delta_pct"`
	SizeDelta     float64 `json:"size_delta"`
}

// MarketSegmentStats holds per-ward price statistics for one analysis run.
// Recomputed every run and shared read-only across the scoring pass.
type MarketSegmentStats struct {
	MedianPricePerArea float64 `json:"median_price_per_area"`
	MeanPricePerArea   float64 `json:"mean_price_per_area"`
	SampleCount        int     `json:"sample_count"`
}

// ScoringResult is everything the scoring engine computes for one property.
type ScoringResult struct {
	Components      map[string]int `json:"scoring_components"`
	BaseScore       int            `json:"base_score"`
	AddonScore      int            `json:"addon_score"`
	AdjustmentScore int            `json:"adjustment_score"`
	FinalScore      int            `json:"final_score"`
	Verdict         Verdict        `json:"verdict"`

	ViewScore          float64 `json:"view_score"`
	LightScore         float64 `json:"light_score"`
	SunlightScore      float64 `json:"sunlight_score"`
	EarthquakeScore    float64 `json:"earthquake_score"`
	DaysOnMarket       int     `json:"days_on_market"`
	NegotiabilityScore float64 `json:"negotiability_score"`

	WardDiscountPct         float64      `json:"ward_discount_pct"`
	NumComparables          int          `json:"num_comparables"`
	ComparablePriceVariance float64      `json:"comparable_price_variance"`
	MarketMedianPPA         float64      `json:"market_median_ppa"`
	TargetVsMarketPct       float64      `json:"target_vs_market_pct"`
	Comparables             []Comparable `json:"comparables"`

	Upside        string `json:"upside"`
	Risks         string `json:"risks"`
	Justification string `json:"justification"`
}

// Run records the summary of one scoring batch.
type Run struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	Total      int       `json:"total"`
	Processed  int       `json:"processed"`
	Errors     int       `json:"errors"`
	CreatedAt  time.Time `json:"created_at"`
}
