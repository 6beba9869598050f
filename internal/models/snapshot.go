package models

import "time"

// Snapshot scopes. Segment snapshots use "segment:" + ward name.
const (
	SnapshotScopeGlobal        = "global"
	SnapshotScopeSegmentPrefix = "segment:"
)

// Snapshot is an overwritten-in-place market summary document, either global
// or for one ward. It is "current" state, not a time series.
type Snapshot struct {
	Scope   string    `gorm:"primaryKey" json:"scope"`
	Segment string    `json:"segment,omitempty"` // empty for the global snapshot
	Date    time.Time `json:"date"`

	MedianPricePerArea float64 `json:"median_price_per_area"`
	P25                float64 `json:"p25"`
	P50                float64 `json:"p50"`
	P75                float64 `json:"p75"`
	P90                float64 `json:"p90,omitempty"` // global only
	Inventory          int     `json:"inventory"`

	MinSize float64 `json:"min_size,omitempty"`
	MaxSize float64 `json:"max_size,omitempty"`
	AvgSize float64 `json:"avg_size,omitempty"`

	// Per-type listing counts, segment snapshots only. Stored as JSON text.
	PropertyTypes string `json:"property_types,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// SegmentScope builds the snapshot key for a ward.
func SegmentScope(segment string) string {
	return SnapshotScopeSegmentPrefix + segment
}
