package database

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"wardwise/server/internal/models"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"), logrus.New())
	assert.NoError(t, err)
	assert.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleListing(id string) *models.Property {
	seen := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	return &models.Property{
		ID:            id,
		URL:           "https://example.com/" + id,
		BuildingID:    "B1",
		MarketSegment: "Minato",
		Status:        "active",
		Price:         5000,
		PricePerArea:  900000,
		Size:          55,
		AgeYears:      12,
		FirstSeenDate: &seen,
	}
}

func sampleResult() *models.ScoringResult {
	return &models.ScoringResult{
		Components:      map[string]int{"ward_discount": 14, "condition": 4},
		BaseScore:       34,
		AddonScore:      10,
		AdjustmentScore: 0,
		FinalScore:      44,
		Verdict:         models.VerdictWatch,
		WardDiscountPct: -8.1,
		NumComparables:  2,
		MarketMedianPPA: 925000,
		Comparables: []models.Comparable{
			{PropertyID: "P2", PricePerArea: 1000000, Size: 58, AgeYears: 8, PriceDeltaPct: 11.1, SizeDelta: 3},
		},
		Upside:        "Not analyzed",
		Risks:         "Not analyzed",
		Justification: "Deterministic only",
	}
}

func TestUpsertListing_InsertAndRefresh(t *testing.T) {
	db := newTestDatabase(t)

	original := sampleListing("P1")
	assert.NoError(t, db.UpsertListing(original))

	// Re-ingest with a new price and a different first-seen date
	laterSeen := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	update := sampleListing("P1")
	update.Price = 4800
	update.FirstSeenDate = &laterSeen
	assert.NoError(t, db.UpsertListing(update))

	got, err := db.GetProperty("P1")
	assert.NoError(t, err)
	assert.Equal(t, 4800, got.Price)
	// first_seen_date is insert-only so days-on-market stays stable
	assert.Equal(t, original.FirstSeenDate.UTC(), got.FirstSeenDate.UTC())
}

func TestUpsertListing_PreservesScore(t *testing.T) {
	db := newTestDatabase(t)

	assert.NoError(t, db.UpsertListing(sampleListing("P1")))
	assert.NoError(t, db.ApplyScore("P1", sampleResult()))

	// Re-ingesting the listing must not wipe the last score
	assert.NoError(t, db.UpsertListing(sampleListing("P1")))

	got, err := db.GetProperty("P1")
	assert.NoError(t, err)
	assert.Equal(t, 44, got.FinalScore)
	assert.Equal(t, models.VerdictWatch, got.Verdict)
}

func TestApplyScore_RoundTrip(t *testing.T) {
	db := newTestDatabase(t)
	assert.NoError(t, db.UpsertListing(sampleListing("P1")))

	assert.NoError(t, db.ApplyScore("P1", sampleResult()))

	got, err := db.GetProperty("P1")
	assert.NoError(t, err)
	assert.Equal(t, 34, got.BaseScore)
	assert.Equal(t, 10, got.AddonScore)
	assert.Equal(t, 0, got.AdjustmentScore)
	assert.Equal(t, 44, got.FinalScore)
	assert.Equal(t, models.VerdictWatch, got.Verdict)
	assert.InDelta(t, -8.1, got.WardDiscountPct, 1e-9)
	assert.Equal(t, 2, got.NumComparables)
	assert.NotNil(t, got.ScoredAt)

	var components map[string]int
	assert.NoError(t, json.Unmarshal([]byte(got.ScoringComponents), &components))
	assert.Equal(t, 14, components["ward_discount"])

	var comps []models.Comparable
	assert.NoError(t, json.Unmarshal([]byte(got.Comparables), &comps))
	assert.Len(t, comps, 1)
	assert.Equal(t, "P2", comps[0].PropertyID)
}

func TestApplyScore_UnknownProperty(t *testing.T) {
	db := newTestDatabase(t)

	err := db.ApplyScore("missing", sampleResult())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestActiveProperties(t *testing.T) {
	db := newTestDatabase(t)

	for _, id := range []string{"P3", "P1", "P2"} {
		assert.NoError(t, db.UpsertListing(sampleListing(id)))
	}
	sold := sampleListing("P4")
	sold.Status = "sold"
	assert.NoError(t, db.UpsertListing(sold))

	pool, err := db.ActiveProperties(0)
	assert.NoError(t, err)
	assert.Len(t, pool, 3)
	assert.Equal(t, "P1", pool[0].ID)
	assert.Equal(t, "P2", pool[1].ID)
	assert.Equal(t, "P3", pool[2].ID)

	capped, err := db.ActiveProperties(2)
	assert.NoError(t, err)
	assert.Len(t, capped, 2)
}

func TestQueryProperties_Filters(t *testing.T) {
	db := newTestDatabase(t)

	buy := sampleListing("buy")
	watch := sampleListing("watch")
	watch.MarketSegment = "Adachi"
	reject := sampleListing("reject")
	for _, p := range []*models.Property{buy, watch, reject} {
		assert.NoError(t, db.UpsertListing(p))
	}

	score := func(id string, final int, verdict models.Verdict) {
		r := sampleResult()
		r.FinalScore = final
		r.Verdict = verdict
		assert.NoError(t, db.ApplyScore(id, r))
	}
	score("buy", 62, models.VerdictBuyCandidate)
	score("watch", 40, models.VerdictWatch)
	score("reject", 15, models.VerdictReject)

	all, err := db.QueryProperties(PropertyFilter{})
	assert.NoError(t, err)
	assert.Len(t, all, 3)
	// Highest score first
	assert.Equal(t, "buy", all[0].ID)
	assert.Equal(t, "reject", all[2].ID)

	buys, err := db.QueryProperties(PropertyFilter{Verdict: "BUY_CANDIDATE"})
	assert.NoError(t, err)
	assert.Len(t, buys, 1)
	assert.Equal(t, "buy", buys[0].ID)

	adachi, err := db.QueryProperties(PropertyFilter{Segment: "Adachi"})
	assert.NoError(t, err)
	assert.Len(t, adachi, 1)
	assert.Equal(t, "watch", adachi[0].ID)

	scored, err := db.QueryProperties(PropertyFilter{MinScore: 40})
	assert.NoError(t, err)
	assert.Len(t, scored, 2)

	limited, err := db.QueryProperties(PropertyFilter{Limit: 1})
	assert.NoError(t, err)
	assert.Len(t, limited, 1)
	assert.Equal(t, "buy", limited[0].ID)
}

func TestGetProperty_NotFound(t *testing.T) {
	db := newTestDatabase(t)

	got, err := db.GetProperty("missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestPutSnapshot_Overwrites(t *testing.T) {
	db := newTestDatabase(t)

	first := &models.Snapshot{Scope: "global", MedianPricePerArea: 900000, Inventory: 10}
	assert.NoError(t, db.PutSnapshot(first))

	second := &models.Snapshot{Scope: "global", MedianPricePerArea: 950000, Inventory: 12}
	assert.NoError(t, db.PutSnapshot(second))

	got, err := db.GetSnapshot("global")
	assert.NoError(t, err)
	assert.Equal(t, 950000.0, got.MedianPricePerArea)
	assert.Equal(t, 12, got.Inventory)

	var count int64
	assert.NoError(t, db.GetDB().Model(&models.Snapshot{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetSnapshot_NotFound(t *testing.T) {
	db := newTestDatabase(t)

	got, err := db.GetSnapshot("segment:Nowhere")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveRunAndRecentRuns(t *testing.T) {
	db := newTestDatabase(t)

	base := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := &models.Run{
			ID:        string(rune('a' + i)),
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			Total:     10,
			Processed: 10,
		}
		assert.NoError(t, db.SaveRun(run))
	}

	runs, err := db.RecentRuns(2)
	assert.NoError(t, err)
	assert.Len(t, runs, 2)
	// Newest first
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
}
