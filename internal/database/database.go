// Package database is the SQLite-backed store for properties, snapshots and
// run summaries.
package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"wardwise/server/internal/models"
)

type Database struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewDatabase(dbPath string, logger *logrus.Logger) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Database{db: db, logger: logger}, nil
}

// listingColumns are the ingest-owned columns updated on conflict. Scoring
// columns are deliberately excluded so a re-ingested listing keeps its last
// score, and first_seen_date is insert-only so days-on-market stays stable.
var listingColumns = []string{
	"url", "building_id", "property_type", "market_segment", "status",
	"price", "price_per_area", "size", "age_years", "construction_year",
	"floor", "building_floors", "management_fee", "repair_reserve",
	"walk_minutes", "orientation", "view_obstructed", "good_light",
	"condition_rating", "price_cut_pct", "latitude", "longitude", "updated_at",
}

// UpsertListing inserts or refreshes one listing record.
func (d *Database) UpsertListing(p *models.Property) error {
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(listingColumns),
	}).Create(p).Error
	if err != nil {
		return fmt.Errorf("failed to upsert listing %s: %w", p.ID, err)
	}
	return nil
}

// ActiveProperties returns the active pool, optionally capped. The cap is the
// scoring run's admission control, so it must be applied here, before any
// statistics are computed.
func (d *Database) ActiveProperties(limit int) ([]models.Property, error) {
	query := d.db.Where("status = ?", "active").Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var properties []models.Property
	if err := query.Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("failed to load active properties: %w", err)
	}
	return properties, nil
}

// ApplyScore writes every scoring and enrichment field of one result in a
// single update, using the explicit field-to-column mapping. The write is
// atomic per record and idempotent.
func (d *Database) ApplyScore(id string, result *models.ScoringResult) error {
	componentsJSON, err := json.Marshal(result.Components)
	if err != nil {
		return fmt.Errorf("failed to marshal scoring components: %w", err)
	}
	comparablesJSON, err := json.Marshal(result.Comparables)
	if err != nil {
		return fmt.Errorf("failed to marshal comparables: %w", err)
	}

	cols := models.ScoreFieldColumns
	updates := map[string]interface{}{
		cols["Components"]:      string(componentsJSON),
		cols["BaseScore"]:       result.BaseScore,
		cols["AddonScore"]:      result.AddonScore,
		cols["AdjustmentScore"]: result.AdjustmentScore,
		cols["FinalScore"]:      result.FinalScore,
		cols["Verdict"]:         result.Verdict,

		cols["ViewScore"]:          result.ViewScore,
		cols["LightScore"]:         result.LightScore,
		cols["SunlightScore"]:      result.SunlightScore,
		cols["EarthquakeScore"]:    result.EarthquakeScore,
		cols["DaysOnMarket"]:       result.DaysOnMarket,
		cols["NegotiabilityScore"]: result.NegotiabilityScore,

		cols["WardDiscountPct"]:         result.WardDiscountPct,
		cols["NumComparables"]:          result.NumComparables,
		cols["ComparablePriceVariance"]: result.ComparablePriceVariance,
		cols["MarketMedianPPA"]:         result.MarketMedianPPA,
		cols["TargetVsMarketPct"]:       result.TargetVsMarketPct,
		cols["Comparables"]:             string(comparablesJSON),

		cols["Upside"]:        result.Upside,
		cols["Risks"]:         result.Risks,
		cols["Justification"]: result.Justification,

		"scored_at": time.Now(),
	}

	tx := d.db.Model(&models.Property{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return fmt.Errorf("failed to apply score to %s: %w", id, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("property %s not found", id)
	}
	return nil
}

// PropertyFilter narrows property listings for the API.
type PropertyFilter struct {
	Segment  string
	Verdict  string
	MinScore int
	Limit    int
}

func (d *Database) QueryProperties(filter PropertyFilter) ([]models.Property, error) {
	query := d.db.Where("status = ?", "active")
	if filter.Segment != "" {
		query = query.Where("market_segment = ?", filter.Segment)
	}
	if filter.Verdict != "" {
		query = query.Where("verdict = ?", filter.Verdict)
	}
	if filter.MinScore > 0 {
		query = query.Where("final_score >= ?", filter.MinScore)
	}
	query = query.Order("final_score DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var properties []models.Property
	if err := query.Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	return properties, nil
}

func (d *Database) GetProperty(id string) (*models.Property, error) {
	var p models.Property
	err := d.db.First(&p, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property %s: %w", id, err)
	}
	return &p, nil
}

// PutSnapshot fully overwrites the snapshot document for its scope.
func (d *Database) PutSnapshot(snap *models.Snapshot) error {
	snap.UpdatedAt = time.Now()
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}},
		UpdateAll: true,
	}).Create(snap).Error
	if err != nil {
		return fmt.Errorf("failed to put snapshot %s: %w", snap.Scope, err)
	}
	return nil
}

func (d *Database) GetSnapshot(scope string) (*models.Snapshot, error) {
	var snap models.Snapshot
	err := d.db.First(&snap, "scope = ?", scope).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %s: %w", scope, err)
	}
	return &snap, nil
}

func (d *Database) SaveRun(run *models.Run) error {
	if err := d.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

func (d *Database) RecentRuns(limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []models.Run
	if err := d.db.Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent runs: %w", err)
	}
	return runs, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB exposes the underlying handle for tests.
func (d *Database) GetDB() *gorm.DB {
	return d.db
}
