// Package scoring implements the deterministic investment scoring engine: a
// fixed, auditable formula over enrichment metrics, segment statistics and
// comparable selection, run as a single-pass batch with per-item failure
// isolation.
package scoring

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"wardwise/server/config"
	"wardwise/server/internal/comparables"
	"wardwise/server/internal/enrichment"
	"wardwise/server/internal/insight"
	"wardwise/server/internal/models"
	"wardwise/server/internal/numeric"
	"wardwise/server/internal/stats"
)

// Store is the persistence surface the engine needs. Writes are independent
// per property and idempotent, so a retry overwrites the same record.
type Store interface {
	ActiveProperties(limit int) ([]models.Property, error)
	ApplyScore(id string, result *models.ScoringResult) error
	SaveRun(run *models.Run) error
}

// Engine orchestrates a scoring batch over the full property pool.
type Engine struct {
	store    Store
	insights insight.Generator
	config   *config.Config
	logger   *logrus.Logger
	now      func() time.Time
}

// NewEngine creates a scoring engine. The insight generator may be nil, in
// which case the fallback text is applied to every property.
func NewEngine(store Store, insights insight.Generator, cfg *config.Config, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Engine{
		store:    store,
		insights: insights,
		config:   cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes one scoring batch with the configured property limit.
func (e *Engine) Run(ctx context.Context) (*models.Run, error) {
	return e.RunWithLimit(ctx, e.config.Batch.PropertyLimit)
}

// RunWithLimit executes one scoring batch: load the pool once, compute
// segment stats once, then score and persist every property independently.
// One property's failure is logged and counted, never fatal; only a pool-load
// failure aborts the run. A non-positive limit means unlimited.
func (e *Engine) RunWithLimit(ctx context.Context, limit int) (*models.Run, error) {
	start := e.now()

	// The property limit is admission control applied before segment stats,
	// so a capped run computes its statistics over the capped pool too.
	pool, err := e.store.ActiveProperties(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load property pool: %w", err)
	}

	segStats := stats.BySegment(pool)

	byBuilding := make(map[string][]*models.Property)
	bySegment := make(map[string][]*models.Property)
	for i := range pool {
		p := &pool[i]
		if p.BuildingID != "" {
			byBuilding[p.BuildingID] = append(byBuilding[p.BuildingID], p)
		}
		bySegment[p.MarketSegment] = append(bySegment[p.MarketSegment], p)
	}

	run := &models.Run{
		ID:        uuid.NewString(),
		StartedAt: start,
		Total:     len(pool),
	}

	for i := range pool {
		p := &pool[i]
		result, err := e.scoreOne(ctx, p, pool, segStats, byBuilding[p.BuildingID], bySegment[p.MarketSegment])
		if err != nil {
			e.logger.WithError(err).WithField("property_id", p.ID).Error("Failed to score property")
			run.Errors++
			continue
		}
		if err := e.store.ApplyScore(p.ID, result); err != nil {
			e.logger.WithError(err).WithField("property_id", p.ID).Error("Failed to persist scoring result")
			run.Errors++
			continue
		}
		run.Processed++
	}

	run.DurationMs = e.now().Sub(start).Milliseconds()
	if err := e.store.SaveRun(run); err != nil {
		e.logger.WithError(err).Error("Failed to save run summary")
	}

	e.logger.WithFields(logrus.Fields{
		"run_id":      run.ID,
		"total":       run.Total,
		"processed":   run.Processed,
		"errors":      run.Errors,
		"duration_ms": run.DurationMs,
	}).Info("Scoring run completed")

	return run, nil
}

// scoreOne isolates a single property: a panic inside the formula is turned
// into an error so the batch continues.
func (e *Engine) scoreOne(ctx context.Context, p *models.Property, pool []models.Property,
	segStats map[string]models.MarketSegmentStats, buildingPeers, segmentPeers []*models.Property) (result *models.ScoringResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("scoring panicked: %v", r)
		}
	}()
	result = e.Score(ctx, p, pool, segStats, buildingPeers, segmentPeers)
	return result, nil
}

// Score computes the full deterministic result for one property against a
// frozen pool and segment-stats snapshot. It performs no I/O besides the
// optional insight call and never fails on missing input.
func (e *Engine) Score(ctx context.Context, p *models.Property, pool []models.Property,
	segStats map[string]models.MarketSegmentStats, buildingPeers, segmentPeers []*models.Property) *models.ScoringResult {
	now := e.now()

	viewScore := enrichment.ViewScore(p)
	lightScore := enrichment.LightScore(p)
	sunlightScore := enrichment.SunlightScore(lightScore, viewScore)
	earthquakeScore := enrichment.EarthquakeScore(p, enrichment.EarthquakeFormula(e.config.Scoring.EarthquakeFormula))
	daysOnMarket := enrichment.DaysOnMarket(p, now)
	daysKnown := p.FirstSeenDate != nil && !p.FirstSeenDate.IsZero()
	negotiability := enrichment.NegotiabilityScore(daysOnMarket, daysKnown, p.PriceCutPct)

	comps := comparables.Select(p, pool)
	marketStats := comparables.MarketStatsFor(p, comps)

	discount := wardDiscount(p, segStats)
	discountPct := discount * 100

	components := map[string]int{
		ComponentWardDiscount:       wardDiscountScore(discount),
		ComponentBuildingDiscount:   buildingDiscountScore(p, buildingPeers),
		ComponentCompsConsistency:   compsConsistencyScore(p, segmentPeers),
		ComponentCondition:          conditionScore(p.AgeYears),
		ComponentSizeEfficiency:     sizeEfficiencyScore(p.Size),
		ComponentCarryCost:          carryCostScore(p),
		ComponentPriceCut:           priceCutScore(p.PriceCutPct),
		ComponentRenovation:         renovationScore(p.ConditionRating, discountPct),
		ComponentAccess:             accessScore(p.WalkMinutes),
		ComponentVisionPositive:     visionPositiveScore(viewScore),
		ComponentVisionNegative:     visionNegativeScore(p),
		ComponentDataQuality:        dataQualityPenalty(p),
		ComponentOverstatedDiscount: overstatedDiscountPenalty(p),
	}

	base := components[ComponentWardDiscount] +
		components[ComponentBuildingDiscount] +
		components[ComponentCompsConsistency] +
		components[ComponentCondition] +
		components[ComponentSizeEfficiency] +
		components[ComponentCarryCost]

	addon := components[ComponentPriceCut] +
		components[ComponentRenovation] +
		components[ComponentAccess] +
		components[ComponentVisionPositive]

	adjustment := components[ComponentVisionNegative] +
		components[ComponentDataQuality] +
		components[ComponentOverstatedDiscount]

	final := numeric.ClampInt(base+addon+adjustment, 0, 100)

	result := &models.ScoringResult{
		Components:      components,
		BaseScore:       base,
		AddonScore:      addon,
		AdjustmentScore: adjustment,
		FinalScore:      final,
		Verdict:         verdictFor(final, discountPct),

		ViewScore:          viewScore,
		LightScore:         lightScore,
		SunlightScore:      sunlightScore,
		EarthquakeScore:    earthquakeScore,
		DaysOnMarket:       daysOnMarket,
		NegotiabilityScore: negotiability,

		WardDiscountPct:         discountPct,
		NumComparables:          marketStats.NumComparables,
		ComparablePriceVariance: marketStats.ComparablePriceVariance,
		MarketMedianPPA:         marketStats.MarketMedianPPA,
		TargetVsMarketPct:       marketStats.TargetVsMarketPct,
		Comparables:             comps,
	}

	e.applyInsight(ctx, p.ID, result)
	return result
}

// applyInsight attaches the qualitative overlay, substituting the documented
// fallback when no generator is configured or the call fails.
func (e *Engine) applyInsight(ctx context.Context, propertyID string, result *models.ScoringResult) {
	in := insight.Fallback()
	if e.insights != nil {
		got, err := e.insights.Generate(ctx, insight.Request{
			PropertyID: propertyID,
			BaseScore:  result.BaseScore,
			FinalScore: result.FinalScore,
		})
		if err != nil {
			e.logger.WithError(err).WithField("property_id", propertyID).Warn("Insight generation failed, using fallback")
		} else {
			in = got
		}
	}
	result.Upside = in.Upside
	result.Risks = in.Risks
	result.Justification = in.Justification
}
