// Package snapshot produces overwritten-in-place market summary documents,
// one global and one per ward. Snapshots are current-state reporting, not a
// time series, and run independently of scoring.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"wardwise/server/internal/models"
	"wardwise/server/internal/stats"
)

// Store is the persistence surface for snapshot generation.
type Store interface {
	ActiveProperties(limit int) ([]models.Property, error)
	PutSnapshot(snap *models.Snapshot) error
}

// Generator builds and persists market snapshots.
type Generator struct {
	store  Store
	logger *logrus.Logger
	now    func() time.Time
}

// NewGenerator creates a snapshot generator.
func NewGenerator(store Store, logger *logrus.Logger) *Generator {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Generator{store: store, logger: logger, now: time.Now}
}

// GenerateAll loads the active pool once and overwrites the global snapshot
// plus one snapshot per segment that has valid samples. A single segment's
// write failure is logged and counted, not fatal.
func (g *Generator) GenerateAll() (int, error) {
	pool, err := g.store.ActiveProperties(0)
	if err != nil {
		return 0, fmt.Errorf("failed to load property pool: %w", err)
	}

	written := 0
	global := g.Global(pool)
	if err := g.store.PutSnapshot(global); err != nil {
		g.logger.WithError(err).Error("Failed to write global snapshot")
	} else {
		written++
	}

	segments := make(map[string][]models.Property)
	for _, p := range pool {
		segments[p.MarketSegment] = append(segments[p.MarketSegment], p)
	}

	names := make([]string, 0, len(segments))
	for name := range segments {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		snap := g.Segment(name, segments[name])
		if snap == nil {
			continue
		}
		if err := g.store.PutSnapshot(snap); err != nil {
			g.logger.WithError(err).WithField("segment", name).Error("Failed to write segment snapshot")
			continue
		}
		written++
	}

	g.logger.WithFields(logrus.Fields{
		"inventory": len(pool),
		"snapshots": written,
	}).Info("Snapshot generation completed")
	return written, nil
}

// Global summarizes the whole pool: median, p25/p50/p75/p90 of price-per-area
// and the size spread.
func (g *Generator) Global(pool []models.Property) *models.Snapshot {
	ppas := validPPAs(pool)

	snap := &models.Snapshot{
		Scope:              models.SnapshotScopeGlobal,
		Date:               g.now(),
		MedianPricePerArea: stats.Median(ppas),
		P25:                stats.Percentile(ppas, 25),
		P50:                stats.Percentile(ppas, 50),
		P75:                stats.Percentile(ppas, 75),
		P90:                stats.Percentile(ppas, 90),
		Inventory:          len(pool),
	}

	var sizeSum float64
	sized := 0
	for _, p := range pool {
		if p.Size <= 0 {
			continue
		}
		if sized == 0 || p.Size < snap.MinSize {
			snap.MinSize = p.Size
		}
		if p.Size > snap.MaxSize {
			snap.MaxSize = p.Size
		}
		sizeSum += p.Size
		sized++
	}
	if sized > 0 {
		snap.AvgSize = sizeSum / float64(sized)
	}
	return snap
}

// Segment summarizes one ward: median, p25/p50/p75 and a property-type
// breakdown. Returns nil when the segment has no valid price samples.
func (g *Generator) Segment(name string, pool []models.Property) *models.Snapshot {
	ppas := validPPAs(pool)
	if len(ppas) == 0 {
		return nil
	}

	types := make(map[string]int)
	for _, p := range pool {
		t := p.PropertyType
		if t == "" {
			t = "unknown"
		}
		types[t]++
	}
	typesJSON, err := json.Marshal(types)
	if err != nil {
		typesJSON = []byte("{}")
	}

	return &models.Snapshot{
		Scope:              models.SegmentScope(name),
		Segment:            name,
		Date:               g.now(),
		MedianPricePerArea: stats.Median(ppas),
		P25:                stats.Percentile(ppas, 25),
		P50:                stats.Percentile(ppas, 50),
		P75:                stats.Percentile(ppas, 75),
		Inventory:          len(pool),
		PropertyTypes:      string(typesJSON),
	}
}

// validPPAs returns the sorted positive price-per-area values of the pool.
func validPPAs(pool []models.Property) []float64 {
	var ppas []float64
	for _, p := range pool {
		if p.PricePerArea > 0 {
			ppas = append(ppas, p.PricePerArea)
		}
	}
	sort.Float64s(ppas)
	return ppas
}
