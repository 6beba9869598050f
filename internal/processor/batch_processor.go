// Package processor drains the listing queue into the store with per-item
// failure isolation: one bad record never blocks the rest of its batch.
package processor

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"wardwise/server/config"
	"wardwise/server/internal/models"
	"wardwise/server/internal/queue"
)

// Store is the write surface for normalized listings.
type Store interface {
	UpsertListing(p *models.Property) error
}

// WardResolver maps coordinates to a ward name. Optional.
type WardResolver interface {
	Locate(lat, lng float64) (string, bool)
}

// BatchProcessor normalizes and persists listing batches from the queue.
type BatchProcessor struct {
	store  Store
	wards  WardResolver
	queue  *queue.ListingQueue
	config *config.Config
	logger *logrus.Logger
	now    func() time.Time
}

// NewBatchProcessor creates a batch processor. wards may be nil when no
// boundary file is configured.
func NewBatchProcessor(store Store, q *queue.ListingQueue, wards WardResolver, cfg *config.Config, logger *logrus.Logger) *BatchProcessor {
	return &BatchProcessor{
		store:  store,
		wards:  wards,
		queue:  q,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Start subscribes the processor to the queue.
func (p *BatchProcessor) Start() {
	p.queue.Subscribe(p.processBatch)
}

// processBatch normalizes and upserts each listing independently. Failures
// are logged and tallied; the batch always runs to completion.
func (p *BatchProcessor) processBatch(batch []*models.Property) error {
	var saved, failed int
	for _, listing := range batch {
		p.normalize(listing)
		if err := p.upsertWithRetry(listing); err != nil {
			p.logger.WithError(err).WithField("property_id", listing.ID).Error("Failed to persist listing")
			failed++
			continue
		}
		saved++
	}

	p.logger.WithFields(logrus.Fields{
		"batch_size": len(batch),
		"saved":      saved,
		"failed":     failed,
	}).Info("Processed listing batch")
	return nil
}

// normalize fills the defaults the engine relies on: a stable id, a canonical
// ward name (resolved from coordinates when the scraper had none), active
// status, and a first-seen timestamp.
func (p *BatchProcessor) normalize(listing *models.Property) {
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	if listing.Status == "" {
		listing.Status = "active"
	}

	listing.MarketSegment = config.NormalizeWard(listing.MarketSegment)
	if listing.MarketSegment == config.UnknownSegment && p.wards != nil &&
		listing.Latitude != nil && listing.Longitude != nil {
		if ward, ok := p.wards.Locate(*listing.Latitude, *listing.Longitude); ok {
			listing.MarketSegment = config.NormalizeWard(ward)
		}
	}

	if listing.FirstSeenDate == nil {
		now := p.now()
		listing.FirstSeenDate = &now
	}
}

func (p *BatchProcessor) upsertWithRetry(listing *models.Property) error {
	var err error
	for attempt := 0; attempt <= p.config.Ingest.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying listing upsert, attempt %d of %d", attempt, p.config.Ingest.MaxRetries)
			time.Sleep(time.Duration(p.config.Ingest.RetryDelay) * time.Second)
		}
		if err = p.store.UpsertListing(listing); err == nil {
			return nil
		}
	}
	return err
}
