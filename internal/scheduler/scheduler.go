// Package scheduler drives periodic scoring and snapshot runs from cron
// expressions.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"wardwise/server/config"
	"wardwise/server/internal/scoring"
	"wardwise/server/internal/snapshot"
)

// Scheduler manages the periodic execution of scoring and snapshot batches.
type Scheduler struct {
	engine    *scoring.Engine
	snapshots *snapshot.Generator
	config    *config.Config
	logger    *logrus.Logger
	cron      *cron.Cron
}

// NewScheduler creates a scheduler.
func NewScheduler(engine *scoring.Engine, snapshots *snapshot.Generator, cfg *config.Config, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		engine:    engine,
		snapshots: snapshots,
		config:    cfg,
		logger:    logger,
		cron:      cron.New(),
	}
}

// Start registers the configured jobs and begins the cron loop. An empty
// expression disables that job; runs stay manually triggerable via the API.
func (s *Scheduler) Start(ctx context.Context) error {
	if expr := s.config.Schedule.ScoringCron; expr != "" {
		if _, err := s.cron.AddFunc(expr, func() {
			s.logger.Info("Starting scheduled scoring run")
			if _, err := s.engine.Run(ctx); err != nil {
				s.logger.WithError(err).Error("Scheduled scoring run failed")
			}
		}); err != nil {
			return fmt.Errorf("invalid scoring cron expression %q: %w", expr, err)
		}
		s.logger.WithField("cron", expr).Info("Scheduled scoring runs")
	}

	if expr := s.config.Schedule.SnapshotCron; expr != "" {
		if _, err := s.cron.AddFunc(expr, func() {
			s.logger.Info("Starting scheduled snapshot generation")
			if _, err := s.snapshots.GenerateAll(); err != nil {
				s.logger.WithError(err).Error("Scheduled snapshot generation failed")
			}
		}); err != nil {
			return fmt.Errorf("invalid snapshot cron expression %q: %w", expr, err)
		}
		s.logger.WithField("cron", expr).Info("Scheduled snapshot generation")
	}

	s.cron.Start()
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
