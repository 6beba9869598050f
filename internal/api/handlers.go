package api

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"wardwise/server/internal/database"
	"wardwise/server/internal/models"
	"wardwise/server/internal/queue"
	"wardwise/server/internal/scoring"
	"wardwise/server/internal/snapshot"
)

type Handler struct {
	db        *database.Database
	queue     *queue.ListingQueue
	engine    *scoring.Engine
	snapshots *snapshot.Generator
	logger    *logrus.Logger
}

func NewHandler(db *database.Database, q *queue.ListingQueue, engine *scoring.Engine, snapshots *snapshot.Generator, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Handler{
		db:        db,
		queue:     q,
		engine:    engine,
		snapshots: snapshots,
		logger:    logger,
	}
}

// IngestListings accepts a batch of normalized listings and enqueues them for
// persistence.
func (h *Handler) IngestListings(c *gin.Context) {
	var listings []*models.Property
	if err := c.ShouldBindJSON(&listings); err != nil {
		h.logger.WithError(err).Error("Failed to parse listing batch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing batch"})
		return
	}
	if len(listings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty listing batch"})
		return
	}

	if err := h.queue.Push(listings); err != nil {
		h.logger.WithError(err).Error("Failed to enqueue listing batch")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Queue unavailable"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"queued": len(listings)})
}

// GetProperties lists scored properties, optionally filtered.
func (h *Handler) GetProperties(c *gin.Context) {
	minScore, _ := strconv.Atoi(c.Query("min_score"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	properties, err := h.db.QueryProperties(database.PropertyFilter{
		Segment:  c.Query("segment"),
		Verdict:  c.Query("verdict"),
		MinScore: minScore,
		Limit:    limit,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to get properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get properties"})
		return
	}

	c.JSON(http.StatusOK, properties)
}

func (h *Handler) GetProperty(c *gin.Context) {
	property, err := h.db.GetProperty(c.Param("id"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get property"})
		return
	}
	if property == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	c.JSON(http.StatusOK, property)
}

// TriggerRun executes a scoring run synchronously and returns its summary.
// An optional ?limit= overrides the configured property limit for this run.
// The run is detached from the request context so a dropped client does not
// abandon a half-persisted batch.
func (h *Handler) TriggerRun(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())

	var run *models.Run
	var err error
	if limit, convErr := strconv.Atoi(c.Query("limit")); convErr == nil && limit > 0 {
		run, err = h.engine.RunWithLimit(ctx, limit)
	} else {
		run, err = h.engine.Run(ctx)
	}
	if err != nil {
		h.logger.WithError(err).Error("Scoring run failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Scoring run failed"})
		return
	}

	c.JSON(http.StatusOK, run)
}

func (h *Handler) GetRecentRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	runs, err := h.db.RecentRuns(limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get recent runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get recent runs"})
		return
	}

	c.JSON(http.StatusOK, runs)
}

// TriggerSnapshots regenerates the global and per-ward snapshots.
func (h *Handler) TriggerSnapshots(c *gin.Context) {
	written, err := h.snapshots.GenerateAll()
	if err != nil {
		h.logger.WithError(err).Error("Snapshot generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Snapshot generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshots": written})
}

// GetSnapshot returns one snapshot document. The scope is "global" or
// "segment:{ward}".
func (h *Handler) GetSnapshot(c *gin.Context) {
	scope := strings.TrimPrefix(c.Param("scope"), "/")
	if scope == "" {
		scope = models.SnapshotScopeGlobal
	}

	snap, err := h.db.GetSnapshot(scope)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get snapshot")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get snapshot"})
		return
	}
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Snapshot not found"})
		return
	}

	c.JSON(http.StatusOK, snap)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
