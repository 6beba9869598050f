package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"wardwise/server/config"
	"wardwise/server/internal/api"
	"wardwise/server/internal/database"
	"wardwise/server/internal/geometry"
	"wardwise/server/internal/insight"
	"wardwise/server/internal/processor"
	"wardwise/server/internal/queue"
	"wardwise/server/internal/scheduler"
	"wardwise/server/internal/scoring"
	"wardwise/server/internal/snapshot"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// Optional .env for local development
	if err := godotenv.Load(); err == nil {
		logger.Info("Loaded environment from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if dir := filepath.Dir(cfg.Server.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.WithError(err).Fatal("Failed to create database directory")
		}
	}

	logger.Infof("Using database at: %s", cfg.Server.DatabasePath)
	db, err := database.NewDatabase(cfg.Server.DatabasePath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Ward boundary index is optional; without it listings keep the segment
	// the scraper supplied.
	var wards processor.WardResolver
	if cfg.Geo.WardGeoJSONPath != "" {
		index, err := geometry.LoadWardIndex(cfg.Geo.WardGeoJSONPath, logger)
		if err != nil {
			logger.WithError(err).Error("Failed to load ward boundaries, continuing without coordinate resolution")
		} else {
			wards = index
		}
	}

	listingQueue := queue.NewListingQueue(cfg.Ingest.QueueSize, logger)
	batchProcessor := processor.NewBatchProcessor(db, listingQueue, wards, cfg, logger)
	batchProcessor.Start()
	for i := 0; i < cfg.Ingest.ProcessorCount; i++ {
		listingQueue.Start()
	}
	defer listingQueue.Close()

	var insights insight.Generator
	if cfg.Insight.Endpoint != "" {
		insights = insight.NewHTTPGenerator(cfg.Insight.Endpoint, time.Duration(cfg.Insight.TimeoutSeconds)*time.Second, logger)
		logger.WithField("endpoint", cfg.Insight.Endpoint).Info("Qualitative insight collaborator enabled")
	}

	engine := scoring.NewEngine(db, insights, cfg, logger)
	snapshots := snapshot.NewGenerator(db, logger)

	sched := scheduler.NewScheduler(engine, snapshots, cfg, logger)
	if err := sched.Start(context.Background()); err != nil {
		logger.WithError(err).Fatal("Failed to start scheduler")
	}
	defer sched.Stop()

	handler := api.NewHandler(db, listingQueue, engine, snapshots, logger)

	router := gin.Default()
	router.Use(cors.Default())
	api.SetupRoutes(router, handler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Infof("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
