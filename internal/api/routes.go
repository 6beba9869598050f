package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.POST("/listings", handler.IngestListings)
		api.GET("/properties", handler.GetProperties)
		api.GET("/properties/:id", handler.GetProperty)
		api.POST("/runs", handler.TriggerRun)
		api.GET("/runs/recent", handler.GetRecentRuns)
		api.POST("/snapshots", handler.TriggerSnapshots)
		api.GET("/snapshots/*scope", handler.GetSnapshot)
		api.GET("/health", handler.Health)
	}
}
