package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"outage-resilience/internal/api/handlers"
	"outage-resilience/internal/api/middleware"
	"outage-resilience/internal/data"
	"outage-resilience/internal/metrics"
	"outage-resilience/internal/resilience"
)

// Deps are the collaborators shared by the API handlers. Cache, Runs and Metrics are optional.
type Deps struct {
	Engine     *resilience.Engine
	Cache      *data.ResultCache
	Runs       handlers.RunStore
	Metrics    *metrics.Registry
	BatteryDir string
}

// NewRouter wires middleware and routes.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	resilienceHandler := handlers.NewResilienceHandler(d.Engine, d.Cache, d.Runs, d.Metrics, d.BatteryDir)
	batteryHandler := handlers.NewBatteryHandler(d.BatteryDir)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/resilience", resilienceHandler.RunResilience)
		api.GET("/resilience", resilienceHandler.ListRuns)
		api.POST("/resilience/compare", resilienceHandler.Compare)
		api.GET("/resilience/:id", resilienceHandler.GetRun)
		api.GET("/resilience/:id/hourly", resilienceHandler.GetHourly)

		api.GET("/batteries", batteryHandler.ListBatteries)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})

	return router
}
