package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"outage-resilience/internal/api"
	"outage-resilience/internal/api/handlers"
	"outage-resilience/internal/data"
	"outage-resilience/internal/metrics"
	"outage-resilience/internal/resilience"
	"outage-resilience/internal/store"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	setLogLevel(os.Getenv("LOG_LEVEL"))

	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	batteryDir := handlers.DefaultBatteryDir()
	if info, err := os.Stat(batteryDir); err == nil && info.IsDir() {
		log.Info().Str("battery_dir", batteryDir).Msg("battery directory found")
	} else {
		log.Warn().Err(err).Str("battery_dir", batteryDir).Msg("battery directory not found")
	}

	cacheTTL := time.Hour
	if raw := os.Getenv("RESILIENCE_CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatal().Err(err).Str("value", raw).Msg("invalid RESILIENCE_CACHE_TTL")
		}
		cacheTTL = ttl
	}
	cache := data.NewResultCache(cacheTTL)
	defer cache.Close()

	deps := api.Deps{
		Engine:     resilience.New(0),
		Cache:      cache,
		Metrics:    metrics.NewRegistry(),
		BatteryDir: batteryDir,
	}

	if dbPath := os.Getenv("RESILIENCE_DB"); dbPath != "" {
		repo, err := store.New(dbPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", dbPath).Msg("failed to open run store")
		}
		defer repo.Close()
		deps.Runs = repo
		log.Info().Str("path", dbPath).Msg("persisting runs")
	} else {
		log.Info().Msg("RESILIENCE_DB not set, runs will not be persisted")
	}

	// Set up Gin router
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(deps)

	// Start server
	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("addr", addr).Msg("starting API server")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

func setLogLevel(level string) {
	if level == "" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown LOG_LEVEL, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
