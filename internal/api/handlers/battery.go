package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"outage-resilience/internal/api/models"
	"outage-resilience/internal/config"
)

// errPresetNotFound is returned when a battery_file names no preset.
var errPresetNotFound = errors.New("battery preset not found")

// DefaultBatteryDir resolves the preset directory: BATTERY_DIR, else ./examples/batteries.
func DefaultBatteryDir() string {
	dir := os.Getenv("BATTERY_DIR")
	if dir == "" {
		// Try to resolve relative to working directory first
		if wd, err := os.Getwd(); err == nil {
			dir = filepath.Join(wd, "examples", "batteries")
		} else {
			dir = "./examples/batteries"
		}
	}
	// Convert to absolute path for reliability
	if absDir, err := filepath.Abs(dir); err == nil {
		dir = absDir
	}
	return dir
}

// BatteryHandler handles battery-related requests
type BatteryHandler struct {
	batteryDir string
}

// NewBatteryHandler creates a new battery handler
func NewBatteryHandler(batteryDir string) *BatteryHandler {
	log.Info().Str("battery_dir", batteryDir).Msg("BatteryHandler: using battery directory")
	return &BatteryHandler{batteryDir: batteryDir}
}

// ListBatteries handles GET /api/v1/batteries
func (h *BatteryHandler) ListBatteries(c *gin.Context) {
	batteries := []models.BatteryInfo{}

	entries, err := os.ReadDir(h.batteryDir)
	if err != nil {
		log.Warn().Err(err).Str("battery_dir", h.batteryDir).Msg("BatteryHandler: failed to read battery directory")
		c.JSON(http.StatusOK, gin.H{"batteries": batteries})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(h.batteryDir, entry.Name())
		b, err := config.LoadBatteryFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("BatteryHandler: skipping invalid battery file")
			continue
		}

		// Keep the full filename without extension as the ID (e.g. "powerwall_2.yaml" -> "powerwall_2")
		id := strings.TrimSuffix(entry.Name(), ".yaml")
		name := b.Name
		if name == "" {
			name = id
		}
		batteries = append(batteries, models.BatteryInfo{
			ID:    id,
			Name:  name,
			File:  path,
			Specs: specsOf(b.ToModelParams()),
		})
	}

	log.Debug().Int("count", len(batteries)).Msg("BatteryHandler: returning batteries")
	c.JSON(http.StatusOK, gin.H{"batteries": batteries})
}

// loadPreset reads battery preset `name` from dir. Names are bare file stems.
func loadPreset(dir, name string) (config.BatteryConfig, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return config.BatteryConfig{}, fmt.Errorf("%w: %q", errPresetNotFound, name)
	}
	b, err := config.LoadBatteryFile(filepath.Join(dir, name+".yaml"))
	if errors.Is(err, os.ErrNotExist) {
		return config.BatteryConfig{}, fmt.Errorf("%w: %q", errPresetNotFound, name)
	}
	return b, err
}
