package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"outage-resilience/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load battery parameters from a separate YAML (e.g. examples/batteries/*.yaml).
	// If both BatteryFile and Battery are provided, Battery overrides BatteryFile.
	BatteryFile string           `yaml:"battery_file"`
	Battery     BatteryConfig    `yaml:"battery"`
	Simulation  SimulationConfig `yaml:"simulation"`
	Storage     StorageConfig    `yaml:"storage"`
	Cache       CacheConfig      `yaml:"cache"`
}

type BatteryConfig struct {
	Name                string  `yaml:"name"`
	EnergyCapacityKWh   float64 `yaml:"energy_capacity_kwh"`
	PowerCapacityKW     float64 `yaml:"power_capacity_kw"`
	RoundTripEfficiency float64 `yaml:"round_trip_efficiency"`
}

type SimulationConfig struct {
	// Workers bounds the goroutines simulating start hours; 0 = GOMAXPROCS.
	Workers int `yaml:"workers"`
}

type StorageConfig struct {
	// Path of the sqlite run store. Empty disables persistence.
	Path string `yaml:"path"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	// If battery_file is set, load it and merge in any explicit overrides from c.Battery.
	if c.BatteryFile != "" {
		batteryPath := c.BatteryFile
		if !filepath.IsAbs(batteryPath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), batteryPath)
			if _, err := os.Stat(cand); err == nil {
				batteryPath = cand
			}
		}
		loaded, err := LoadBatteryFile(batteryPath)
		if err != nil {
			return nil, err
		}
		c.Battery = MergeBattery(loaded, c.Battery)
	}
	return &c, nil
}

// ApplyDefaults fills fields whose zero value is not meaningful.
func (c *Config) ApplyDefaults() {
	if c.Battery.RoundTripEfficiency == 0 {
		c.Battery.RoundTripEfficiency = model.DefaultRoundTripEfficiency
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = time.Hour
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Battery.ToModelParams().Validate(); err != nil {
		return fmt.Errorf("battery config invalid: %w", err)
	}
	if c.Simulation.Workers < 0 {
		return errors.New("simulation.workers must be >= 0")
	}
	return nil
}

func (b BatteryConfig) ToModelParams() model.BatteryParams {
	return model.BatteryParams{
		EnergyCapacityKWh:   b.EnergyCapacityKWh,
		PowerCapacityKW:     b.PowerCapacityKW,
		RoundTripEfficiency: b.RoundTripEfficiency,
	}
}

type batteryFileWrapper struct {
	Battery BatteryConfig `yaml:"battery"`
}

// LoadBatteryFile reads a battery preset (a YAML document with a top-level `battery:` key).
func LoadBatteryFile(path string) (BatteryConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return BatteryConfig{}, err
	}
	var w batteryFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return BatteryConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Battery, nil
}

// MergeBattery overlays non-zero fields from override onto base.
// This is used when loading a battery file and then applying overrides from the request.
func MergeBattery(base, override BatteryConfig) BatteryConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.EnergyCapacityKWh != 0 {
		out.EnergyCapacityKWh = override.EnergyCapacityKWh
	}
	if override.PowerCapacityKW != 0 {
		out.PowerCapacityKW = override.PowerCapacityKW
	}
	if override.RoundTripEfficiency != 0 {
		out.RoundTripEfficiency = override.RoundTripEfficiency
	}
	return out
}
