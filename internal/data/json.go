package data

import (
	"encoding/json"
	"fmt"
	"os"

	"outage-resilience/internal/config"
	"outage-resilience/internal/model"
)

// SiteBattery is the optional battery block of a site file. Zero fields defer to the config.
type SiteBattery struct {
	EnergyCapacityKWh   float64 `json:"energy_capacity_kwh"`
	PowerCapacityKW     float64 `json:"power_capacity_kw"`
	RoundTripEfficiency float64 `json:"round_trip_efficiency,omitempty"`
}

// Site is one site's resilience inputs as read from disk.
//
// Example:
//
//	{
//	  "name": "home-42",
//	  "battery": {"energy_capacity_kwh": 13.5, "power_capacity_kw": 5},
//	  "generation_kw": [ ... 8760 values ... ],
//	  "critical_load_kw": [ ... ],
//	  "soc_fraction": [ ... ]
//	}
type Site struct {
	Name    string       `json:"name,omitempty"`
	Battery *SiteBattery `json:"battery,omitempty"`
	model.SiteSeries
}

// BatteryOverride returns the site's battery as a config overlay (zero when absent).
func (s *Site) BatteryOverride() config.BatteryConfig {
	if s == nil || s.Battery == nil {
		return config.BatteryConfig{}
	}
	return config.BatteryConfig{
		Name:                s.Name,
		EnergyCapacityKWh:   s.Battery.EnergyCapacityKWh,
		PowerCapacityKW:     s.Battery.PowerCapacityKW,
		RoundTripEfficiency: s.Battery.RoundTripEfficiency,
	}
}

func LoadSiteJSON(path string) (*Site, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var site Site
	if err := json.Unmarshal(raw, &site); err != nil {
		return nil, fmt.Errorf("parse site %s: %w", path, err)
	}
	return &site, nil
}
