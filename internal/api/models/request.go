package models

import "outage-resilience/internal/model"

// ResilienceRequest represents the request body for a resilience run
type ResilienceRequest struct {
	Name        string            `json:"name,omitempty"`
	BatteryFile string            `json:"battery_file,omitempty"` // preset name, e.g. "powerwall_2"
	Battery     BatteryConfig     `json:"battery,omitempty"`
	Series      model.SiteSeries  `json:"series"`
	Options     ResilienceOptions `json:"options,omitempty"`
}

// BatteryConfig defines battery parameters. Zero fields fall back to the preset, then to defaults.
type BatteryConfig struct {
	Name                string  `json:"name,omitempty"`
	EnergyCapacityKWh   float64 `json:"energy_capacity_kwh"`
	PowerCapacityKW     float64 `json:"power_capacity_kw"`
	RoundTripEfficiency float64 `json:"round_trip_efficiency,omitempty"`
}

// ResilienceOptions controls how much of the result is returned
type ResilienceOptions struct {
	IncludeHourly bool `json:"include_hourly,omitempty"` // default: false
	IncludeCurves bool `json:"include_curves,omitempty"` // default: false
}

// CompareRequest runs one site's series against several batteries
type CompareRequest struct {
	Series      model.SiteSeries   `json:"series"`
	BatteryFile string             `json:"battery_file,omitempty"`
	BaseBattery BatteryConfig      `json:"base_battery,omitempty"`
	Variations  []BatteryVariation `json:"variations" binding:"required,min=1,dive"`
}

// BatteryVariation defines a variation to test
type BatteryVariation struct {
	Name    string          `json:"name" binding:"required"`
	Battery BatteryOverride `json:"battery"`
}

// BatteryOverride patches the base battery. Fields that are present replace the base
// value, so {"energy_capacity_kwh": 0, "power_capacity_kw": 0} describes a site without a battery.
type BatteryOverride struct {
	EnergyCapacityKWh   *float64 `json:"energy_capacity_kwh,omitempty"`
	PowerCapacityKW     *float64 `json:"power_capacity_kw,omitempty"`
	RoundTripEfficiency *float64 `json:"round_trip_efficiency,omitempty"`
}

