package models

import "time"

// ResilienceResponse represents the response from a resilience run
type ResilienceResponse struct {
	ID             string            `json:"id,omitempty"`
	Status         string            `json:"status"`
	Cached         bool              `json:"cached"`
	Summary        ResilienceSummary `json:"summary"`
	HourlySurvival []int             `json:"hourly_survival,omitempty"`
	Curves         *SurvivalCurves   `json:"curves,omitempty"`
}

// ResilienceSummary contains the scalar outcome of a run
type ResilienceSummary struct {
	Name       string       `json:"name,omitempty"`
	Battery    BatterySpecs `json:"battery"`
	Hours      int          `json:"hours"`
	MinHours   int          `json:"min_hours"`
	MaxHours   int          `json:"max_hours"`
	AvgHours   float64      `json:"avg_hours"`
	Degenerate bool         `json:"degenerate,omitempty"`
}

// SurvivalCurves are the survival-probability curves of a run.
// ByMonth has 12 rows (January first), ByHourOfDay has 24; rows are zero-padded to equal length.
type SurvivalCurves struct {
	DurationThresholds []int       `json:"duration_thresholds"`
	Overall            []float64   `json:"overall"`
	ByMonth            [][]float64 `json:"by_month"`
	ByHourOfDay        [][]float64 `json:"by_hour_of_day"`
}

// HourlySurvivalResponse is the per-start-hour series of a stored run
type HourlySurvivalResponse struct {
	ID             string `json:"id"`
	HourlySurvival []int  `json:"hourly_survival"`
}

// RunInfo is one entry of the stored run listing
type RunInfo struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Summary   ResilienceSummary `json:"summary"`
}

// RunListResponse lists stored runs, newest first
type RunListResponse struct {
	Runs []RunInfo `json:"runs"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Name    string             `json:"name"`
	Summary *ResilienceSummary `json:"summary,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// BatteryInfo represents information about a battery preset
type BatteryInfo struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	File  string       `json:"file"`
	Specs BatterySpecs `json:"specs"`
}

// BatterySpecs contains battery specifications
type BatterySpecs struct {
	EnergyCapacityKWh   float64 `json:"energy_capacity_kwh"`
	PowerCapacityKW     float64 `json:"power_capacity_kw"`
	RoundTripEfficiency float64 `json:"round_trip_efficiency,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
