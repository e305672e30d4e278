package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// optimizationResults matches the parts of the optimizer's results record that feed
// the resilience engine (outputs.Scenario.Site.*).
type optimizationResults struct {
	Outputs struct {
		Scenario struct {
			Status string `json:"status"`
			Site   struct {
				Storage struct {
					SizeKW         float64   `json:"size_kw"`
					SizeKWh        float64   `json:"size_kwh"`
					SOCSeriesPct   []float64 `json:"year_one_soc_series_pct"`
					ToLoadSeriesKW []float64 `json:"year_one_to_load_series_kw"`
				} `json:"Storage"`
				PV struct {
					ProductionSeriesKW []float64 `json:"year_one_power_production_series_kw"`
					ToLoadSeriesKW     []float64 `json:"year_one_to_load_series_kw"`
				} `json:"PV"`
				ElectricTariff struct {
					ToLoadSeriesKW []float64 `json:"year_one_to_load_series_kw"`
				} `json:"ElectricTariff"`
			} `json:"Site"`
		} `json:"Scenario"`
	} `json:"outputs"`
}

// LoadOptimizationResults reads an optimizer results record and derives resilience inputs:
// battery sizes, PV production, the battery's normal-operation SOC, and the home load
// (grid-to-load + PV-to-load + storage-to-load) as the critical load.
func LoadOptimizationResults(path string) (*Site, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	site, err := ParseOptimizationResults(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return site, nil
}

func ParseOptimizationResults(raw []byte) (*Site, error) {
	var res optimizationResults
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("parse optimization results: %w", err)
	}
	site := res.Outputs.Scenario.Site

	gridToLoad := site.ElectricTariff.ToLoadSeriesKW
	n := len(gridToLoad)
	if n == 0 {
		return nil, errors.New("ElectricTariff.year_one_to_load_series_kw is empty")
	}
	pvToLoad, err := seriesOrZeros("PV.year_one_to_load_series_kw", site.PV.ToLoadSeriesKW, n)
	if err != nil {
		return nil, err
	}
	storageToLoad, err := seriesOrZeros("Storage.year_one_to_load_series_kw", site.Storage.ToLoadSeriesKW, n)
	if err != nil {
		return nil, err
	}

	load := make([]float64, n)
	for h := range load {
		load[h] = gridToLoad[h] + pvToLoad[h] + storageToLoad[h]
	}

	out := &Site{
		Battery: &SiteBattery{
			EnergyCapacityKWh: site.Storage.SizeKWh,
			PowerCapacityKW:   site.Storage.SizeKW,
		},
	}
	out.CriticalLoadKW = load
	out.GenerationKW = site.PV.ProductionSeriesKW
	out.SOCFraction = site.Storage.SOCSeriesPct
	return out, nil
}

func seriesOrZeros(name string, s []float64, n int) ([]float64, error) {
	switch len(s) {
	case 0:
		return make([]float64, n), nil
	case n:
		return s, nil
	default:
		return nil, fmt.Errorf("%s has %d samples, want %d", name, len(s), n)
	}
}
