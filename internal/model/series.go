package model

import (
	"errors"
	"fmt"
)

// HoursPerYear is the conventional series length: one non-leap year of hourly samples.
const HoursPerYear = 8760

// SiteSeries holds the hourly inputs of a resilience run. All series share one length N.
//
// GenerationKW may be empty, meaning no on-site generation. SOCFraction is the battery
// state of charge under normal grid-connected operation and only seeds each outage start.
type SiteSeries struct {
	GenerationKW   []float64 `json:"generation_kw,omitempty" yaml:"generation_kw"`
	CriticalLoadKW []float64 `json:"critical_load_kw" yaml:"critical_load_kw"`
	SOCFraction    []float64 `json:"soc_fraction,omitempty" yaml:"soc_fraction"`
}

// Len is the number of hours in the series (the critical load defines it).
func (s SiteSeries) Len() int {
	return len(s.CriticalLoadKW)
}

// Validate checks the series shape. SOCFraction may only be omitted when the
// battery has no storage, in which case every start hour begins empty.
func (s SiteSeries) Validate(hasStorage bool) error {
	n := s.Len()
	if n == 0 {
		return errors.New("critical_load_kw must not be empty")
	}
	if len(s.GenerationKW) != 0 && len(s.GenerationKW) != n {
		return fmt.Errorf("generation_kw has %d samples, want %d", len(s.GenerationKW), n)
	}
	switch {
	case len(s.SOCFraction) == n:
	case len(s.SOCFraction) == 0 && !hasStorage:
	default:
		return fmt.Errorf("soc_fraction has %d samples, want %d", len(s.SOCFraction), n)
	}
	return nil
}

// TotalGeneration sums the generation series; zero when it is absent.
func (s SiteSeries) TotalGeneration() float64 {
	total := 0.0
	for _, g := range s.GenerationKW {
		total += g
	}
	return total
}

// NetUncoveredLoad returns critical load minus generation for every hour.
// Negative values are surplus generation available to charge the battery.
func (s SiteSeries) NetUncoveredLoad() []float64 {
	out := make([]float64, s.Len())
	for t, load := range s.CriticalLoadKW {
		out[t] = load
		if len(s.GenerationKW) > 0 {
			out[t] -= s.GenerationKW[t]
		}
	}
	return out
}

// SOCAt is the seed state of charge for start hour t (zero when SOCFraction is absent).
func (s SiteSeries) SOCAt(t int) float64 {
	if len(s.SOCFraction) == 0 {
		return 0
	}
	return s.SOCFraction[t]
}
