package model

import (
	"errors"
	"math"
)

// DefaultRoundTripEfficiency is used when a config or request leaves the efficiency unset.
const DefaultRoundTripEfficiency = 0.829

// BatteryParams defines the physical parameters of the on-site battery.
// Units:
// - EnergyCapacityKWh: kWh
// - PowerCapacityKW: kW
// - RoundTripEfficiency: (0, 1], applied on the charging path only
type BatteryParams struct {
	EnergyCapacityKWh   float64
	PowerCapacityKW     float64
	RoundTripEfficiency float64
}

func (p BatteryParams) Validate() error {
	if p.EnergyCapacityKWh < 0 || math.IsNaN(p.EnergyCapacityKWh) {
		return errors.New("EnergyCapacityKWh must be >= 0")
	}
	if p.PowerCapacityKW < 0 || math.IsNaN(p.PowerCapacityKW) {
		return errors.New("PowerCapacityKW must be >= 0")
	}
	if !(p.RoundTripEfficiency > 0 && p.RoundTripEfficiency <= 1) {
		return errors.New("RoundTripEfficiency must be in (0, 1]")
	}
	return nil
}

// HasStorage reports whether the battery can both hold and move energy.
func (p BatteryParams) HasStorage() bool {
	return p.EnergyCapacityKWh > 0 && p.PowerCapacityKW > 0
}

// ChargeLimitKWh is the most energy the battery can absorb in one hour, after losses.
func (p BatteryParams) ChargeLimitKWh() float64 {
	return p.PowerCapacityKW * p.RoundTripEfficiency
}

// InitialEnergyKWh converts a state-of-charge fraction into stored energy.
func (p BatteryParams) InitialEnergyKWh(socFraction float64) float64 {
	return socFraction * p.EnergyCapacityKWh
}
