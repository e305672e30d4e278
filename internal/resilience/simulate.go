package resilience

import (
	"math"

	"outage-resilience/internal/model"
)

// SimulateOutage replays islanded operation from start hour `start`, wrapping around the
// end of the series, and returns how many consecutive hours the critical load was fully
// served. The result is in [0, N] where N = len(netLoadKW); N means the site rode through
// the whole period.
//
// netLoadKW is critical load minus generation. The battery starts with initialEnergyKWh.
func SimulateOutage(start int, battery model.BatteryParams, initialEnergyKWh float64, netLoadKW []float64) int {
	n := len(netLoadKW)
	energy := initialEnergyKWh
	chargeLimit := battery.ChargeLimitKWh()

	for i := 0; i < n; i++ {
		t := (start + i) % n
		var unmet float64
		energy, unmet = dispatchHour(battery, chargeLimit, energy, netLoadKW[t])
		if unserved(unmet) {
			return i
		}
	}
	return n
}

// dispatchHour applies one hour of islanded operation and returns the new stored energy
// and the load left unmet. Surplus (negative load) charges the battery, limited by headroom,
// inverter power and the surplus itself; losses are taken on the charging side only.
// A deficit is covered only if the battery can carry all of it this hour.
func dispatchHour(battery model.BatteryParams, chargeLimitKWh, energyKWh, loadKW float64) (float64, float64) {
	if loadKW < 0 {
		if energyKWh < battery.EnergyCapacityKWh {
			energyKWh += math.Min(
				battery.EnergyCapacityKWh-energyKWh,
				math.Min(chargeLimitKWh, -loadKW*battery.RoundTripEfficiency),
			)
		}
		return energyKWh, loadKW
	}
	if math.Min(battery.PowerCapacityKW, energyKWh) >= loadKW {
		return math.Max(0, energyKWh-loadKW), 0
	}
	return energyKWh, loadKW
}

// unserved reports whether an unmet load survives rounding to 5 decimal places.
func unserved(unmetKW float64) bool {
	return math.Round(unmetKW*1e5) > 0
}
