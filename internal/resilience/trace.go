package resilience

import (
	"fmt"
	"time"

	"outage-resilience/internal/model"
)

// TraceRow is one hour of a replayed outage.
// This is the artifact for "what happened" when a single start hour is inspected.
type TraceRow struct {
	Step  int // hours since the outage began
	Index int // position in the input series

	Timestamp time.Time
	NetLoadKW float64

	Action model.Action

	EnergyStartKWh float64
	EnergyEndKWh   float64
	ChargedKWh     float64
	DischargedKWh  float64

	UnmetKW float64
}

// TraceOutage replays the same dispatch as SimulateOutage, recording every hour up to and
// including the first unserved one. When the outage fails, len(rows)-1 equals the
// SimulateOutage result; when it never fails, len(rows) equals N.
func TraceOutage(start int, battery model.BatteryParams, initialEnergyKWh float64, netLoadKW []float64) ([]TraceRow, error) {
	n := len(netLoadKW)
	if n == 0 {
		return nil, fmt.Errorf("%w: net load series is empty", ErrInvalidInput)
	}
	if start < 0 || start >= n {
		return nil, fmt.Errorf("%w: start hour %d outside [0, %d)", ErrInvalidInput, start, n)
	}

	rows := make([]TraceRow, 0, 24)
	energy := initialEnergyKWh
	chargeLimit := battery.ChargeLimitKWh()

	for i := 0; i < n; i++ {
		t := (start + i) % n
		before := energy
		var unmet float64
		energy, unmet = dispatchHour(battery, chargeLimit, energy, netLoadKW[t])
		failed := unserved(unmet)

		row := TraceRow{
			Step:           i,
			Index:          t,
			Timestamp:      TimestampOfIndex(t),
			NetLoadKW:      netLoadKW[t],
			Action:         model.ActionFromEnergyDelta(energy-before, failed),
			EnergyStartKWh: before,
			EnergyEndKWh:   energy,
		}
		if energy > before {
			row.ChargedKWh = energy - before
		} else {
			row.DischargedKWh = before - energy
		}
		if failed {
			row.UnmetKW = unmet
		}
		rows = append(rows, row)

		if failed {
			break
		}
	}
	return rows, nil
}
