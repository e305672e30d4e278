package resilience

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outage-resilience/internal/model"
)

var smallBattery = model.BatteryParams{
	EnergyCapacityKWh:   4,
	PowerCapacityKW:     3,
	RoundTripEfficiency: 0.5,
}

func TestSimulateOutage_PowerLimitedFirstHourFails(t *testing.T) {
	b := model.BatteryParams{EnergyCapacityKWh: 100, PowerCapacityKW: 5, RoundTripEfficiency: 0.9}
	net := []float64{10, 10, 10, 10}

	for start := range net {
		assert.Equal(t, 0, SimulateOutage(start, b, 100, net), "start %d", start)
	}
}

func TestSimulateOutage_FullCoverage(t *testing.T) {
	b := model.BatteryParams{EnergyCapacityKWh: 100, PowerCapacityKW: 20, RoundTripEfficiency: 0.9}
	net := []float64{10, 10, 10, 10}

	for start := range net {
		assert.Equal(t, 4, SimulateOutage(start, b, 100, net), "start %d", start)
	}
}

func TestSimulateOutage_ChargesFromSurplusWithLosses(t *testing.T) {
	net := []float64{-10, 1, 1}

	// Hour 0 stores min(4, 3*0.5, 10*0.5) = 1.5 kWh, hour 1 draws 1, hour 2 needs 1 but only 0.5 is left.
	assert.Equal(t, 2, SimulateOutage(0, smallBattery, 0, net))
	assert.Equal(t, 0, SimulateOutage(1, smallBattery, 0, net))
}

func TestSimulateOutage_WrapsAroundEndOfSeries(t *testing.T) {
	net := []float64{-10, 1, 1}

	// Start at hour 2 with 1 kWh: hour 2 empties it, hour 0 recharges 1.5, hour 1 draws 1.
	assert.Equal(t, 3, SimulateOutage(2, smallBattery, 1, net))
}

func TestSimulateOutage_ChargeCappedByHeadroom(t *testing.T) {
	net := []float64{-100, 2.9, 1.2}

	// Starting at 3.5 kWh only 0.5 kWh of headroom remains; 4 - 2.9 leaves 1.1, too little for 1.2.
	assert.Equal(t, 2, SimulateOutage(0, smallBattery, 3.5, net))
}

func TestSimulateOutage_SurplusEveryHourNeverFails(t *testing.T) {
	net := []float64{-1, 0, -3, -0.5}

	for start := range net {
		assert.Equal(t, len(net), SimulateOutage(start, model.BatteryParams{RoundTripEfficiency: 1}, 0, net))
	}
}

func TestSimulateOutage_IgnoresRoundingNoise(t *testing.T) {
	b := model.BatteryParams{EnergyCapacityKWh: 10, PowerCapacityKW: 10, RoundTripEfficiency: 1}
	net := []float64{0.000001, 0.000001}

	// The deficit is below the battery's reach (empty), but rounds to zero.
	assert.Equal(t, 2, SimulateOutage(0, b, 0, net))
}

func TestDispatchHour(t *testing.T) {
	b := smallBattery
	limit := b.ChargeLimitKWh()

	energy, unmet := dispatchHour(b, limit, 1, -1)
	assert.InDelta(t, 1.5, energy, 1e-9)
	assert.InDelta(t, -1, unmet, 1e-9)

	energy, unmet = dispatchHour(b, limit, 2, 1.5)
	assert.InDelta(t, 0.5, energy, 1e-9)
	assert.Zero(t, unmet)

	// Power-limited: 3 kW inverter cannot carry 3.5 kW even with a full battery.
	energy, unmet = dispatchHour(b, limit, 4, 3.5)
	assert.InDelta(t, 4, energy, 1e-9)
	assert.InDelta(t, 3.5, unmet, 1e-9)

	// Over-full start (SOC above 1) is not charged further.
	energy, _ = dispatchHour(b, limit, 5, -2)
	assert.InDelta(t, 5, energy, 1e-9)
}

func TestTraceOutage_MatchesSimulation(t *testing.T) {
	net := []float64{-10, 1, 1, 2, -4, 0.5}

	for start := range net {
		for _, initial := range []float64{0, 1, 4} {
			survived := SimulateOutage(start, smallBattery, initial, net)
			rows, err := TraceOutage(start, smallBattery, initial, net)
			require.NoError(t, err)

			if survived == len(net) {
				assert.Len(t, rows, len(net))
				assert.NotEqual(t, model.ActionUnserved, rows[len(rows)-1].Action)
			} else {
				assert.Len(t, rows, survived+1)
				assert.Equal(t, model.ActionUnserved, rows[len(rows)-1].Action)
			}
		}
	}
}

func TestTraceOutage_Rows(t *testing.T) {
	rows, err := TraceOutage(0, smallBattery, 0, []float64{-10, 1, 1})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, model.ActionCharging, rows[0].Action)
	assert.InDelta(t, 1.5, rows[0].ChargedKWh, 1e-9)

	assert.Equal(t, model.ActionDischarging, rows[1].Action)
	assert.InDelta(t, 1, rows[1].DischargedKWh, 1e-9)
	assert.InDelta(t, 0.5, rows[1].EnergyEndKWh, 1e-9)

	assert.Equal(t, model.ActionUnserved, rows[2].Action)
	assert.InDelta(t, 1, rows[2].UnmetKW, 1e-9)
	assert.Equal(t, 2, rows[2].Index)
}

func TestTraceOutage_RejectsBadStart(t *testing.T) {
	_, err := TraceOutage(3, smallBattery, 0, []float64{1, 1, 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = TraceOutage(0, smallBattery, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
