package resilience

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outage-resilience/internal/model"
)

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// syntheticYear builds a year with a daytime solar bump, an evening load peak and a
// SOC profile that fills during the day.
func syntheticYear() model.SiteSeries {
	s := model.SiteSeries{
		GenerationKW:   make([]float64, model.HoursPerYear),
		CriticalLoadKW: make([]float64, model.HoursPerYear),
		SOCFraction:    make([]float64, model.HoursPerYear),
	}
	for t := 0; t < model.HoursPerYear; t++ {
		h := t % 24
		season := 1 + 0.4*math.Sin(2*math.Pi*float64(t)/model.HoursPerYear)
		if h >= 7 && h <= 18 {
			s.GenerationKW[t] = 4 * season * math.Sin(math.Pi*float64(h-6)/13)
		}
		s.CriticalLoadKW[t] = 0.8 + 0.6*math.Exp(-math.Pow(float64(h-19), 2)/6)
		s.SOCFraction[t] = 0.2 + 0.7*float64(min(h, 16))/16
	}
	return s
}

func TestCompute_SingleHourExample(t *testing.T) {
	b := model.BatteryParams{EnergyCapacityKWh: 100, PowerCapacityKW: 5, RoundTripEfficiency: 0.9}
	s := model.SiteSeries{
		GenerationKW:   []float64{0, 0, 0, 0},
		CriticalLoadKW: []float64{10, 10, 10, 10},
		SOCFraction:    []float64{1, 1, 1, 1},
	}

	res, err := New(1).Compute(b, s)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0}, res.SurvivalHours)
	assert.Zero(t, res.AvgHours)
	assert.Empty(t, res.DurationThresholds)
	assert.False(t, res.Degenerate)
}

func TestCompute_FullCoverageExample(t *testing.T) {
	b := model.BatteryParams{EnergyCapacityKWh: 100, PowerCapacityKW: 20, RoundTripEfficiency: 0.9}
	s := model.SiteSeries{
		GenerationKW:   []float64{0, 0, 0, 0},
		CriticalLoadKW: []float64{10, 10, 10, 10},
		SOCFraction:    []float64{1, 1, 1, 1},
	}

	res, err := New(1).Compute(b, s)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 4, 4}, res.SurvivalHours)
	assert.Equal(t, 4, res.MinHours)
	assert.Equal(t, 4, res.MaxHours)
	assert.Equal(t, 4.0, res.AvgHours)
	assert.Equal(t, []int{1, 2, 3, 4}, res.DurationThresholds)
	assert.Equal(t, []float64{1, 1, 1, 1}, res.SurvivalProbability)

	// Every index falls in January; hours-of-day 0..3 hold one start hour each.
	assert.Equal(t, 4, res.ByMonth.Width)
	assert.Equal(t, []float64{1, 1, 1, 1}, res.ByMonth.Row(0))
	assert.Equal(t, []float64{0, 0, 0, 0}, res.ByMonth.Row(5))
	assert.Equal(t, []float64{1, 1, 1, 1}, res.ByHourOfDay.Row(3))
	assert.Equal(t, []float64{0, 0, 0, 0}, res.ByHourOfDay.Row(4))
}

func TestCompute_NoAssetsIsDegenerate(t *testing.T) {
	n := 48
	load := constant(n, 1)
	load[5] = 0

	res, err := New(0).Compute(model.BatteryParams{RoundTripEfficiency: 0.9}, model.SiteSeries{
		GenerationKW:   constant(n, 0),
		CriticalLoadKW: load,
	})
	require.NoError(t, err)

	assert.True(t, res.Degenerate)
	assert.Equal(t, make([]int, n), res.SurvivalHours)
	assert.Zero(t, res.AvgHours)
	assert.Zero(t, res.MaxHours)
	assert.Empty(t, res.DurationThresholds)
	assert.Equal(t, [][]float64{{0}, {0}, {0}, {0}, {0}, {0}, {0}, {0}, {0}, {0}, {0}, {0}}, res.ByMonth.Rows())
	assert.Equal(t, 24, res.ByHourOfDay.Groups)
	assert.Equal(t, 1, res.ByHourOfDay.Width)
}

func TestCompute_GenerationWithoutBatteryIsSimulated(t *testing.T) {
	gen := []float64{5, 5, 0, 0}
	load := []float64{1, 1, 1, 1}

	res, err := New(1).Compute(model.BatteryParams{RoundTripEfficiency: 0.9}, model.SiteSeries{
		GenerationKW:   gen,
		CriticalLoadKW: load,
	})
	require.NoError(t, err)
	assert.False(t, res.Degenerate)
	assert.Equal(t, []int{2, 1, 0, 0}, res.SurvivalHours)
}

func TestCompute_GenerationAlwaysCoversLoad(t *testing.T) {
	n := 100
	for _, b := range []model.BatteryParams{
		{RoundTripEfficiency: 1},
		{EnergyCapacityKWh: 10, PowerCapacityKW: 2, RoundTripEfficiency: 0.829},
	} {
		res, err := New(3).Compute(b, model.SiteSeries{
			GenerationKW:   constant(n, 3),
			CriticalLoadKW: constant(n, 2),
			SOCFraction:    constant(n, 0.5),
		})
		require.NoError(t, err)
		for t0, h := range res.SurvivalHours {
			assert.Equal(t, n, h, "start %d", t0)
		}
	}
}

func TestCompute_EmptyGenerationTreatedAsZero(t *testing.T) {
	b := model.BatteryParams{EnergyCapacityKWh: 3, PowerCapacityKW: 5, RoundTripEfficiency: 0.9}
	s := model.SiteSeries{
		CriticalLoadKW: []float64{1, 1, 1, 1, 1},
		SOCFraction:    []float64{1, 0.4, 0, 0, 0},
	}

	res, err := New(1).Compute(b, s)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 0, 0, 0}, res.SurvivalHours)
	assert.Equal(t, 0.8, res.AvgHours)
}

func TestCompute_InputShapeErrors(t *testing.T) {
	good := model.BatteryParams{EnergyCapacityKWh: 10, PowerCapacityKW: 5, RoundTripEfficiency: 0.9}
	cases := map[string]struct {
		battery model.BatteryParams
		series  model.SiteSeries
	}{
		"empty load": {good, model.SiteSeries{}},
		"generation length": {good, model.SiteSeries{
			GenerationKW: []float64{1}, CriticalLoadKW: []float64{1, 1}, SOCFraction: []float64{1, 1},
		}},
		"soc length": {good, model.SiteSeries{
			CriticalLoadKW: []float64{1, 1}, SOCFraction: []float64{1},
		}},
		"missing soc with storage": {good, model.SiteSeries{
			CriticalLoadKW: []float64{1, 1},
		}},
		"negative power": {model.BatteryParams{EnergyCapacityKWh: 1, PowerCapacityKW: -1, RoundTripEfficiency: 0.9},
			model.SiteSeries{CriticalLoadKW: []float64{1}}},
		"zero efficiency": {model.BatteryParams{EnergyCapacityKWh: 1, PowerCapacityKW: 1},
			model.SiteSeries{CriticalLoadKW: []float64{1}, SOCFraction: []float64{1}}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := New(1).Compute(tc.battery, tc.series)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, res)
		})
	}
}

func TestCompute_YearProperties(t *testing.T) {
	b := model.BatteryParams{EnergyCapacityKWh: 13.5, PowerCapacityKW: 5, RoundTripEfficiency: 0.829}
	s := syntheticYear()

	res, err := New(0).Compute(b, s)
	require.NoError(t, err)
	require.Equal(t, model.HoursPerYear, res.Len())

	for t0, h := range res.SurvivalHours {
		require.GreaterOrEqual(t, h, 0, "start %d", t0)
		require.LessOrEqual(t, h, model.HoursPerYear, "start %d", t0)
	}
	assertNonIncreasing(t, res.SurvivalProbability)
	for g := 0; g < res.ByMonth.Groups; g++ {
		assertNonIncreasing(t, res.ByMonth.Row(g))
	}
	for g := 0; g < res.ByHourOfDay.Groups; g++ {
		assertNonIncreasing(t, res.ByHourOfDay.Row(g))
	}
	assert.Len(t, res.ByMonth.Values, 12*res.ByMonth.Width)
	assert.Len(t, res.ByHourOfDay.Values, 24*res.ByHourOfDay.Width)
	assert.Equal(t, res.MaxHours, max(res.ByMonth.Width, res.ByHourOfDay.Width))
}

func TestCompute_IdempotentAcrossWorkerCounts(t *testing.T) {
	b := model.BatteryParams{EnergyCapacityKWh: 10, PowerCapacityKW: 4, RoundTripEfficiency: 0.9}
	s := syntheticYear()

	first, err := New(1).Compute(b, s)
	require.NoError(t, err)
	for _, workers := range []int{1, 3, 16} {
		again, err := New(workers).Compute(b, s)
		require.NoError(t, err)
		assert.Equal(t, first, again, "workers=%d", workers)
	}
}

func TestCompute_DoesNotMutateInputs(t *testing.T) {
	b := model.BatteryParams{EnergyCapacityKWh: 10, PowerCapacityKW: 4, RoundTripEfficiency: 0.9}
	s := model.SiteSeries{
		GenerationKW:   []float64{0, 3, 0},
		CriticalLoadKW: []float64{1, 1, 1},
		SOCFraction:    []float64{0.5, 0.5, 0.5},
	}

	_, err := New(2).Compute(b, s)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3, 0}, s.GenerationKW)
	assert.Equal(t, []float64{1, 1, 1}, s.CriticalLoadKW)
}

func assertNonIncreasing(t *testing.T, curve []float64) {
	t.Helper()
	for d := 1; d < len(curve); d++ {
		assert.LessOrEqual(t, curve[d], curve[d-1], "d=%d", d+1)
	}
}
