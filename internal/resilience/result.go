package resilience

import "github.com/shopspring/decimal"

// Result is the aggregate outcome of simulating an outage at every hour of the series.
// JSON names follow the field names downstream reporting already reads.
type Result struct {
	// SurvivalHours[t0] is how long the site rides through an outage starting at hour t0.
	SurvivalHours []int `json:"resilience_by_timestep"`

	MinHours int     `json:"resilience_hours_min"`
	MaxHours int     `json:"resilience_hours_max"`
	AvgHours float64 `json:"resilience_hours_avg"`

	// DurationThresholds is 1..MaxHours; SurvivalProbability[i] is the share of start
	// hours surviving at least DurationThresholds[i] hours.
	DurationThresholds  []int     `json:"outage_durations"`
	SurvivalProbability []float64 `json:"probs_of_surviving"`

	ByMonth     Curves `json:"probs_of_surviving_by_month"`
	ByHourOfDay Curves `json:"probs_of_surviving_by_hour_of_the_day"`

	// Degenerate is set when the site has neither storage nor generation and
	// simulation was skipped.
	Degenerate bool `json:"degenerate,omitempty"`
}

// Len is the number of start hours covered by the result.
func (r *Result) Len() int {
	return len(r.SurvivalHours)
}

func degenerateResult(n int) *Result {
	zeroCurve := func(groups int) Curves {
		return newCurves(groups, 1)
	}
	return &Result{
		SurvivalHours:       make([]int, n),
		DurationThresholds:  []int{},
		SurvivalProbability: []float64{},
		ByMonth:             zeroCurve(monthsPerYear),
		ByHourOfDay:         zeroCurve(hoursPerDay),
		Degenerate:          true,
	}
}

// roundTo rounds the float's binary value with ties to even, so 2.675 (stored just
// below the half) becomes 2.67 and 0.125 becomes 0.12.
func roundTo(x float64, places int32) float64 {
	return decimal.NewFromFloatWithExponent(x, -40).RoundBank(places).InexactFloat64()
}
