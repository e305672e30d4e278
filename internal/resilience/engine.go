package resilience

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"outage-resilience/internal/model"
)

// ErrInvalidInput marks input-shape errors. Nothing is computed when it is returned.
var ErrInvalidInput = errors.New("invalid resilience input")

// minChunk keeps tiny series from being split into more goroutines than start hours.
const minChunk = 64

type Engine struct {
	// Workers bounds the number of goroutines simulating start hours.
	// Zero means GOMAXPROCS.
	Workers int
}

func New(workers int) *Engine { return &Engine{Workers: workers} }

// Compute simulates an outage starting at every hour of the series and summarises
// the outcomes. Output depends only on the inputs, never on the worker count.
func (e *Engine) Compute(battery model.BatteryParams, series model.SiteSeries) (*Result, error) {
	if err := battery.Validate(); err != nil {
		return nil, fmt.Errorf("%w: battery: %v", ErrInvalidInput, err)
	}
	if err := series.Validate(battery.HasStorage()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	n := series.Len()

	if !battery.HasStorage() && series.TotalGeneration() == 0 {
		log.Debug().Int("hours", n).Msg("no storage or generation, skipping outage simulation")
		return degenerateResult(n), nil
	}

	started := time.Now()
	netLoad := series.NetUncoveredLoad()
	hours := make([]int, n)
	e.simulateAll(battery, series, netLoad, hours)

	res := Summarize(hours)
	log.Debug().
		Int("hours", n).
		Int("workers", e.workers(n)).
		Float64("avg_hours", res.AvgHours).
		Dur("elapsed", time.Since(started)).
		Msg("outage simulation complete")
	return res, nil
}

// simulateAll fills hours[t0] for every start hour. Each goroutine owns a disjoint
// range of hours; netLoad is shared read-only.
func (e *Engine) simulateAll(battery model.BatteryParams, series model.SiteSeries, netLoad []float64, hours []int) {
	n := len(hours)
	workers := e.workers(n)
	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			for t0 := lo; t0 < hi; t0++ {
				initial := battery.InitialEnergyKWh(series.SOCAt(t0))
				hours[t0] = SimulateOutage(t0, battery, initial, netLoad)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Engine) workers(n int) int {
	w := e.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if maxW := (n + minChunk - 1) / minChunk; w > maxW {
		w = maxW
	}
	if w < 1 {
		w = 1
	}
	return w
}
