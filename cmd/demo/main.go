package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"outage-resilience/internal/config"
	"outage-resilience/internal/model"
	"outage-resilience/internal/report"
	"outage-resilience/internal/resilience"
)

// Demo:
// - Synthesise a year of home load, rooftop PV and battery state of charge
// - Run the resilience engine with a Powerwall-sized battery (or --config)
// - Print the summary and a few curve points to show how the pieces fit together
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	var (
		cfgPath string
		pvKW    float64
		outDir  string
	)

	cmd := &cobra.Command{
		Use:          "demo",
		Short:        "Run the resilience engine on a synthetic year",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Defaults (can be overridden via --config).
			battery := model.BatteryParams{
				EnergyCapacityKWh:   13.5,
				PowerCapacityKW:     5,
				RoundTripEfficiency: model.DefaultRoundTripEfficiency,
			}
			if cfgPath != "" {
				cfg, err := config.Load(cfgPath)
				if err != nil {
					return err
				}
				battery = cfg.Battery.ToModelParams()
			}

			series := syntheticYear(pvKW)
			res, err := resilience.New(0).Compute(battery, series)
			if err != nil {
				return err
			}

			fmt.Printf("Synthetic year: %d hours, PV peak %.1f kW\n", series.Len(), pvKW)
			fmt.Printf("Battery: %.1f kWh / %.1f kW, efficiency %.3f\n\n",
				battery.EnergyCapacityKWh, battery.PowerCapacityKW, battery.RoundTripEfficiency)
			fmt.Printf("Survival hours: min=%d max=%d avg=%.2f\n\n", res.MinHours, res.MaxHours, res.AvgHours)

			for _, d := range []int{4, 8, 12, 24, 48, 72} {
				if d > len(res.SurvivalProbability) {
					break
				}
				fmt.Printf("P(survive >= %3dh) = %.4f   Jan=%.4f  Jul=%.4f  18:00=%.4f\n",
					d,
					res.SurvivalProbability[d-1],
					res.ByMonth.Row(0)[d-1],
					res.ByMonth.Row(6)[d-1],
					res.ByHourOfDay.Row(18)[d-1],
				)
			}

			if outDir != "" {
				if err := report.WriteSurvivalCSV(filepath.Join(outDir, "survival.csv"), res); err != nil {
					return err
				}
				if err := report.WriteCurvesCSV(filepath.Join(outDir, "curves.csv"), res); err != nil {
					return err
				}
				fmt.Printf("\nWrote CSVs to %s\n", outDir)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "Path to YAML config (optional)")
	cmd.Flags().Float64Var(&pvKW, "pv-kw", 6, "Peak PV output of the synthetic array")
	cmd.Flags().StringVar(&outDir, "out", "", "Optional directory for survival.csv and curves.csv")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// syntheticYear builds hourly series with seasonal PV, a morning and evening load
// peak, and a SOC profile that fills through the day under normal operation.
func syntheticYear(pvKW float64) model.SiteSeries {
	s := model.SiteSeries{
		GenerationKW:   make([]float64, model.HoursPerYear),
		CriticalLoadKW: make([]float64, model.HoursPerYear),
		SOCFraction:    make([]float64, model.HoursPerYear),
	}
	for t := 0; t < model.HoursPerYear; t++ {
		h := t % 24
		day := float64(t / 24)
		// Longer, stronger days around the June solstice.
		season := 0.5 - 0.5*math.Cos(2*math.Pi*(day+10)/365)
		sunrise, sunset := 7-1.5*season, 17+2.5*season
		if fh := float64(h); fh > sunrise && fh < sunset {
			s.GenerationKW[t] = pvKW * (0.6 + 0.4*season) * math.Sin(math.Pi*(fh-sunrise)/(sunset-sunrise))
		}

		s.CriticalLoadKW[t] = 0.5 +
			0.6*math.Exp(-math.Pow(float64(h-7), 2)/3) +
			1.2*math.Exp(-math.Pow(float64(h-19), 2)/5) +
			0.4*(1-season)

		switch {
		case h < 9:
			s.SOCFraction[t] = 0.2
		case h < 16:
			s.SOCFraction[t] = 0.2 + 0.8*float64(h-8)/7
		default:
			s.SOCFraction[t] = math.Max(0.2, 1-0.1*float64(h-15))
		}
	}
	return s
}
