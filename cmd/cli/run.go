package main

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"outage-resilience/internal/report"
	"outage-resilience/internal/resilience"
	"outage-resilience/internal/store"
)

func newRunCmd() *cobra.Command {
	var (
		in      inputFlags
		outDir  string
		workers int
		save    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate an outage at every hour and write survival reports",
		Example: `  cli run --config examples/config.yaml --data site.csv --out results
  cli run --config examples/config.yaml --optimizer results.json --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, site, battery, err := in.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Simulation.Workers = workers
			}

			res, err := resilience.New(cfg.Simulation.Workers).Compute(battery, site.SiteSeries)
			if err != nil {
				return err
			}

			survivalPath := filepath.Join(outDir, "survival.csv")
			if err := report.WriteSurvivalCSV(survivalPath, res); err != nil {
				return err
			}
			curvesPath := filepath.Join(outDir, "curves.csv")
			if err := report.WriteCurvesCSV(curvesPath, res); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Site=%q battery=%.2f kWh / %.2f kW eff=%.3f\n",
				site.Name, battery.EnergyCapacityKWh, battery.PowerCapacityKW, battery.RoundTripEfficiency)
			if res.Degenerate {
				fmt.Fprintln(out, "No storage or generation: every outage fails immediately")
			}
			fmt.Fprintf(out, "Start hours=%d  min=%dh  max=%dh  avg=%.2fh\n",
				res.Len(), res.MinHours, res.MaxHours, res.AvgHours)
			fmt.Fprintf(out, "Wrote %s and %s\n", survivalPath, curvesPath)

			if !save {
				return nil
			}
			if cfg.Storage.Path == "" {
				return fmt.Errorf("--save needs storage.path in the config")
			}
			repo, err := store.New(cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer repo.Close()

			run, err := store.NewStoredRun(uuid.NewString(), site.Name, battery, res)
			if err != nil {
				return err
			}
			if err := repo.SaveRun(run); err != nil {
				return fmt.Errorf("save run: %w", err)
			}
			log.Info().Str("run_id", run.ID).Str("db", cfg.Storage.Path).Msg("run saved")
			fmt.Fprintf(out, "Run ID=%s\n", run.ID)
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&outDir, "out", "results", "Directory for survival.csv and curves.csv")
	cmd.Flags().IntVar(&workers, "workers", 0, "Override simulation.workers (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the run to storage.path")
	return cmd
}
