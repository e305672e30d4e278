package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"outage-resilience/internal/config"
	"outage-resilience/internal/data"
	"outage-resilience/internal/model"
)

type inputFlags struct {
	configPath    string
	dataPath      string
	optimizerPath string
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "cli",
		Short: "Outage resilience for a battery + PV site",
		Long: `Simulates a grid outage starting at every hour of a site's year and reports how long
the critical load can be served, plus survival-probability curves by month and hour of day.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := zerolog.ParseLevel(strings.ToLower(logLevel))
			if err != nil {
				return fmt.Errorf("invalid --log-level %q", logLevel)
			}
			zerolog.SetGlobalLevel(lvl)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newTraceCmd())
	return root
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to YAML config (battery, simulation, storage)")
	cmd.Flags().StringVar(&f.dataPath, "data", "", "Site series file (.json or .csv)")
	cmd.Flags().StringVar(&f.optimizerPath, "optimizer", "", "Optimizer results JSON to derive the site from")
	cmd.MarkFlagsMutuallyExclusive("data", "optimizer")
	cmd.MarkFlagsOneRequired("data", "optimizer")
}

// load resolves the config, the site and the battery. A battery in a site file
// overrides the config's battery field by field; an optimizer results file replaces
// both sizes and only the efficiency comes from the config.
func (f *inputFlags) load() (*config.Config, *data.Site, model.BatteryParams, error) {
	cfg := &config.Config{}
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, nil, model.BatteryParams{}, err
		}
		cfg = loaded
	} else {
		cfg.ApplyDefaults()
	}

	site, err := loadSite(f.dataPath, f.optimizerPath)
	if err != nil {
		return nil, nil, model.BatteryParams{}, err
	}

	battery := config.MergeBattery(cfg.Battery, site.BatteryOverride())
	if f.optimizerPath != "" {
		// The optimizer's sizing is authoritative, including a zero (no battery) result.
		sized := site.BatteryOverride()
		battery.EnergyCapacityKWh = sized.EnergyCapacityKWh
		battery.PowerCapacityKW = sized.PowerCapacityKW
	}
	params := battery.ToModelParams()
	if err := params.Validate(); err != nil {
		return nil, nil, model.BatteryParams{}, fmt.Errorf("battery invalid: %w", err)
	}
	if site.Name == "" {
		site.Name = battery.Name
	}
	return cfg, site, params, nil
}

func loadSite(dataPath, optimizerPath string) (*data.Site, error) {
	if optimizerPath != "" {
		return data.LoadOptimizationResults(optimizerPath)
	}
	switch strings.ToLower(filepath.Ext(dataPath)) {
	case ".json":
		return data.LoadSiteJSON(dataPath)
	case ".csv":
		return data.LoadSiteCSV(dataPath)
	case "":
		return nil, errors.New("--data or --optimizer is required")
	default:
		return nil, fmt.Errorf("unsupported data file %s (want .json or .csv)", dataPath)
	}
}
