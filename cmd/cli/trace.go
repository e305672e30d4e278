package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"outage-resilience/internal/model"
	"outage-resilience/internal/report"
	"outage-resilience/internal/resilience"
)

func newTraceCmd() *cobra.Command {
	var (
		in      inputFlags
		start   int
		outPath string
	)

	cmd := &cobra.Command{
		Use:     "trace",
		Short:   "Replay the outage starting at one hour and write its hourly dispatch",
		Example: `  cli trace --config examples/config.yaml --data site.json --start 4380 --out results/trace.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, site, battery, err := in.load()
			if err != nil {
				return err
			}
			if err := site.Validate(battery.HasStorage()); err != nil {
				return fmt.Errorf("%w: %v", resilience.ErrInvalidInput, err)
			}

			if start < 0 || start >= site.Len() {
				return fmt.Errorf("--start %d outside [0, %d)", start, site.Len())
			}

			initial := battery.InitialEnergyKWh(site.SOCAt(start))
			rows, err := resilience.TraceOutage(start, battery, initial, site.NetUncoveredLoad())
			if err != nil {
				return err
			}
			if err := report.WriteTraceCSV(outPath, rows); err != nil {
				return err
			}

			last := rows[len(rows)-1]
			out := cmd.OutOrStdout()
			if last.Action == model.ActionUnserved {
				fmt.Fprintf(out, "Outage at hour %d survives %d hours (fails at index %d)\n", start, len(rows)-1, last.Index)
			} else {
				fmt.Fprintf(out, "Outage at hour %d survives the full %d hours\n", start, len(rows))
			}
			fmt.Fprintf(out, "Wrote %d rows to %s\n", len(rows), outPath)
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().IntVar(&start, "start", 0, "Outage start hour (index into the series)")
	cmd.Flags().StringVar(&outPath, "out", "results/trace.csv", "Output CSV path")
	return cmd
}
