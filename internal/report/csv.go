package report

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"outage-resilience/internal/resilience"
)

// WriteSurvivalCSV writes one row per outage start hour.
func WriteSurvivalCSV(path string, res *resilience.Result) error {
	return writeFile(path, func(w io.Writer) error { return SurvivalCSV(w, res) })
}

func SurvivalCSV(out io.Writer, res *resilience.Result) error {
	w := csv.NewWriter(out)

	header := []string{
		"index",
		"timestamp",
		"month",
		"hour_of_day",
		"survival_hours",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for t, h := range res.SurvivalHours {
		row := []string{
			strconv.Itoa(t),
			fmtTime(resilience.TimestampOfIndex(t)),
			strconv.Itoa(resilience.MonthOfIndex(t)),
			strconv.Itoa(resilience.HourOfDay(t)),
			strconv.Itoa(h),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteCurvesCSV writes every survival-probability curve in long format:
// dimension (overall, month, hour_of_day), group, duration_hours, probability.
// Padding entries are written too, so each dimension stays rectangular.
func WriteCurvesCSV(path string, res *resilience.Result) error {
	return writeFile(path, func(w io.Writer) error { return CurvesCSV(w, res) })
}

func CurvesCSV(out io.Writer, res *resilience.Result) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"dimension", "group", "duration_hours", "probability"}); err != nil {
		return err
	}

	for i, p := range res.SurvivalProbability {
		if err := w.Write([]string{"overall", "all", strconv.Itoa(res.DurationThresholds[i]), fmtProb(p)}); err != nil {
			return err
		}
	}
	dims := []struct {
		name   string
		curves resilience.Curves
		first  int
	}{
		{"month", res.ByMonth, 1},
		{"hour_of_day", res.ByHourOfDay, 0},
	}
	for _, dim := range dims {
		for g := 0; g < dim.curves.Groups; g++ {
			for d, p := range dim.curves.Row(g) {
				row := []string{dim.name, strconv.Itoa(g + dim.first), strconv.Itoa(d + 1), fmtProb(p)}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
	}

	w.Flush()
	return w.Error()
}

// WriteTraceCSV writes an hour-by-hour replay of one outage.
func WriteTraceCSV(path string, rows []resilience.TraceRow) error {
	return writeFile(path, func(w io.Writer) error { return TraceCSV(w, rows) })
}

func TraceCSV(out io.Writer, rows []resilience.TraceRow) error {
	w := csv.NewWriter(out)

	header := []string{
		"step",
		"index",
		"timestamp",
		"net_load_kw",
		"action",
		"energy_start_kwh",
		"energy_end_kwh",
		"charged_kwh",
		"discharged_kwh",
		"unmet_kw",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{
			strconv.Itoa(r.Step),
			strconv.Itoa(r.Index),
			fmtTime(r.Timestamp),
			fmtFloat(r.NetLoadKW),
			string(r.Action),
			fmtFloat(r.EnergyStartKWh),
			fmtFloat(r.EnergyEndKWh),
			fmtFloat(r.ChargedKWh),
			fmtFloat(r.DischargedKWh),
			fmtFloat(r.UnmetKW),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// writeFile creates path (and its directory) and streams fn's output into it.
func writeFile(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func fmtProb(x float64) string {
	return strconv.FormatFloat(x, 'f', 4, 64)
}
