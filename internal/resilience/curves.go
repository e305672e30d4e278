package resilience

import (
	"encoding/json"
	"fmt"
)

// Curves is a rectangular set of survival-probability curves, one row per group
// (month or hour-of-day). Values is row-major with Groups*Width entries; curves shorter
// than Width are right-padded with zeros.
type Curves struct {
	Groups int
	Width  int
	Values []float64
}

func newCurves(groups, width int) Curves {
	return Curves{
		Groups: groups,
		Width:  width,
		Values: make([]float64, groups*width),
	}
}

// Row returns group g's padded curve. Index d-1 holds the probability of surviving d hours.
func (c Curves) Row(g int) []float64 {
	return c.Values[g*c.Width : (g+1)*c.Width]
}

// Rows copies the matrix into a slice of rows, the shape tabular consumers expect.
func (c Curves) Rows() [][]float64 {
	out := make([][]float64, c.Groups)
	for g := range out {
		out[g] = append([]float64(nil), c.Row(g)...)
	}
	return out
}

func (c Curves) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Rows())
}

func (c *Curves) UnmarshalJSON(raw []byte) error {
	var rows [][]float64
	if err := json.Unmarshal(raw, &rows); err != nil {
		return err
	}
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	out := newCurves(len(rows), width)
	for g, row := range rows {
		if len(row) != width {
			return fmt.Errorf("curve row %d has %d entries, want %d", g, len(row), width)
		}
		copy(out.Row(g), row)
	}
	*c = out
	return nil
}
