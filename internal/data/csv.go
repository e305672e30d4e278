package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	colGeneration   = "generation_kw"
	colCriticalLoad = "critical_load_kw"
	colSOC          = "soc_fraction"
)

// LoadSiteCSV reads hourly series from a CSV with a header row. Columns are matched by
// name: critical_load_kw is required, generation_kw and soc_fraction are optional.
// Other columns (timestamps, indices) are ignored.
func LoadSiteCSV(path string) (*Site, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	site, err := ReadSiteCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return site, nil
}

func ReadSiteCSV(r io.Reader) (*Site, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols[colCriticalLoad]; !ok {
		return nil, fmt.Errorf("missing %q column", colCriticalLoad)
	}

	site := &Site{}
	targets := map[string]*[]float64{
		colGeneration:   &site.GenerationKW,
		colCriticalLoad: &site.CriticalLoadKW,
		colSOC:          &site.SOCFraction,
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		for name, dst := range targets {
			idx, ok := cols[name]
			if !ok {
				continue
			}
			if idx >= len(rec) {
				return nil, fmt.Errorf("line %d: missing %s", line, name)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, name, err)
			}
			*dst = append(*dst, v)
		}
	}
	return site, nil
}
