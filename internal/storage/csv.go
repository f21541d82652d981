package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/gyropulse/internal/sim"
)

var fixedColumns = []string{"time", "pulse", "measure_pulse", "bpm"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteCSV writes one row per sample. Rings that did not exist at a sample
// leave their cells empty.
func WriteCSV(w io.Writer, result *sim.Result) error {
	cw := csv.NewWriter(w)

	rings := 0
	for _, row := range result.Phases {
		rings = max(rings, len(row))
	}
	header := append([]string(nil), fixedColumns...)
	for i := 0; i < rings; i++ {
		header = append(header, fmt.Sprintf("ring%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, t := range result.Times {
		row := []string{formatFloat(t), cell(result.Pulses, i), cell(result.MeasurePulses, i), cell(result.BPM, i)}
		for j := 0; j < rings; j++ {
			if i < len(result.Phases) && j < len(result.Phases[i]) {
				row = append(row, formatFloat(result.Phases[i][j]))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cell(vals []float64, i int) string {
	if i < len(vals) {
		return formatFloat(vals[i])
	}
	return "0"
}

// ReadCSV parses the format written by WriteCSV.
func ReadCSV(r io.Reader) (*sim.Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	res := &sim.Result{}
	if len(records) < 2 {
		return res, nil
	}
	if len(records[0]) < len(fixedColumns) {
		return nil, fmt.Errorf("phases csv: header has %d columns", len(records[0]))
	}

	for n, record := range records[1:] {
		if len(record) < len(fixedColumns) {
			continue
		}
		vals := make([]float64, len(fixedColumns))
		for j := range fixedColumns {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("phases csv row %d: %w", n+2, err)
			}
			vals[j] = v
		}
		res.Times = append(res.Times, vals[0])
		res.Pulses = append(res.Pulses, vals[1])
		res.MeasurePulses = append(res.MeasurePulses, vals[2])
		res.BPM = append(res.BPM, vals[3])

		phases := make([]float64, 0, len(record)-len(fixedColumns))
		for _, c := range record[len(fixedColumns):] {
			if c == "" {
				break
			}
			v, err := strconv.ParseFloat(c, 64)
			if err != nil {
				return nil, fmt.Errorf("phases csv row %d: %w", n+2, err)
			}
			phases = append(phases, v)
		}
		res.Phases = append(res.Phases, phases)
	}
	return res, nil
}
