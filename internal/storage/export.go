package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/gyropulse/internal/sim"
)

type ExportData struct {
	Run           RunMetadata        `json:"run"`
	Times         []float64          `json:"times"`
	Phases        [][]float64        `json:"phases"`
	Pulses        []float64          `json:"pulses"`
	MeasurePulses []float64          `json:"measure_pulses"`
	BPM           []float64          `json:"bpm"`
	Metrics       map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run and its samples as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	data := ExportData{
		Run:           meta,
		Times:         result.Times,
		Phases:        result.Phases,
		Pulses:        result.Pulses,
		MeasurePulses: result.MeasurePulses,
		BPM:           result.BPM,
		Metrics:       result.Metrics,
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
