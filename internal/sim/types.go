package sim

import (
	"math"

	"github.com/san-kum/gyropulse/internal/input"
	"github.com/san-kum/gyropulse/internal/ringfield"
)

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(f *ringfield.Field, tick ringfield.Tick, t float64)
	Value() float64
	Reset()
}

// Observer is called after every step.
type Observer interface {
	OnStep(f *ringfield.Field, tick ringfield.Tick, t float64)
}

type ObserverFunc func(f *ringfield.Field, tick ringfield.Tick, t float64)

func (fn ObserverFunc) OnStep(f *ringfield.Field, tick ringfield.Tick, t float64) { fn(f, tick, t) }

type Config struct {
	Dt       float64
	Duration float64
	// RecordEvery keeps one sample per N steps; 0 or 1 records every step.
	RecordEvery int
}

// TimedEvent is an input event scheduled at a point in run time.
type TimedEvent struct {
	At    float64
	Event input.Event
}

type Result struct {
	Times         []float64
	Phases        [][]float64 // one row per sample, one column per ring at that time
	Pulses        []float64
	MeasurePulses []float64
	BPM           []float64
	BeatTimes     []float64
	DownbeatTimes []float64
	Applied       []TimedEvent
	Metrics       map[string]float64
	StepsTaken    int
}

// Trace returns the phase history of one ring, with NaN where it did not
// exist.
func (r *Result) Trace(ring int) []float64 {
	out := make([]float64, len(r.Phases))
	for i, row := range r.Phases {
		if ring < len(row) {
			out[i] = row[ring]
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// SampleRate is the number of recorded samples per second.
func (r *Result) SampleRate() float64 {
	if len(r.Times) < 2 {
		return 0
	}
	return float64(len(r.Times)-1) / (r.Times[len(r.Times)-1] - r.Times[0])
}
