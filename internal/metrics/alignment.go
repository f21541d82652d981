package metrics

import (
	"math"

	"github.com/san-kum/gyropulse/internal/geom"
	"github.com/san-kum/gyropulse/internal/ringfield"
)

// Alignment measures how far the rings are from their shared starting
// configuration at each measure boundary. For a beat-locked field at speed 1
// it should stay at floating-point noise.
type Alignment struct {
	name     string
	maxError float64
	checks   int
}

func NewAlignment() *Alignment {
	return &Alignment{name: "alignment_error"}
}

func (a *Alignment) Name() string { return a.name }

func (a *Alignment) Observe(f *ringfield.Field, tick ringfield.Tick, t float64) {
	if tick.Downbeats == 0 || f.Mode() != ringfield.ModeBeat {
		return
	}
	// rewind each ring to the instant the boundary was crossed
	back := f.RingOmega() * f.Controls().SpeedScale * f.SinceDownbeat()
	for _, r := range f.Rings() {
		at := r.Phase - float64(r.Multiplier)*back
		a.maxError = math.Max(a.maxError, geom.AngleDist(at, 0))
	}
	a.checks++
}

func (a *Alignment) Value() float64 { return a.maxError }

// Checks is the number of measure boundaries inspected.
func (a *Alignment) Checks() int { return a.checks }

func (a *Alignment) Reset() {
	a.maxError = 0
	a.checks = 0
}

// AxisDrift tracks the worst deviation of any ring axis from unit length.
type AxisDrift struct {
	name  string
	worst float64
}

func NewAxisDrift() *AxisDrift {
	return &AxisDrift{name: "axis_drift"}
}

func (d *AxisDrift) Name() string { return d.name }

func (d *AxisDrift) Observe(f *ringfield.Field, tick ringfield.Tick, t float64) {
	for _, r := range f.Rings() {
		d.worst = math.Max(d.worst, math.Abs(r.Axis.Length()-1))
	}
}

func (d *AxisDrift) Value() float64 { return d.worst }
func (d *AxisDrift) Reset()         { d.worst = 0 }
