package config

import (
	"fmt"
	"math"

	"github.com/san-kum/gyropulse/internal/ringfield"
)

// Validate clamps out-of-range values in place and describes each change.
// An empty result means the scene was already valid.
func (c *Config) Validate() []string {
	var notes []string
	fix := func(name string, v *float64, lo, hi float64) {
		if math.IsNaN(*v) || *v < lo || *v > hi {
			old := *v
			*v = math.Max(lo, math.Min(hi, *v))
			if math.IsNaN(old) {
				*v = lo
			}
			notes = append(notes, fmt.Sprintf("%s %v clamped to %v", name, old, *v))
		}
	}
	fixInt := func(name string, v *int, lo, hi int) {
		if *v < lo || *v > hi {
			old := *v
			*v = max(lo, min(hi, *v))
			notes = append(notes, fmt.Sprintf("%s %d clamped to %d", name, old, *v))
		}
	}

	fixInt("scene.rings", &c.Scene.Rings, 0, ringfield.MaxRings)
	fixInt("scene.segments", &c.Scene.Segments, ringfield.MinSegments, ringfield.MaxSegments)
	fix("scene.outer_radius", &c.Scene.OuterRadius, 0.1, 100)
	fix("scene.thickness", &c.Scene.Thickness, 0, c.Scene.OuterRadius/2)
	fix("tempo.bpm", &c.Tempo.BPM, ringfield.BPMMin, ringfield.BPMMax)
	fixInt("tempo.beats_per_measure", &c.Tempo.BeatsPerMeasure, 1, ringfield.MaxBeatsPerBar)
	fix("motion.rpm", &c.Motion.RPM, ringfield.RPMMin, ringfield.RPMMax)
	fix("motion.precession", &c.Motion.Precession, ringfield.PrecessionMin, ringfield.PrecessionMax)
	fix("motion.speed_scale", &c.Motion.SpeedScale, ringfield.SpeedMin, ringfield.SpeedMax)
	fix("pulse.duration", &c.Pulse.Duration, 0.01, 10)
	fix("camera.distance", &c.Camera.Distance, ringfield.CameraMin, ringfield.CameraMax)
	fix("camera.focal", &c.Camera.Focal, 0.1, 100)
	fix("dt", &c.Dt, 1e-4, 1)
	fix("duration", &c.Duration, c.Dt, 24*3600)

	for i, a := range c.Scene.Axes {
		if a[0]*a[0]+a[1]*a[1]+a[2]*a[2] < 1e-18 {
			c.Scene.Axes[i] = [3]float64{0, 0, 1}
			notes = append(notes, fmt.Sprintf("scene.axes[%d] is zero, replaced with +z", i))
		}
	}
	for i, r := range c.Motion.Ratios {
		if r[1] <= 0 {
			notes = append(notes, fmt.Sprintf("motion.ratios[%d] %d:%d has no valid denominator", i, r[0], r[1]))
		}
	}
	return notes
}
