package ringfield

import (
	"math"

	"github.com/san-kum/gyropulse/internal/geom"
)

const (
	radiusFalloff = 0.78
	minRadius     = 0.08
)

// Options is the construction-time configuration of a Field. Reset returns
// the field to exactly these values.
type Options struct {
	Rings       int
	OuterRadius float64
	Thickness   float64 // band width of the outermost ring, scaled with radius
	Segments    int

	Multipliers []int       // cycled; empty means 1, -2, 3, -4, ...
	TiltX       []int       // euler variant, cycled; empty means ±(i+1)
	TiltY       []int       // euler variant, cycled; empty means ±(i+2)
	Axes        []geom.Vec3 // cycled; empty fans tilted diameters by π/4

	BPM             float64
	BeatsPerMeasure int

	Mode   Mode
	RPM    float64
	Ratios []Ratio

	Variant         Variant
	PrecessionRatio float64
	SpeedScale      float64

	Pulse         PulseShape
	PulseDuration float64

	Camera geom.Camera
}

func DefaultOptions() Options {
	return Options{
		Rings:           6,
		OuterRadius:     1.06,
		Thickness:       0.06,
		Segments:        DefaultSegments,
		BPM:             120,
		BeatsPerMeasure: 4,
		Mode:            ModeBeat,
		RPM:             12,
		Variant:         VariantAxis,
		PrecessionRatio: 0.5,
		SpeedScale:      1,
		Pulse:           PulseExp,
		PulseDuration:   DefaultPulseDuration,
		Camera:          geom.Camera{Distance: 4, FocalLength: 2.5},
	}
}

// sanitize clamps every option into range. It never fails.
func (o Options) sanitize() Options {
	d := DefaultOptions()
	o.Rings = clampInt(o.Rings, 0, MaxRings)
	if !(o.OuterRadius > minRadius) || math.IsInf(o.OuterRadius, 0) {
		o.OuterRadius = d.OuterRadius
	}
	o.Thickness = clamp(o.Thickness, 0, o.OuterRadius/2)
	if o.Segments == 0 {
		o.Segments = d.Segments
	}
	o.Segments = clampInt(o.Segments, MinSegments, MaxSegments)
	o.BPM = clampBPM(o.BPM)
	if o.BeatsPerMeasure <= 0 {
		o.BeatsPerMeasure = d.BeatsPerMeasure
	}
	o.BeatsPerMeasure = clampInt(o.BeatsPerMeasure, 1, MaxBeatsPerBar)
	if o.RPM == 0 {
		o.RPM = d.RPM
	}
	o.RPM = clamp(o.RPM, RPMMin, RPMMax)
	o.Ratios = sanitizeRatios(o.Ratios)
	if o.Variant < VariantAxis || o.Variant > VariantWobble {
		o.Variant = VariantAxis
	}
	o.PrecessionRatio = clamp(o.PrecessionRatio, PrecessionMin, PrecessionMax)
	if o.SpeedScale == 0 {
		o.SpeedScale = 1
	}
	o.SpeedScale = clamp(o.SpeedScale, SpeedMin, SpeedMax)
	if !(o.PulseDuration > 0) {
		o.PulseDuration = DefaultPulseDuration
	}
	o.PulseDuration = math.Min(o.PulseDuration, 10)
	if o.Camera.Distance == 0 {
		o.Camera.Distance = d.Camera.Distance
	}
	o.Camera.Distance = clamp(o.Camera.Distance, CameraMin, CameraMax)
	if !(o.Camera.FocalLength > 0) {
		o.Camera.FocalLength = d.Camera.FocalLength
	}
	axes := make([]geom.Vec3, len(o.Axes))
	for i, a := range o.Axes {
		axes[i] = a.Normalize()
	}
	o.Axes = axes
	return o
}

func sanitizeRatios(rs []Ratio) []Ratio {
	out := make([]Ratio, 0, len(rs))
	for _, r := range rs {
		if r.Q <= 0 {
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		out = append(out, DefaultRatios...)
	}
	return out
}

// ringRadius shrinks each inner ring by a constant factor.
func ringRadius(outer float64, i int) float64 {
	return math.Max(minRadius, outer*math.Pow(radiusFalloff, float64(i)))
}

func alternating(i, offset int) int {
	v := i + offset
	if i%2 == 1 {
		return -v
	}
	return v
}

func cycleInt(list []int, i int, fallback func(int) int) int {
	if len(list) == 0 {
		return fallback(i)
	}
	return list[i%len(list)]
}

// defaultAxisLift tilts the default axes out of the XY plane so none is
// parallel to the wobble precession axis.
const defaultAxisLift = 0.35

func defaultAxis(i int) geom.Vec3 {
	a := float64(i) * math.Pi / 4
	return geom.Vec3{X: math.Cos(a), Y: math.Sin(a), Z: defaultAxisLift}.Normalize()
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// ratioLCM is the common denominator that turns every p/q into an integer.
func ratioLCM(rs []Ratio) int {
	l := 1
	for _, r := range rs {
		l = l / gcd(l, r.Q) * r.Q
	}
	return l
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampBPM maps non-positive and NaN tempos to BPMMin.
func clampBPM(bpm float64) float64 {
	if !(bpm > 0) {
		return BPMMin
	}
	return clamp(bpm, BPMMin, BPMMax)
}
