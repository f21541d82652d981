package ringfield

import (
	"fmt"
	"strings"

	"github.com/san-kum/gyropulse/internal/geom"
)

// Limits applied by the setters.
const (
	BPMMin = 20.0
	BPMMax = 300.0

	SpeedMin = 0.1
	SpeedMax = 3.0

	AccelMin = -2.0
	AccelMax = 2.0

	CameraMin = 0.5
	CameraMax = 20.0

	PrecessionMin = -4.0
	PrecessionMax = 4.0

	RPMMin = 1.0
	RPMMax = 600.0

	MaxRings        = 16
	MaxBeatsPerBar  = 16
	MinSegments     = 8
	MaxSegments     = 1024
	DefaultSegments = 96

	DefaultPulseDuration = 0.3
)

// Ring is one rotating band of the field.
type Ring struct {
	Radius    float64
	Thickness float64
	Axis      geom.Vec3

	Multiplier int
	Phase      float64

	// Euler variant only.
	TiltXMultiplier int
	TiltYMultiplier int
	TiltX, TiltY    float64

	// Wobble variant only, relative to the tempo base frequency.
	PrecessionRate float64
}

// Tempo is the musical clock the field is locked to.
type Tempo struct {
	BPM             float64
	BeatsPerMeasure int

	// BaseAngularFrequency is 2π·(BPM/60)/BeatsPerMeasure, one turn per measure.
	BaseAngularFrequency float64

	BeatPhase    float64 // wraps once per beat
	MeasurePhase float64 // wraps once per measure
}

// BeatInterval returns the length of one beat in seconds.
func (t Tempo) BeatInterval() float64 { return 60 / t.BPM }

// MeasureDuration returns the length of one measure in seconds.
func (t Tempo) MeasureDuration() float64 { return float64(t.BeatsPerMeasure) * 60 / t.BPM }

// Controls holds the interactive state mutated by user input.
type Controls struct {
	SpeedScale      float64
	Acceleration    float64
	PrecessionRatio float64
	// RPM is the ratio-mode base rate. Reset restores it from Options.
	RPM    float64
	Camera geom.Camera
	Paused bool
}

// Tick reports the boundaries crossed by one Step.
type Tick struct {
	Beats     int
	Downbeats int
}

// Haptic reports whether a discrete haptic pulse should fire this frame.
func (t Tick) Haptic() bool { return t.Beats > 0 }

// Ratio is a p/q speed ratio used in ratio mode.
type Ratio struct {
	P, Q int
}

func (r Ratio) String() string { return fmt.Sprintf("%d:%d", r.P, r.Q) }

// DefaultRatios are cycled across rings in ratio mode.
var DefaultRatios = []Ratio{{1, 1}, {3, 2}, {2, 1}, {5, 2}, {5, 3}, {7, 4}, {8, 5}, {13, 8}}

type Mode int

const (
	ModeBeat Mode = iota
	ModeRatio
)

func (m Mode) String() string {
	if m == ModeRatio {
		return "ratio"
	}
	return "beat"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "beat", "beat-lock", "beatlock":
		return ModeBeat, nil
	case "ratio", "ratios":
		return ModeRatio, nil
	}
	return ModeBeat, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Variant selects how a ring's phase becomes an orientation.
type Variant int

const (
	// VariantAxis rotates by Phase about Axis (Rodrigues).
	VariantAxis Variant = iota
	// VariantEuler spins about Z then tilts about X and Y.
	VariantEuler
	// VariantWobble is VariantAxis with the axis precessing about Y.
	VariantWobble
)

var variantNames = []string{"axis", "euler", "wobble"}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return "axis"
	}
	return variantNames[v]
}

func ParseVariant(s string) (Variant, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return VariantAxis, nil
	}
	for i, n := range variantNames {
		if n == s {
			return Variant(i), nil
		}
	}
	return VariantAxis, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// Variants lists the variant names in order.
func Variants() []string { return append([]string(nil), variantNames...) }

type PulseShape int

const (
	PulseExp PulseShape = iota
	PulseLinear
)

func (p PulseShape) String() string {
	if p == PulseLinear {
		return "linear"
	}
	return "exp"
}

func ParsePulseShape(s string) (PulseShape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exp", "exponential":
		return PulseExp, nil
	case "linear", "lin":
		return PulseLinear, nil
	}
	return PulseExp, fmt.Errorf("%w: %q", ErrUnknownPulse, s)
}
