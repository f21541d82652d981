package ringfield

import (
	"math"

	"github.com/san-kum/gyropulse/internal/geom"
)

const pulseDecay = 5.0

// Field is the ring field. It is not safe for concurrent use; drive it from
// one goroutine and feed input through input.Queue.
type Field struct {
	opts  Options
	rings []Ring
	tempo Tempo
	ctl   Controls
	mode  Mode

	// basePhase is the wrapped integral of the ring base frequency. A ring
	// with multiplier k sits at k·basePhase, which is how new rings join.
	basePhase float64

	beatInMeasure int
	beats         int
	downbeats     int
	sinceBeat     float64
	sinceDownbeat float64
	beatFired     bool
	downbeatFired bool
	elapsed       float64
}

// New builds a field from opts. Out-of-range options are clamped.
func New(opts Options) *Field {
	f := &Field{opts: opts.sanitize()}
	f.Reset()
	return f
}

// Reset restores the construction options: rings, tempo and controls.
func (f *Field) Reset() {
	o := f.opts
	f.mode = o.Mode
	f.tempo = Tempo{BeatsPerMeasure: o.BeatsPerMeasure}
	f.setBPM(o.BPM)
	f.ctl = Controls{
		SpeedScale:      o.SpeedScale,
		PrecessionRatio: o.PrecessionRatio,
		RPM:             o.RPM,
		Camera:          o.Camera,
	}
	f.basePhase = 0
	f.beatInMeasure, f.beats, f.downbeats = 0, 0, 0
	f.sinceBeat, f.sinceDownbeat = 0, 0
	f.beatFired, f.downbeatFired = false, false
	f.elapsed = 0
	f.rings = f.rings[:0]
	for i := 0; i < o.Rings; i++ {
		f.rings = append(f.rings, f.buildRing(i))
	}
}

func (f *Field) buildRing(i int) Ring {
	o := f.opts
	r := Ring{
		Radius:          ringRadius(o.OuterRadius, i),
		Axis:            defaultAxis(i),
		TiltXMultiplier: cycleInt(o.TiltX, i, func(i int) int { return alternating(i, 1) }),
		TiltYMultiplier: cycleInt(o.TiltY, i, func(i int) int { return alternating(i, 2) }),
	}
	if len(o.Axes) > 0 {
		r.Axis = o.Axes[i%len(o.Axes)]
	}
	r.Thickness = clamp(o.Thickness*r.Radius/o.OuterRadius, 0, r.Radius/2)
	r.Multiplier = f.multiplier(i)
	r.PrecessionRate = f.precessionRate(i)
	r.Phase = geom.Wrap(float64(r.Multiplier) * f.basePhase)
	r.TiltX = geom.Wrap(float64(r.TiltXMultiplier) * f.basePhase)
	r.TiltY = geom.Wrap(float64(r.TiltYMultiplier) * f.basePhase)
	return r
}

func (f *Field) multiplier(i int) int {
	if f.mode == ModeRatio {
		rs := f.opts.Ratios
		r := rs[i%len(rs)]
		return r.P * ratioLCM(rs) / r.Q
	}
	return cycleInt(f.opts.Multipliers, i, func(i int) int { return alternating(i, 1) })
}

func (f *Field) precessionRate(i int) float64 {
	if i%2 == 1 {
		return -f.ctl.PrecessionRatio
	}
	return f.ctl.PrecessionRatio
}

// RingOmega returns the angular frequency a multiplier of 1 turns at,
// before speed scaling.
func (f *Field) RingOmega() float64 {
	if f.mode == ModeRatio {
		return geom.TwoPi * f.ctl.RPM / 60 / float64(ratioLCM(f.opts.Ratios))
	}
	return f.tempo.BaseAngularFrequency
}

// CycleDuration is the time after which every ring phase repeats at speed 1.
func (f *Field) CycleDuration() float64 {
	return geom.TwoPi / f.RingOmega()
}

// Step advances the field by dt seconds. It does nothing while paused or
// for non-positive dt.
func (f *Field) Step(dt float64) Tick {
	if f.ctl.Paused || !(dt > 0) || math.IsInf(dt, 0) {
		return Tick{}
	}
	f.elapsed += dt
	tick := f.advanceTempo(dt)

	w := f.RingOmega() * f.ctl.SpeedScale * dt
	f.basePhase = geom.Wrap(f.basePhase + w)
	prec := f.tempo.BaseAngularFrequency * f.ctl.SpeedScale * dt
	for i := range f.rings {
		r := &f.rings[i]
		r.Phase = geom.Wrap(r.Phase + float64(r.Multiplier)*w)
		switch f.opts.Variant {
		case VariantEuler:
			r.TiltX = geom.Wrap(r.TiltX + float64(r.TiltXMultiplier)*w)
			r.TiltY = geom.Wrap(r.TiltY + float64(r.TiltYMultiplier)*w)
		case VariantWobble:
			r.Axis = geom.Rodrigues(r.Axis, geom.UnitY, r.PrecessionRate*prec).Normalize()
		}
	}

	if f.ctl.Acceleration != 0 {
		f.ctl.SpeedScale = clamp(f.ctl.SpeedScale+f.ctl.Acceleration*dt, SpeedMin, SpeedMax)
	}
	return tick
}

// maxBeatsPerStep caps the counters reported for one very long Step.
const maxBeatsPerStep = math.MaxInt32

func (f *Field) advanceTempo(dt float64) Tick {
	var tick Tick
	beatRate := geom.TwoPi * f.tempo.BPM / 60
	f.sinceBeat += dt
	f.sinceDownbeat += dt

	next := f.tempo.BeatPhase + beatRate*dt
	if wraps := math.Floor(next / geom.TwoPi); wraps > 0 {
		next = math.Mod(next, geom.TwoPi)
		n := int(math.Min(wraps, maxBeatsPerStep))
		f.beats += n
		tick.Beats = n
		f.beatFired = true
		f.sinceBeat = math.Max(0, next) / beatRate

		per := float64(f.tempo.BeatsPerMeasure)
		total := float64(f.beatInMeasure) + wraps
		if m := math.Floor(total / per); m > 0 {
			f.beatInMeasure = int(math.Mod(total, per))
			d := int(math.Min(m, maxBeatsPerStep))
			f.downbeats += d
			tick.Downbeats = d
			f.downbeatFired = true
			f.sinceDownbeat = float64(f.beatInMeasure)*60/f.tempo.BPM + f.sinceBeat
		} else {
			f.beatInMeasure = int(total)
		}
	}
	f.tempo.BeatPhase = geom.Wrap(next)
	f.tempo.MeasurePhase = geom.Wrap((float64(f.beatInMeasure)*geom.TwoPi + f.tempo.BeatPhase) /
		float64(f.tempo.BeatsPerMeasure))
	return tick
}

// BeatPulse returns the beat envelope in [0, 1]. It is 1 at a beat boundary
// and decays over the configured pulse duration. Calling it does not
// change any state.
func (f *Field) BeatPulse() float64 {
	return f.envelope(f.beatFired, f.sinceBeat)
}

// MeasurePulse is BeatPulse for downbeats.
func (f *Field) MeasurePulse() float64 {
	return f.envelope(f.downbeatFired, f.sinceDownbeat)
}

func (f *Field) envelope(fired bool, age float64) float64 {
	d := f.opts.PulseDuration
	if !fired || age >= d {
		return 0
	}
	if f.opts.Pulse == PulseLinear {
		return clamp(1-age/d, 0, 1)
	}
	return clamp(math.Exp(-pulseDecay*age/d), 0, 1)
}

func (f *Field) Rings() []Ring {
	return append([]Ring(nil), f.rings...)
}

func (f *Field) Ring(i int) (Ring, bool) {
	if i < 0 || i >= len(f.rings) {
		return Ring{}, false
	}
	return f.rings[i], true
}

func (f *Field) Len() int            { return len(f.rings) }
func (f *Field) Tempo() Tempo        { return f.tempo }
func (f *Field) Controls() Controls  { return f.ctl }
func (f *Field) Mode() Mode          { return f.mode }
func (f *Field) Variant() Variant    { return f.opts.Variant }
func (f *Field) Options() Options    { return f.opts }
func (f *Field) Paused() bool        { return f.ctl.Paused }
func (f *Field) Beats() int          { return f.beats }
func (f *Field) Downbeats() int      { return f.downbeats }
func (f *Field) BeatInMeasure() int  { return f.beatInMeasure }
func (f *Field) Elapsed() float64    { return f.elapsed }
func (f *Field) BasePhase() float64  { return f.basePhase }
func (f *Field) Camera() geom.Camera { return f.ctl.Camera }

// SinceBeat is the time since the last beat boundary.
func (f *Field) SinceBeat() float64 { return f.sinceBeat }

// SinceDownbeat is the time since the last measure boundary.
func (f *Field) SinceDownbeat() float64 { return f.sinceDownbeat }
