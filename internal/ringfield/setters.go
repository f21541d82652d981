package ringfield

import "math"

// SetTempo sets the BPM. Non-positive or NaN values fall back to BPMMin.
// Ring phases are kept, only their rate changes.
func (f *Field) SetTempo(bpm float64) {
	f.setBPM(clampBPM(bpm))
}

// AdjustTempo nudges the BPM by delta.
func (f *Field) AdjustTempo(delta float64) {
	f.SetTempo(f.tempo.BPM + delta)
}

func (f *Field) setBPM(bpm float64) {
	f.tempo.BPM = bpm
	f.tempo.BaseAngularFrequency = 2 * math.Pi * (bpm / 60) / float64(f.tempo.BeatsPerMeasure)
}

// SetBeatsPerMeasure changes the meter. The base rate follows so the field
// still realigns once per measure.
func (f *Field) SetBeatsPerMeasure(n int) {
	f.tempo.BeatsPerMeasure = clampInt(n, 1, MaxBeatsPerBar)
	f.beatInMeasure %= f.tempo.BeatsPerMeasure
	f.setBPM(f.tempo.BPM)
}

func (f *Field) AdjustBeatsPerMeasure(delta int) {
	f.SetBeatsPerMeasure(f.tempo.BeatsPerMeasure + delta)
}

func (f *Field) SetSpeedScale(s float64) {
	f.ctl.SpeedScale = clamp(s, SpeedMin, SpeedMax)
}

func (f *Field) AdjustSpeedScale(delta float64) {
	f.SetSpeedScale(f.ctl.SpeedScale + delta)
}

// SetAcceleration sets the rate (per second) at which the speed scale drifts.
func (f *Field) SetAcceleration(a float64) {
	f.ctl.Acceleration = clamp(a, AccelMin, AccelMax)
}

func (f *Field) AdjustAcceleration(delta float64) {
	f.SetAcceleration(f.ctl.Acceleration + delta)
}

// SetRingCount grows or truncates the ring list. Ring i always gets the
// same multiplier for the same options, whatever the previous count was.
// Values <= 0 empty the field.
func (f *Field) SetRingCount(n int) {
	n = clampInt(n, 0, MaxRings)
	if n <= len(f.rings) {
		f.rings = f.rings[:n]
		return
	}
	for i := len(f.rings); i < n; i++ {
		f.rings = append(f.rings, f.buildRing(i))
	}
}

func (f *Field) AdjustRingCount(delta int) {
	f.SetRingCount(len(f.rings) + delta)
}

// SetMode switches between beat-lock and ratio rates. Phases are kept.
func (f *Field) SetMode(m Mode) {
	if m != ModeRatio {
		m = ModeBeat
	}
	f.mode = m
	for i := range f.rings {
		f.rings[i].Multiplier = f.multiplier(i)
	}
}

func (f *Field) ToggleMode() {
	if f.mode == ModeBeat {
		f.SetMode(ModeRatio)
		return
	}
	f.SetMode(ModeBeat)
}

// SetRPM sets the base rate used in ratio mode. Reset restores the
// configured rate.
func (f *Field) SetRPM(rpm float64) {
	f.ctl.RPM = clamp(rpm, RPMMin, RPMMax)
}

func (f *Field) AdjustRPM(delta float64) {
	f.SetRPM(f.ctl.RPM + delta)
}

func (f *Field) SetPrecessionRatio(r float64) {
	f.ctl.PrecessionRatio = clamp(r, PrecessionMin, PrecessionMax)
	for i := range f.rings {
		f.rings[i].PrecessionRate = f.precessionRate(i)
	}
}

func (f *Field) SetCameraDistance(d float64) {
	f.ctl.Camera.Distance = clamp(d, CameraMin, CameraMax)
}

func (f *Field) AdjustCameraDistance(delta float64) {
	f.SetCameraDistance(f.ctl.Camera.Distance + delta)
}

func (f *Field) SetPaused(p bool) { f.ctl.Paused = p }
func (f *Field) TogglePause()     { f.ctl.Paused = !f.ctl.Paused }
