// Package analysis inspects recorded ring field runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: spectral view of a trace
//   - [RingFrequency]: fundamental of one ring, to compare with |k|·f0
//   - [RingRate]: signed angular velocity from an unwrapped phase trace
//   - [Lissajous]: 2D portrait of two rings, closed for integer ratios
//   - [StrobeSection]: ring phases sampled on every beat
//
// A beat-locked field shows each ring's fundamental at exactly |k| times
// the measure rate:
//
//	f := analysis.RingFrequency(res, 2)
//	want := 3 / field.Tempo().MeasureDuration()
package analysis
