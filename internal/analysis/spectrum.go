package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/gyropulse/internal/sim"
)

// PowerSpectrum returns the magnitude of the first half of the real FFT of
// data after a Hann window. Any length works.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return nil
	}
	windowed := make([]float64, n)
	for i, v := range data {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = v * w
	}
	spec := fft.FFTReal(windowed)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-DC frequency in Hz, refined by
// parabolic interpolation between neighboring bins.
func DominantFrequency(data []float64, sampleRate float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 3 || sampleRate <= 0 {
		return 0
	}
	peak := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	offset := 0.0
	if peak+1 < len(ps) {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if d := a - 2*b + c; d != 0 {
			offset = 0.5 * (a - c) / d
		}
	}
	return (float64(peak) + offset) * sampleRate / float64(len(data))
}

// RingFrequency is the fundamental of cos(phase) for one ring, in Hz.
// Samples where the ring did not exist count as silence.
func RingFrequency(res *sim.Result, ring int) float64 {
	trace := res.Trace(ring)
	sig := make([]float64, len(trace))
	for i, p := range trace {
		if !math.IsNaN(p) {
			sig[i] = math.Cos(p)
		}
	}
	return DominantFrequency(sig, res.SampleRate())
}

// Unwrap removes the 2π jumps from a wrapped phase trace.
func Unwrap(phases []float64) []float64 {
	out := make([]float64, len(phases))
	offset := 0.0
	for i, p := range phases {
		if i > 0 {
			d := p - phases[i-1]
			if d > math.Pi {
				offset -= 2 * math.Pi
			} else if d < -math.Pi {
				offset += 2 * math.Pi
			}
		}
		out[i] = p + offset
	}
	return out
}

// RingRate fits a line to the unwrapped phase of a ring and returns its
// slope in rad/s. Samples must be dense enough that a ring turns less than
// half a revolution between them.
func RingRate(res *sim.Result, ring int) float64 {
	var ts, ps []float64
	for i, p := range res.Trace(ring) {
		if math.IsNaN(p) {
			continue
		}
		ts = append(ts, res.Times[i])
		ps = append(ps, p)
	}
	if len(ts) < 2 {
		return 0
	}
	ps = Unwrap(ps)

	var mt, mp float64
	for i := range ts {
		mt += ts[i]
		mp += ps[i]
	}
	n := float64(len(ts))
	mt /= n
	mp /= n
	var num, den float64
	for i := range ts {
		num += (ts[i] - mt) * (ps[i] - mp)
		den += (ts[i] - mt) * (ts[i] - mt)
	}
	if den == 0 {
		return 0
	}
	return num / den
}
