package metrics

import "github.com/san-kum/gyropulse/internal/ringfield"

// BeatCount counts beat boundaries crossed during a run.
type BeatCount struct {
	name  string
	beats int
}

func NewBeatCount() *BeatCount {
	return &BeatCount{name: "beats"}
}

func (b *BeatCount) Name() string { return b.name }

func (b *BeatCount) Observe(f *ringfield.Field, tick ringfield.Tick, t float64) {
	b.beats += tick.Beats
}

func (b *BeatCount) Value() float64 { return float64(b.beats) }
func (b *BeatCount) Reset()         { b.beats = 0 }

// PulseDuty is the fraction of steps with a non-zero beat pulse.
type PulseDuty struct {
	name    string
	lit     int
	samples int
}

func NewPulseDuty() *PulseDuty {
	return &PulseDuty{name: "pulse_duty"}
}

func (p *PulseDuty) Name() string { return p.name }

func (p *PulseDuty) Observe(f *ringfield.Field, tick ringfield.Tick, t float64) {
	p.samples++
	if f.BeatPulse() > 0 {
		p.lit++
	}
}

func (p *PulseDuty) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return float64(p.lit) / float64(p.samples)
}

func (p *PulseDuty) Reset() {
	p.lit = 0
	p.samples = 0
}
