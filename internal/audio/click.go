package audio

import (
	"io"
	"math"
	"sort"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"

	"github.com/san-kum/gyropulse/internal/sim"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	clickLength = 0.03
	clickFreq   = 1000.0
	accentFreq  = 1500.0
	clickDecay  = 120.0
)

// Format is what WriteWAV encodes: 16-bit stereo at SampleRate.
var Format = beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}

type click struct {
	start  int
	accent bool
}

// ClickTrack is a metronome streamer built from the beat times of a run.
// Downbeats are pitched higher and played louder.
type ClickTrack struct {
	clicks []click
	total  int
	pos    int
	next   int
}

// NewClickTrack lays out one click per beat of res.
func NewClickTrack(res *sim.Result) *ClickTrack {
	sr := beep.SampleRate(SampleRate)
	down := make(map[int]bool, len(res.DownbeatTimes))
	for _, t := range res.DownbeatTimes {
		down[sampleAt(t)] = true
	}

	ct := &ClickTrack{}
	for _, t := range res.BeatTimes {
		s := sampleAt(t)
		ct.clicks = append(ct.clicks, click{start: s, accent: down[s]})
	}
	sort.Slice(ct.clicks, func(i, j int) bool { return ct.clicks[i].start < ct.clicks[j].start })

	if n := len(res.Times); n > 0 {
		ct.total = sr.N(secondsToDuration(res.Times[n-1]))
	}
	return ct
}

func sampleAt(t float64) int { return int(math.Round(t * SampleRate)) }

// Len is the number of clicks in the track.
func (c *ClickTrack) Len() int { return len(c.clicks) }

// Accents is the number of downbeat clicks.
func (c *ClickTrack) Accents() int {
	n := 0
	for _, k := range c.clicks {
		if k.accent {
			n++
		}
	}
	return n
}

// Samples is the track length in samples.
func (c *ClickTrack) Samples() int { return c.total }

func (c *ClickTrack) Stream(samples [][2]float64) (int, bool) {
	if c.pos >= c.total {
		return 0, false
	}
	n := 0
	for n < len(samples) && c.pos < c.total {
		v := 0.0
		for c.next < len(c.clicks) && c.pos >= c.clicks[c.next].start+int(clickLength*SampleRate) {
			c.next++
		}
		if c.next < len(c.clicks) && c.pos >= c.clicks[c.next].start {
			k := c.clicks[c.next]
			v = clickSample(float64(c.pos-k.start)/SampleRate, k.accent)
		}
		samples[n][0] = v
		samples[n][1] = v
		n++
		c.pos++
	}
	return n, true
}

func (c *ClickTrack) Err() error { return nil }

// clickSample is a decaying sine burst, age in seconds since the onset.
func clickSample(age float64, accent bool) float64 {
	if age < 0 || age >= clickLength {
		return 0
	}
	freq, gain := clickFreq, 0.5
	if accent {
		freq, gain = accentFreq, 0.9
	}
	return gain * math.Exp(-clickDecay*age) * math.Sin(2*math.Pi*freq*age)
}

// WriteWAV encodes s to w until it is drained.
func WriteWAV(w io.WriteSeeker, s beep.Streamer) error {
	if err := wav.Encode(w, s, Format); err != nil {
		return errors.Wrap(err, "encode wav")
	}
	return nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
