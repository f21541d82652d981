package audio

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/faiface/beep"

	"github.com/san-kum/gyropulse/internal/ringfield"
	"github.com/san-kum/gyropulse/internal/sim"
)

func runResult(t *testing.T, seconds float64) *sim.Result {
	t.Helper()
	opts := ringfield.DefaultOptions()
	opts.Rings = 2
	r := sim.New(ringfield.New(opts), nil)
	res, err := r.Run(context.Background(), sim.Config{Dt: 0.001, Duration: seconds})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return res
}

func drain(s beep.Streamer) []float64 {
	var out []float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			out = append(out, buf[i][0])
		}
		if !ok {
			return out
		}
	}
}

func peak(samples []float64, at float64) float64 {
	start := int(at * SampleRate)
	end := start + int(clickLength*SampleRate)
	p := 0.0
	for i := start; i < end && i < len(samples); i++ {
		p = math.Max(p, math.Abs(samples[i]))
	}
	return p
}

func TestClickTrackCounts(t *testing.T) {
	// 120 bpm in 4/4 for 4.2s: beats at 0.5..4.0, downbeats at 2.0 and 4.0
	res := runResult(t, 4.2)
	ct := NewClickTrack(res)

	if ct.Len() != 8 {
		t.Errorf("expected 8 clicks, got %d", ct.Len())
	}
	if ct.Accents() != 2 {
		t.Errorf("expected 2 accented clicks, got %d", ct.Accents())
	}

	samples := drain(ct)
	if len(samples) != ct.Samples() {
		t.Errorf("streamed %d samples, want %d", len(samples), ct.Samples())
	}
	if p := peak(samples, 0.1); p != 0 {
		t.Errorf("expected silence before the first beat, got %v", p)
	}
	normal, accent := peak(samples, 0.5), peak(samples, 2.0)
	if normal == 0 {
		t.Fatal("no click at the first beat")
	}
	if accent <= normal {
		t.Errorf("downbeat click %v not louder than beat click %v", accent, normal)
	}
}

func TestWriteWAV(t *testing.T) {
	res := runResult(t, 1.0)
	path := filepath.Join(t.TempDir(), "click.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteWAV(f, NewClickTrack(res)); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}
	f.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	// 44 byte header + 4 bytes per stereo frame
	if want := int64(44 + 4*SampleRate); info.Size() != want {
		t.Errorf("wav size %d, want %d", info.Size(), want)
	}
}

func TestMetronomeProcess(t *testing.T) {
	m := NewMetronome(nil)
	out := [][]float32{make([]float32, 256), make([]float32, 256)}

	m.Process(out)
	for _, v := range out[0] {
		if v != 0 {
			t.Fatal("idle metronome produced sound")
		}
	}

	m.Follow(ringfield.Tick{Beats: 1, Downbeats: 1})
	m.Process(out)
	loud := false
	for i := range out[0] {
		if out[0][i] != out[1][i] {
			t.Fatal("channels differ")
		}
		if out[0][i] != 0 {
			loud = true
		}
	}
	if !loud {
		t.Error("triggered metronome stayed silent")
	}

	m.Follow(ringfield.Tick{})
	if m.age < 0 {
		t.Error("empty tick should not cancel a ringing click")
	}
}
