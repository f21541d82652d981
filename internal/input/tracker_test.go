package input

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const frame = time.Second / 60

type sample struct {
	at  time.Duration
	pts []Pointer
}

func play(tr *Tracker, samples []sample) []Gesture {
	var out []Gesture
	for _, s := range samples {
		if g := tr.Frame(s.at, s.pts); g != (Gesture{}) {
			out = append(out, g)
		}
	}
	return out
}

func one(x, y float64) []Pointer { return []Pointer{{ID: 0, X: x, Y: y}} }

func TestTrackerGestures(t *testing.T) {
	tests := []struct {
		name    string
		samples []sample
		want    []Gesture
	}{
		{
			name: "single tap",
			samples: []sample{
				{0, one(100, 100)},
				{frame, one(101, 100)},
				{2 * frame, nil},
			},
			want: []Gesture{{Taps: 1, Fingers: 1}},
		},
		{
			name: "double tap",
			samples: []sample{
				{0, one(100, 100)},
				{frame, nil},
				{5 * frame, one(100, 100)},
				{6 * frame, nil},
			},
			want: []Gesture{{Taps: 1, Fingers: 1}, {Taps: 2, Fingers: 1}},
		},
		{
			name: "slow press is not a tap",
			samples: []sample{
				{0, one(100, 100)},
				{time.Second, nil},
			},
			want: nil,
		},
		{
			name: "two finger tap",
			samples: []sample{
				{0, []Pointer{{0, 100, 100}, {1, 200, 100}}},
				{frame, nil},
			},
			want: []Gesture{{Taps: 1, Fingers: 2}},
		},
		{
			name: "three finger tap",
			samples: []sample{
				{0, one(100, 100)},
				{frame, []Pointer{{0, 100, 100}, {1, 150, 100}, {2, 200, 100}}},
				{2 * frame, nil},
			},
			want: []Gesture{{Taps: 1, Fingers: 3}},
		},
		{
			name: "drag",
			samples: []sample{
				{0, one(100, 100)},
				{frame, one(120, 100)},
				{2 * frame, one(130, 95)},
				{3 * frame, nil},
			},
			want: []Gesture{{Fingers: 1, DX: 20}, {Fingers: 1, DX: 10, DY: -5}},
		},
		{
			name: "pinch out",
			samples: []sample{
				{0, []Pointer{{0, 100, 100}, {1, 200, 100}}},
				{frame, []Pointer{{0, 85, 100}, {1, 215, 100}}},
				{2 * frame, []Pointer{{0, 75, 100}, {1, 225, 100}}},
				{3 * frame, nil},
			},
			want: []Gesture{{Fingers: 2, Pinch: 30}, {Fingers: 2, Pinch: 20}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := play(NewTracker(), tt.samples)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("gestures mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTrackerDoubleTapResets(t *testing.T) {
	tr := NewTracker()
	s := DefaultSensitivity()
	var events []Event
	for _, smp := range []sample{
		{0, one(50, 50)},
		{frame, nil},
		{4 * frame, one(52, 50)},
		{5 * frame, nil},
	} {
		events = append(events, s.Translate(tr.Frame(smp.at, smp.pts))...)
	}
	want := []Event{{Kind: TogglePause}, {Kind: Reset}}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}
