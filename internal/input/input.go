// Package input turns UI events into ring field setter calls. Callbacks push
// events at any time; the frame loop drains the queue once per tick.
package input

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/san-kum/gyropulse/internal/ringfield"
)

type Kind int

const (
	SpeedDelta Kind = iota
	AccelDelta
	CameraDelta
	TogglePause
	Reset
	SetTempo
	TempoDelta
	SetRingCount
	RingDelta
	ToggleMode
	SetPrecession
	SetSpeed
	SetMeter
	MeterDelta
	SetRPM
	RPMDelta
)

var kindNames = map[Kind]string{
	SpeedDelta:    "speed_delta",
	AccelDelta:    "accel_delta",
	CameraDelta:   "camera_delta",
	TogglePause:   "toggle_pause",
	Reset:         "reset",
	SetTempo:      "set_tempo",
	TempoDelta:    "tempo_delta",
	SetRingCount:  "set_rings",
	RingDelta:     "ring_delta",
	ToggleMode:    "toggle_mode",
	SetPrecession: "set_precession",
	SetSpeed:      "set_speed",
	SetMeter:      "set_meter",
	MeterDelta:    "meter_delta",
	SetRPM:        "set_rpm",
	RPMDelta:      "rpm_delta",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind accepts the names produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("input: unknown event kind %q", s)
}

type Event struct {
	Kind  Kind
	Value float64
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%g)", e.Kind, e.Value)
}

// Apply performs the event against f.
func (e Event) Apply(f *ringfield.Field) {
	switch e.Kind {
	case SpeedDelta:
		f.AdjustSpeedScale(e.Value)
	case SetSpeed:
		f.SetSpeedScale(e.Value)
	case AccelDelta:
		f.AdjustAcceleration(e.Value)
	case CameraDelta:
		f.AdjustCameraDistance(e.Value)
	case TogglePause:
		f.TogglePause()
	case Reset:
		f.Reset()
	case SetTempo:
		f.SetTempo(e.Value)
	case TempoDelta:
		f.AdjustTempo(e.Value)
	case SetRingCount:
		if n, ok := intValue(e.Value); ok {
			f.SetRingCount(n)
		}
	case RingDelta:
		if n, ok := intValue(e.Value); ok {
			f.AdjustRingCount(n)
		}
	case SetMeter:
		if n, ok := intValue(e.Value); ok {
			f.SetBeatsPerMeasure(n)
		}
	case MeterDelta:
		if n, ok := intValue(e.Value); ok {
			f.AdjustBeatsPerMeasure(n)
		}
	case SetRPM:
		f.SetRPM(e.Value)
	case RPMDelta:
		f.AdjustRPM(e.Value)
	case ToggleMode:
		f.ToggleMode()
	case SetPrecession:
		f.SetPrecessionRatio(e.Value)
	}
}

// maxCount bounds integer event values before conversion; any larger value
// already saturates the field's own limits.
const maxCount = 1 << 20

// intValue converts a count-like value. NaN is rejected and infinities
// saturate.
func intValue(v float64) (int, bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	return int(math.Max(-maxCount, math.Min(maxCount, v))), true
}

// Queue buffers events between UI callbacks and the frame tick.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

func NewQueue() *Queue { return &Queue{} }

func (q *Queue) Push(events ...Event) {
	q.mu.Lock()
	q.events = append(q.events, events...)
	q.mu.Unlock()
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Drain removes and returns everything queued so far.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	ev := q.events
	q.events = nil
	q.mu.Unlock()
	return ev
}

// Apply drains the queue into f in push order and returns the events it
// applied. Events pushed while applying wait for the next call.
func (q *Queue) Apply(f *ringfield.Field) []Event {
	ev := q.Drain()
	for _, e := range ev {
		e.Apply(f)
	}
	return ev
}
