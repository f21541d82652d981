package input

import (
	"math"
	"time"
)

const (
	tapMaxDuration = 250 * time.Millisecond
	doubleTapGap   = 300 * time.Millisecond
	tapSlop        = 10.0 // pixels
)

// Pointer is one active touch point or a held mouse button.
type Pointer struct {
	ID   int
	X, Y float64
}

// Tracker turns per-frame pointer samples into gestures. A touch sequence
// that ends quickly without moving is a tap; moving past the slop turns it
// into a drag, and two points turn it into a pinch.
type Tracker struct {
	down     bool
	start    time.Duration
	origin   map[int]Pointer
	last     map[int]Pointer
	fingers  int
	moved    bool
	lastTap  time.Duration
	tapCount int
}

func NewTracker() *Tracker {
	return &Tracker{lastTap: -time.Hour}
}

// Frame feeds the pointers held at time now and returns the gesture
// completed or continued during this frame. The zero Gesture means nothing
// happened.
func (t *Tracker) Frame(now time.Duration, pts []Pointer) Gesture {
	var g Gesture

	if len(pts) == 0 {
		if t.down {
			if !t.moved && now-t.start <= tapMaxDuration {
				if now-t.lastTap <= doubleTapGap && t.tapCount > 0 {
					t.tapCount++
				} else {
					t.tapCount = 1
				}
				t.lastTap = now
				g.Taps = t.tapCount
				g.Fingers = t.fingers
			}
			t.down = false
		}
		return g
	}

	cur := make(map[int]Pointer, len(pts))
	for _, p := range pts {
		cur[p.ID] = p
	}
	if !t.down {
		t.down = true
		t.start = now
		t.moved = false
		t.fingers = 0
		t.origin = make(map[int]Pointer, len(cur))
		for id, p := range cur {
			t.origin[id] = p
		}
		t.last = cur
	}
	if len(pts) > t.fingers {
		t.fingers = len(pts)
	}
	for id, p := range cur {
		if o, ok := t.origin[id]; ok && math.Hypot(p.X-o.X, p.Y-o.Y) > tapSlop {
			t.moved = true
		} else if !ok {
			t.origin[id] = p
		}
	}

	if t.moved {
		g.Fingers = len(pts)
		switch len(pts) {
		case 1:
			p := pts[0]
			if l, ok := t.last[p.ID]; ok {
				g.DX, g.DY = p.X-l.X, p.Y-l.Y
			}
		case 2:
			if spread(t.last, pts) > 0 {
				g.Pinch = spreadOf(pts) - spread(t.last, pts)
			}
		}
	}
	t.last = cur
	return g
}

func spreadOf(pts []Pointer) float64 {
	return math.Hypot(pts[0].X-pts[1].X, pts[0].Y-pts[1].Y)
}

// spread is the previous distance between the two pointers in pts, or 0 if
// either was not down last frame.
func spread(last map[int]Pointer, pts []Pointer) float64 {
	a, okA := last[pts[0].ID]
	b, okB := last[pts[1].ID]
	if !okA || !okB {
		return 0
	}
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
