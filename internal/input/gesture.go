package input

import "math"

// Gesture is a recognized touch or pointer gesture.
type Gesture struct {
	Taps    int     // consecutive taps (1 = tap, 2 = double tap)
	Fingers int     // touch points involved
	DX, DY  float64 // drag distance in pixels since the last frame
	Pinch   float64 // change in finger spread in pixels, positive when spreading
}

// Sensitivity scales raw gesture distances into setter deltas.
type Sensitivity struct {
	SpeedPerPixel  float64
	AccelPerPixel  float64
	CameraPerPixel float64
	TempoStep      float64
	DeadZone       float64 // pixels
}

func DefaultSensitivity() Sensitivity {
	return Sensitivity{
		SpeedPerPixel:  0.005,
		AccelPerPixel:  0.002,
		CameraPerPixel: 0.01,
		TempoStep:      5,
		DeadZone:       1,
	}
}

// Translate maps a gesture to events. Drags follow the dominant axis:
// horizontal changes speed, vertical (up is positive) changes acceleration.
// Spreading fingers moves the camera closer.
func (s Sensitivity) Translate(g Gesture) []Event {
	var out []Event
	switch {
	case g.Taps >= 1 && g.Fingers == 2:
		out = append(out, Event{TempoDelta, s.TempoStep})
	case g.Taps >= 1 && g.Fingers >= 3:
		out = append(out, Event{TempoDelta, -s.TempoStep})
	case g.Taps >= 2:
		out = append(out, Event{Kind: Reset})
	case g.Taps == 1:
		out = append(out, Event{Kind: TogglePause})
	}

	if math.Abs(g.Pinch) > s.DeadZone {
		out = append(out, Event{CameraDelta, -g.Pinch * s.CameraPerPixel})
	} else if g.Fingers <= 1 {
		ax, ay := math.Abs(g.DX), math.Abs(g.DY)
		switch {
		case ax > s.DeadZone && ax >= ay:
			out = append(out, Event{SpeedDelta, g.DX * s.SpeedPerPixel})
		case ay > s.DeadZone:
			out = append(out, Event{AccelDelta, -g.DY * s.AccelPerPixel})
		}
	}
	return out
}

// Keys maps single-key shortcuts shared by the terminal and window front
// ends to events.
var Keys = map[string]Event{
	" ":     {Kind: TogglePause},
	"p":     {Kind: TogglePause},
	"r":     {Kind: Reset},
	"m":     {Kind: ToggleMode},
	"+":     {TempoDelta, 5},
	"=":     {TempoDelta, 5},
	"-":     {TempoDelta, -5},
	"]":     {RingDelta, 1},
	"[":     {RingDelta, -1},
	"b":     {MeterDelta, 1},
	"n":     {MeterDelta, -1},
	".":     {RPMDelta, 6},
	",":     {RPMDelta, -6},
	"right": {SpeedDelta, 0.1},
	"left":  {SpeedDelta, -0.1},
	"up":    {CameraDelta, -0.25},
	"down":  {CameraDelta, 0.25},
	"a":     {AccelDelta, 0.1},
	"z":     {AccelDelta, -0.1},
}
