package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/gyropulse/internal/ringfield"
	"github.com/san-kum/gyropulse/internal/viz"
)

const (
	width       = 48
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer prints plain ANSI frames of a headless run. It is a
// sim.Observer; frames are spaced by run time, and when Realtime is set
// it also sleeps so the run plays back at wall-clock speed.
type LiveRenderer struct {
	Realtime bool

	title     string
	frameRate int
	out       io.Writer
	canvas    *viz.Canvas
	lastFrame float64
	started   time.Time
	frames    int
}

func NewLiveRenderer(out io.Writer, title string, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		title:     title,
		frameRate: frameRate,
		out:       out,
		canvas:    viz.NewCanvas(width, height),
		lastFrame: -1,
	}
}

func (r *LiveRenderer) OnStep(f *ringfield.Field, tick ringfield.Tick, t float64) {
	if r.lastFrame >= 0 && t-r.lastFrame < 1/float64(r.frameRate) {
		return
	}
	r.lastFrame = t

	if r.Realtime {
		if r.started.IsZero() {
			r.started = time.Now()
		}
		if ahead := time.Duration(t*float64(time.Second)) - time.Since(r.started); ahead > 0 {
			time.Sleep(ahead)
		}
	}

	r.canvas.Clear()
	viz.RenderField(r.canvas, f, viz.RenderOptions{Zoom: 1, Fill: true})
	r.render(f, t)
	r.frames++
}

// Frames is the number of frames written so far.
func (r *LiveRenderer) Frames() int { return r.frames }

func (r *LiveRenderer) render(f *ringfield.Field, t float64) {
	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  %s  t=%.2fs\n", r.title, t)
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas.Grid {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	tempo := f.Tempo()
	fmt.Fprintf(&b, "  bpm=%.0f  %s  pulse=%s\n",
		tempo.BPM, viz.BeatDots(f.BeatInMeasure(), tempo.BeatsPerMeasure), viz.PulseBar(f.BeatPulse(), 10))

	io.WriteString(r.out, b.String())
}

func (r *LiveRenderer) Start() { io.WriteString(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { io.WriteString(r.out, showCursor) }
