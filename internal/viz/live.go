package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gyropulse/internal/input"
	"github.com/san-kum/gyropulse/internal/ringfield"
)

const (
	fps             = 60
	width           = 64
	height          = 28
	historyCapacity = 180
)

type TickMsg time.Time

// Options configures a live model.
type Options struct {
	Title string
	Theme string
	Fill  bool
	// OnTick runs after every step, e.g. to drive a metronome.
	OnTick func(ringfield.Tick)
}

// Model is the Bubble Tea front end for a ring field. Key presses become
// input events; each frame tick drains them, steps the field by 1/60 s and
// redraws.
type Model struct {
	field  *ringfield.Field
	queue  *input.Queue
	opts   Options
	canvas *Canvas
	dt     float64

	// displayed camera distance, eased toward the field's
	spring    harmonica.Spring
	shownDist float64
	distVel   float64

	pulses   []float64
	frames   int
	showHelp bool
	theme    string
}

func NewModel(f *ringfield.Field, opts Options) Model {
	if opts.Title == "" {
		opts.Title = "gyropulse"
	}
	theme := GetTheme(opts.Theme).Name
	return Model{
		field:     f,
		queue:     input.NewQueue(),
		opts:      opts,
		canvas:    NewCanvas(width, height),
		dt:        1.0 / fps,
		spring:    harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.9),
		shownDist: f.Camera().Distance,
		pulses:    make([]float64, 0, historyCapacity),
		theme:     theme,
	}
}

// Queue lets other goroutines feed events into the model.
func (m Model) Queue() *input.Queue { return m.queue }

func (m Model) Field() *ringfield.Field { return m.field }

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

// Update handles input events and steps the field.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			m.theme = NextTheme(m.theme)
		case "f":
			m.opts.Fill = !m.opts.Fill
		default:
			if ev, ok := input.Keys[key]; ok {
				m.queue.Push(ev)
			}
		}
	case TickMsg:
		m.step()
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.queue.Apply(m.field)
	t := m.field.Step(m.dt)
	if m.opts.OnTick != nil {
		m.opts.OnTick(t)
	}
	m.frames++

	m.pulses = append(m.pulses, m.field.BeatPulse())
	if len(m.pulses) > historyCapacity {
		m.pulses = m.pulses[1:]
	}
	m.shownDist, m.distVel = m.spring.Update(m.shownDist, m.distVel, m.field.Camera().Distance)
}

// zoom converts the eased camera distance into a scale factor relative to
// the field's real camera, with a slight swell on each beat.
func (m Model) zoom() float64 {
	z := 1.0
	if m.shownDist > 0 {
		z = m.field.Camera().Distance / m.shownDist
	}
	return z * (1 + 0.04*m.field.BeatPulse())
}

// View renders the TUI interface.
func (m Model) View() string {
	st := NewStyles(GetTheme(m.theme))

	m.canvas.Clear()
	RenderField(m.canvas, m.field, RenderOptions{Zoom: m.zoom(), Fill: m.opts.Fill})
	ringStyle := st.Rings
	if m.field.BeatPulse() > 0.5 {
		ringStyle = st.Flash
	}
	canvasView := st.Canvas.Render(ringStyle.Render(m.canvas.String()))

	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.panel(st))
	if m.showHelp {
		return st.Panel.Render(helpText) + "\n" + main
	}
	return main
}

func (m Model) panel(st Styles) string {
	f := m.field
	tempo := f.Tempo()
	ctl := f.Controls()

	var s strings.Builder
	s.WriteString(st.Header.Render(strings.ToUpper(m.opts.Title)) + "\n")
	if f.Paused() {
		s.WriteString(st.Paused.Render("PAUSED") + "\n\n")
	} else {
		s.WriteString(st.Running.Render("RUNNING") + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("BPM", fmt.Sprintf("%.0f", tempo.BPM))
	beat := BeatDots(f.BeatInMeasure(), tempo.BeatsPerMeasure)
	if f.MeasurePulse() > 0 {
		beat = st.Downbeat.Render(beat)
	}
	s.WriteString(st.Label.Render("Beat") + beat + "\n")
	row("Pulse", PulseBar(f.BeatPulse(), 16))
	s.WriteString(st.Label.Render("") + st.Spark.Render(Sparkline(m.pulses, 24, 0, 1)) + "\n\n")

	row("Speed", fmt.Sprintf("%.2fx", ctl.SpeedScale))
	row("Accel", fmt.Sprintf("%+.2f/s", ctl.Acceleration))
	row("Camera", fmt.Sprintf("%.2f", ctl.Camera.Distance))
	row("Mode", f.Mode().String())
	if f.Mode() == ringfield.ModeRatio {
		row("RPM", fmt.Sprintf("%.0f", ctl.RPM))
	}
	row("Variant", f.Variant().String())
	row("Rings", fmt.Sprintf("%d", f.Len()))
	row("Time", fmt.Sprintf("%.1fs", f.Elapsed()))
	row("Theme", m.theme)

	s.WriteString(st.Help.Render("SP:Pause R:Reset Q:Quit\n+/-:BPM ←→:Speed ↑↓:Zoom\n[ ]:Rings B/N:Meter M:Mode ?:Help"))
	return st.Panel.Render(s.String())
}

const helpText = `KEYBOARD SHORTCUTS
  Space / P  pause or resume
  R          reset to the scene
  + / -      tempo ±5 BPM
  ← / →      speed ∓0.1
  A / Z      acceleration ±0.1/s
  ↑ / ↓      camera closer / further
  [ / ]      remove / add a ring
  B / N      one more / fewer beat per measure
  , / .      ratio mode rpm ∓6
  M          beat-lock / ratio mode
  F          toggle filled rings
  T          cycle themes
  ?          toggle this help
  Q          quit`

// Run starts the live view full screen and blocks until quit.
func Run(f *ringfield.Field, opts Options) error {
	_, err := tea.NewProgram(NewModel(f, opts), tea.WithAltScreen()).Run()
	return err
}
