package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are derived from a theme each frame so theme switches apply
// immediately.
type Styles struct {
	Canvas   lipgloss.Style
	Rings    lipgloss.Style
	Flash    lipgloss.Style
	Panel    lipgloss.Style
	Header   lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Running  lipgloss.Style
	Paused   lipgloss.Style
	Downbeat lipgloss.Style
	Help     lipgloss.Style
	Spark    lipgloss.Style
	Selected lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Canvas: lipgloss.NewStyle().Padding(1, 2),
		Rings:  lipgloss.NewStyle().Foreground(t.Ring),
		Flash:  lipgloss.NewStyle().Foreground(t.Flash).Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Border).
			Padding(1, 2).
			Width(38),
		Header:   lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1),
		Label:    lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		Value:    lipgloss.NewStyle().Foreground(t.Text),
		Running:  lipgloss.NewStyle().Foreground(t.Running).Bold(true),
		Paused:   lipgloss.NewStyle().Foreground(t.Paused).Bold(true),
		Downbeat: lipgloss.NewStyle().Foreground(t.Downbeat).Bold(true),
		Help:     lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		Spark:    lipgloss.NewStyle().Foreground(t.Secondary),
		Selected: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
	}
}

// PulseBar renders v in [0,1] as a bar of width cells.
func PulseBar(v float64, width int) string {
	filled := int(v*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Sparkline renders the last width values scaled to [lo, hi].
func Sparkline(values []float64, width int, lo, hi float64) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	rng := hi - lo
	if rng <= 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(chars[idx])
	}
	return b.String()
}

// BeatDots shows the position in the measure, e.g. "● ○ ○ ○".
func BeatDots(beat, perMeasure int) string {
	parts := make([]string, perMeasure)
	for i := range parts {
		if i == beat {
			parts[i] = "●"
		} else {
			parts[i] = "○"
		}
	}
	return strings.Join(parts, " ")
}
