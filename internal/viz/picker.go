package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gyropulse/internal/config"
)

var presetInfo = map[string]string{
	"gyropulse": "four tilted rings, euler tumble",
	"pulse4":    "1:2:3:4 in common time",
	"tumble":    "eight rings on mixed axes",
	"wobble":    "precessing axes",
	"ratio":     "rpm-driven integer ratios",
	"waltz":     "three beats, linear pulse",
}

const (
	stateMenu = iota
	stateLive
)

// picker lists the presets and hands the chosen one to a live Model.
type picker struct {
	state, cursor int
	presets       []string
	theme         string
	live          Model
	err           error
}

func NewPicker(theme string) tea.Model {
	return picker{presets: config.ListPresets(), theme: GetTheme(theme).Name}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateLive {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.start()
	}
	return m, nil
}

func (m picker) start() (tea.Model, tea.Cmd) {
	name := m.presets[m.cursor]
	f, err := config.GetPreset(name).NewField()
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live = NewModel(f, Options{Title: name, Theme: m.theme})
	m.state = stateLive
	return m, m.live.Init()
}

func (m picker) View() string {
	if m.state == stateLive {
		return m.live.View()
	}
	st := NewStyles(GetTheme(m.theme))
	dim := lipgloss.NewStyle().Foreground(GetTheme(m.theme).Muted)

	var b strings.Builder
	b.WriteString(st.Header.Render("GYROPULSE") + "\n")
	for i, name := range m.presets {
		line := fmt.Sprintf("%-10s %s", name, dim.Render(presetInfo[name]))
		if i == m.cursor {
			b.WriteString(st.Selected.Render("› "+name) + strings.TrimPrefix(line, name) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	if m.err != nil {
		b.WriteString("\n" + st.Downbeat.Render(m.err.Error()) + "\n")
	}
	b.WriteString(st.Help.Render("↑↓ select  enter start  q quit"))
	return st.Canvas.Render(b.String())
}

// RunPicker shows the preset menu full screen.
func RunPicker(theme string) error {
	_, err := tea.NewProgram(NewPicker(theme), tea.WithAltScreen()).Run()
	return err
}
