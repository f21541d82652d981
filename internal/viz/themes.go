package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name      string
	Ring      lipgloss.Color // rings at rest
	Flash     lipgloss.Color // rings on a beat
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Border    lipgloss.Color
	Running   lipgloss.Color
	Paused    lipgloss.Color
	Downbeat  lipgloss.Color
	Secondary lipgloss.Color
}

// Available themes
var (
	ThemeMono = Theme{
		Name:      "mono",
		Ring:      lipgloss.Color("#bbbbbb"),
		Flash:     lipgloss.Color("#ffffff"),
		Accent:    lipgloss.Color("#ffffff"),
		Text:      lipgloss.Color("#dddddd"),
		Muted:     lipgloss.Color("#777777"),
		Border:    lipgloss.Color("#444444"),
		Running:   lipgloss.Color("#eeeeee"),
		Paused:    lipgloss.Color("#888888"),
		Downbeat:  lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#999999"),
	}

	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Ring:      lipgloss.Color("#00ffff"), // Cyan
		Flash:     lipgloss.Color("#ff00ff"), // Magenta
		Accent:    lipgloss.Color("#ffff00"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Border:    lipgloss.Color("#444466"),
		Running:   lipgloss.Color("#00ff00"),
		Paused:    lipgloss.Color("#ff8800"),
		Downbeat:  lipgloss.Color("#ff0000"),
		Secondary: lipgloss.Color("#00ccff"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Ring:      lipgloss.Color("#00cc00"), // Green phosphor
		Flash:     lipgloss.Color("#88ff88"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Border:    lipgloss.Color("#003300"),
		Running:   lipgloss.Color("#88ff88"),
		Paused:    lipgloss.Color("#ffff00"),
		Downbeat:  lipgloss.Color("#ccffcc"),
		Secondary: lipgloss.Color("#00aa00"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Ring:      lipgloss.Color("#00a8cc"),
		Flash:     lipgloss.Color("#e0f0ff"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Border:    lipgloss.Color("#224466"),
		Running:   lipgloss.Color("#00ff88"),
		Paused:    lipgloss.Color("#ffcc00"),
		Downbeat:  lipgloss.Color("#ffd700"),
		Secondary: lipgloss.Color("#0077be"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Ring:      lipgloss.Color("#ff6b6b"), // Coral
		Flash:     lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Border:    lipgloss.Color("#5a3b5c"),
		Running:   lipgloss.Color("#5fd068"),
		Paused:    lipgloss.Color("#ffc048"),
		Downbeat:  lipgloss.Color("#ff4757"),
		Secondary: lipgloss.Color("#feca57"),
	}

	// Default theme
	CurrentTheme = ThemeMono

	// All available themes
	Themes = []Theme{
		ThemeMono,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to mono.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMono
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme returns the name of the theme after name, wrapping around.
func NextTheme(name string) string {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)].Name
		}
	}
	return Themes[0].Name
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
