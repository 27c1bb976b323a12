package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/orrery/internal/orrery"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Ring       lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
}

var (
	ThemeDark = Theme{
		Name:       "dark",
		Primary:    lipgloss.Color("#fdb813"), // Sun
		Secondary:  lipgloss.Color("#6b93d6"),
		Accent:     lipgloss.Color("#4fd0e7"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#888888"),
		Ring:       lipgloss.Color("#444444"),
		Success:    lipgloss.Color("#00ff88"),
		Warning:    lipgloss.Color("#ffaa00"),
	}

	ThemeLight = Theme{
		Name:       "light",
		Primary:    lipgloss.Color("#c1440e"),
		Secondary:  lipgloss.Color("#4b70dd"),
		Accent:     lipgloss.Color("#8c7853"),
		Background: lipgloss.Color("#f5f5f5"),
		Text:       lipgloss.Color("#1a1a1a"),
		Muted:      lipgloss.Color("#666666"),
		Ring:       lipgloss.Color("#bbbbbb"),
		Success:    lipgloss.Color("#008844"),
		Warning:    lipgloss.Color("#cc6600"),
	}
)

// ThemeFor maps the controller theme to terminal colors.
func ThemeFor(t orrery.Theme) Theme {
	if t == orrery.ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}
