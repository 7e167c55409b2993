package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var hasDarkBG = termenv.HasDarkBackground()

func adaptive(light, dark string) lipgloss.Color {
	if hasDarkBG {
		return lipgloss.Color(dark)
	}
	return lipgloss.Color(light)
}

var (
	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(adaptive("#1a1a1a", "#FFFDF5"))

	dateStyle = lipgloss.NewStyle().
			Foreground(adaptive("#5C5C5C", "#9B9B9B"))

	factStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(adaptive("#2d2d2d", "#E2E1ED"))

	attributionStyle = lipgloss.NewStyle().
				Foreground(adaptive("#787878", "#6E6E6E"))

	linkStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(adaptive("#3A3A3A", "#DDDDDD"))

	selectedLinkStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Bold(true).
				Foreground(lipgloss.Color("#FFFDF5")).
				Background(lipgloss.Color("#5A56E0"))

	soundscapeStyle = lipgloss.NewStyle().
			Foreground(adaptive("#04B575", "#04B575"))

	waveStyle = lipgloss.NewStyle().
			Foreground(adaptive("#A49FA5", "#777777"))

	statusStyle = lipgloss.NewStyle().
			Foreground(adaptive("#A49FA5", "#777777"))

	helpStyle = lipgloss.NewStyle().
			Foreground(adaptive("#B2B2B2", "#4A4A4A"))
)
