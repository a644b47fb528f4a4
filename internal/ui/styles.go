package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/gravitrone/libris/internal/ui/components"
)

// --- Reusable Styles ---

var (
	BannerStyle = lipgloss.NewStyle().
			Foreground(components.ColorSpine).
			Bold(true)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(components.ColorNight).
			Background(components.ColorSpine).
			Bold(true).
			Padding(0, 1)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(components.ColorDim).
				Padding(0, 1)

	TabNavStyle = lipgloss.NewStyle().
			Foreground(components.ColorNight).
			Background(components.ColorShelf).
			Bold(true).
			Padding(0, 1)

	MutedStyle = lipgloss.NewStyle().
			Foreground(components.ColorDim)

	AccentStyle = lipgloss.NewStyle().
			Foreground(components.ColorSpine).
			Bold(true)
)

// ApplyTheme switches the color profile. "plain" renders without color;
// anything else keeps the detected terminal profile.
func ApplyTheme(name string) {
	if strings.EqualFold(name, "plain") {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
