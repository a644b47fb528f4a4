package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/libris/internal/ui/components"
)

const bannerArt = `
 ██╗     ██╗██████╗ ██████╗ ██╗███████╗
 ██║     ██║██╔══██╗██╔══██╗██║██╔════╝
 ██║     ██║██████╔╝██████╔╝██║███████╗
 ██║     ██║██╔══██╗██╔══██╗██║╚════██║
 ███████╗██║██████╔╝██║  ██║██║███████║
 ╚══════╝╚═╝╚═════╝ ╚═╝  ╚═╝╚═╝╚══════╝`

const bannerSubtitle = "Library Management • Terminal Client"

// RenderBanner returns the styled banner with its subtitle rule.
func RenderBanner() string {
	lines := splitLines(bannerArt)

	maxWidth := 0
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
		b.WriteString(BannerStyle.Render(line))
		b.WriteString("\n")
	}

	blockWidth := max(maxWidth, lipgloss.Width(bannerSubtitle))
	subtitle := lipgloss.NewStyle().
		Foreground(components.ColorDim).
		Width(blockWidth).
		Align(lipgloss.Center).
		Render(bannerSubtitle)
	underline := lipgloss.NewStyle().
		Foreground(components.ColorFrame).
		Width(blockWidth).
		Align(lipgloss.Center).
		Render(strings.Repeat("─", lipgloss.Width(bannerSubtitle)))

	return "\n" + b.String() + "\n" + subtitle + "\n" + underline + "\n"
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
