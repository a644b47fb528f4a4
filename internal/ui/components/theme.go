package components

import "github.com/charmbracelet/lipgloss"

// Palette shared by every component. The ui package builds its own styles
// from the same colors.
var (
	ColorInk     = lipgloss.Color("#e6ddd0") // body text, old paper
	ColorDim     = lipgloss.Color("#a39a8c")
	ColorSpine   = lipgloss.Color("#b5793f") // leather, the accent
	ColorShelf   = lipgloss.Color("#4f6d5a") // green shelf labels
	ColorFrame   = lipgloss.Color("#3a342d")
	ColorNight   = lipgloss.Color("#17140f")
	ColorRowBg   = lipgloss.Color("#2a241d")
	ColorOK      = lipgloss.Color("#6f9a5b")
	ColorFail    = lipgloss.Color("#c0564b")
	ColorFailDim = lipgloss.Color("#d8b4ad")
	ColorWarn    = lipgloss.Color("#d49a4a")
)
