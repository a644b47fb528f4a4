package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(ColorSpine).
				Bold(true)

	dialogBodyStyle = lipgloss.NewStyle().
			Foreground(ColorInk)

	dialogHintStyle = lipgloss.NewStyle().
			Foreground(ColorDim)

	dialogWarnStyle = lipgloss.NewStyle().
			Foreground(ColorWarn)

	fieldLabelStyle = lipgloss.NewStyle().
			Foreground(ColorShelf).
			Bold(true)

	fieldFocusStyle = lipgloss.NewStyle().
			Foreground(ColorSpine).
			Bold(true)

	fieldLockedStyle = lipgloss.NewStyle().
				Foreground(ColorDim).
				Italic(true)

	fieldErrorStyle = lipgloss.NewStyle().
			Foreground(ColorFail)
)

// ConfirmDialog renders a yes/no confirmation. An empty warning is omitted.
func ConfirmDialog(title, message, warning string, width int) string {
	var b strings.Builder
	b.WriteString(dialogTitleStyle.Render(SanitizeOneLine(title)))
	b.WriteString("\n\n")
	b.WriteString(dialogBodyStyle.Render(SanitizeText(message)))
	if warning != "" {
		b.WriteString("\n\n")
		b.WriteString(dialogWarnStyle.Render("! " + warning))
	}
	b.WriteString("\n\n")
	b.WriteString(dialogHintStyle.Render("y: confirm | n: cancel"))
	return ActiveBox(b.String(), width)
}

// SearchPrompt renders the one-line search input. The cursor block is drawn
// only while the prompt has focus.
func SearchPrompt(label, input string, focused bool) string {
	text := "/ " + SanitizeOneLine(label) + ": " + SanitizeOneLine(input)
	if focused {
		return fieldFocusStyle.Render(text + "█")
	}
	return dialogHintStyle.Render(text)
}

// FormField renders one labelled input line of a form. Locked fields show
// their value but cannot be focused for editing.
func FormField(label, value string, focused, locked bool, problem string) string {
	marker := "  "
	valueStyle := dialogBodyStyle
	switch {
	case locked:
		valueStyle = fieldLockedStyle
		value += " (locked)"
	case focused:
		marker = fieldFocusStyle.Render("> ")
		valueStyle = fieldFocusStyle
		value += "█"
	}
	line := marker + fieldLabelStyle.Render(padRight(SanitizeOneLine(label), 16)) + " " + valueStyle.Render(SanitizeOneLine(value))
	if problem != "" {
		line += "\n" + strings.Repeat(" ", 19) + fieldErrorStyle.Render(problem)
	}
	return line
}

// FormHint renders a muted helper line under a form.
func FormHint(text string) string {
	return dialogHintStyle.Render(text)
}
