package components

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestHintIncludesKeyAndDesc(t *testing.T) {
	out := Hint("↑/↓", "move")
	assert.Contains(t, out, "move")
	assert.Contains(t, out, "↑/↓")
}

func TestStatusBarRendersHints(t *testing.T) {
	out := StatusBar([]string{Hint("q", "quit")}, 0)
	assert.Contains(t, out, "quit")
}

func TestWrapSegmentsWrapsWhenNarrow(t *testing.T) {
	rows := wrapSegments([]string{"123456", "abcdef", "ghijkl"}, 10)
	assert.Len(t, rows, 3)
	for _, row := range rows {
		assert.LessOrEqual(t, lipgloss.Width(row), 10)
	}
}
