package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestIsQuit(t *testing.T) {
	assert.True(t, isQuit(tea.KeyMsg{Type: tea.KeyCtrlC}))
	assert.True(t, isQuit(runeKey('q')))
	assert.False(t, isQuit(runeKey('a')))
}

func TestIsEnterAndSave(t *testing.T) {
	assert.True(t, isEnter(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.False(t, isEnter(tea.KeyMsg{Type: tea.KeySpace}))
	assert.True(t, isSave(tea.KeyMsg{Type: tea.KeyCtrlS}))
}

func TestIsSpace(t *testing.T) {
	assert.True(t, isSpace(tea.KeyMsg{Type: tea.KeySpace}))
	assert.False(t, isSpace(tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestIsBack(t *testing.T) {
	assert.True(t, isBack(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.False(t, isBack(tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestIsUpDown(t *testing.T) {
	assert.True(t, isDown(tea.KeyMsg{Type: tea.KeyDown}))
	assert.False(t, isDown(runeKey('j')))
	assert.True(t, isUp(tea.KeyMsg{Type: tea.KeyUp}))
	assert.False(t, isUp(runeKey('k')))
}

func TestFieldNavigation(t *testing.T) {
	assert.True(t, isNextField(tea.KeyMsg{Type: tea.KeyTab}))
	assert.True(t, isPrevField(tea.KeyMsg{Type: tea.KeyShiftTab}))
	assert.False(t, isNextField(runeKey('n')))
}

func TestTypedText(t *testing.T) {
	text, ok := typedText(runeKey('ş'))
	assert.True(t, ok)
	assert.Equal(t, "ş", text)

	text, ok = typedText(tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, ok)
	assert.Equal(t, " ", text)

	_, ok = typedText(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, ok)
	assert.True(t, isErase(tea.KeyMsg{Type: tea.KeyBackspace}))
}
