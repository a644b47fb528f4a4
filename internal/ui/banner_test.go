package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gravitrone/libris/internal/ui/components"
)

func TestSplitLinesSplitsOnNewlines(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitLines("a\nb\nc\n"))
}

func TestRenderBannerIncludesSubtitle(t *testing.T) {
	out := RenderBanner()
	assert.NotContains(t, out, "\x1b]")
	assert.Contains(t, components.SanitizeText(out), bannerSubtitle)
}
