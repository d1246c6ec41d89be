package components

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestChapterPane_Render(t *testing.T) {
	p := NewChapterPane(true)
	p.SetSize(50, 12)
	assert.Contains(t, p.View(), "Waiting for playback")

	p.Render(domain.Chapter{ID: "a", Order: 1, Start: 0, End: 75, Title: "Opening", Content: "The ship leaves port at dawn."})

	view := p.View()
	assert.Contains(t, view, "Opening")
	assert.Contains(t, view, "0:00 - 1:15")
	assert.Contains(t, view, "leaves port")
	assert.Equal(t, 12, lipgloss.Height(view))

	c, ok := p.Chapter()
	assert.True(t, ok)
	assert.Equal(t, "a", c.ID)
}

func TestChapterPane_HidesContent(t *testing.T) {
	p := NewChapterPane(false)
	p.SetSize(50, 12)
	p.Render(domain.Chapter{ID: "a", Order: 1, End: 10, Title: "Opening", Content: "secret"})

	view := p.View()
	assert.NotContains(t, view, "secret")
	assert.Contains(t, view, "No description")
}

func TestStatusBar_Render(t *testing.T) {
	bar := StatusBar{State: "active", Chapter: "2. Harbor", Position: 75, Duration: 360, Message: "seeked"}
	out := bar.Render(100)
	assert.Equal(t, 100, lipgloss.Width(out))
	assert.Contains(t, out, "ACTIVE")
	assert.Contains(t, out, "1:15 / 6:00")
	assert.Contains(t, out, "seeked")
}
