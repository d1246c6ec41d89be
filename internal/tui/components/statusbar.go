package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// StatusBar is the single footer line: state badge, chapter, position and a message
type StatusBar struct {
	State    string
	Chapter  string
	Position float64
	Duration float64 // media length, else the end of the last chapter; 0 when unknown
	Message  string
	IsError  bool
}

// Render draws the bar at the given width
func (s StatusBar) Render(width int) string {
	badge := styles.StatusBadgeStyle.Render(strings.ToUpper(s.State))

	clock := domain.FormatSeconds(s.Position)
	if s.Duration > 0 {
		clock += " / " + domain.FormatSeconds(s.Duration)
	}

	left := badge + " " + clock
	if s.Chapter != "" {
		left += "  " + s.Chapter
	}

	right := ""
	if s.Message != "" {
		msgStyle := styles.DimStyle
		if s.IsError {
			msgStyle = styles.ErrorStyle
		}
		right = msgStyle.Render(s.Message)
	}

	if s.Duration > 0 {
		barWidth := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
		if barWidth >= 10 {
			barWidth = min(barWidth, 40)
			left += "  " + styles.RenderProgressBar(100*s.Position/s.Duration, barWidth)
		}
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Not enough room: drop the message rather than wrap
		return styles.StatusBarStyle.MaxWidth(width).Render(left)
	}
	return styles.StatusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
