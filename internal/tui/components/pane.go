package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// paneHeaderLines is the title, the time range and a blank separator
const paneHeaderLines = 3

// ChapterPane shows the selected chapter's title and content.
// The header stays fixed while the content scrolls in a viewport.
type ChapterPane struct {
	chapter     *domain.Chapter
	showContent bool
	width       int
	height      int
	body        viewport.Model
}

// NewChapterPane creates an empty pane
func NewChapterPane(showContent bool) *ChapterPane {
	return &ChapterPane{
		showContent: showContent,
		body:        viewport.New(0, 0),
	}
}

// Render replaces the displayed chapter
func (p *ChapterPane) Render(c domain.Chapter) {
	p.chapter = &c
	p.refreshBody()
	p.body.GotoTop()
}

// Chapter returns the displayed chapter
func (p *ChapterPane) Chapter() (domain.Chapter, bool) {
	if p.chapter == nil {
		return domain.Chapter{}, false
	}
	return *p.chapter, true
}

// SetSize updates the component dimensions
func (p *ChapterPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.body.Width = max(p.contentWidth(), 1)
	p.body.Height = max(height-BorderHeight-paneHeaderLines, 1)
	p.refreshBody()
}

// Update scrolls the content
func (p *ChapterPane) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, PaneKeys.ScrollDown):
			p.body.LineDown(1)
		case key.Matches(keyMsg, PaneKeys.ScrollUp):
			p.body.LineUp(1)
		}
		return nil
	}

	var cmd tea.Cmd
	p.body, cmd = p.body.Update(msg)
	return cmd
}

func (p *ChapterPane) contentWidth() int {
	// Border takes 2 chars (1 each side), leave 1 char safety margin
	return max(p.width-BorderWidth-1, 10)
}

func (p *ChapterPane) refreshBody() {
	if p.chapter == nil {
		p.body.SetContent("")
		return
	}
	if !p.showContent || strings.TrimSpace(p.chapter.Content) == "" {
		p.body.SetContent(styles.DimStyle.Render("No description"))
		return
	}
	wrapped := lipgloss.NewStyle().Width(p.contentWidth()).Render(p.chapter.Content)
	p.body.SetContent(styles.SubtitleStyle.Render(wrapped))
}

// View renders the component
func (p *ChapterPane) View() string {
	style := styles.InactiveBorder
	width := p.contentWidth()

	var content string
	if p.chapter == nil {
		content = styles.DimStyle.Render("Waiting for playback...")
	} else {
		title := p.chapter.Title
		if title == "" {
			title = p.chapter.MenuLabel()
		}
		header := styles.TitleStyle.Render(styles.Truncate(title, width)) + "\n" +
			styles.AccentStyle.Render(p.chapter.FormattedRange()) + "\n"
		content = header + "\n" + p.body.View()
	}

	// Subtract frame (border) size so total rendered size equals p.width x p.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(p.width - frameW).
		Height(p.height - frameH).
		Render(content)
}
