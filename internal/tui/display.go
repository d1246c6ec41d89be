package tui

import (
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/components"
)

// chapterDisplay routes selector side effects to the pane and the menu
type chapterDisplay struct {
	menu *components.ChapterMenu
	pane *components.ChapterPane
}

func (d chapterDisplay) Render(c domain.Chapter) {
	d.pane.Render(c)
}

func (d chapterDisplay) MarkActive(id string) {
	d.menu.MarkActive(id)
}

var _ domain.Display = chapterDisplay{}
