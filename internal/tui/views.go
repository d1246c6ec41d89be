package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/tui/components"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.Menu.View(), m.Pane.View())
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())
}

// renderFooter renders the status bar, or the jump prompt while jumping
func (m Model) renderFooter() string {
	if m.State == StateJumping {
		return styles.StatusBarStyle.Width(m.Width).Render(m.JumpInput.View())
	}

	bar := components.StatusBar{
		State:    m.Selector.State().String(),
		Position: m.Position,
		Message:  m.StatusMsg,
		IsError:  m.StatusIsErr,
	}
	if c, ok := m.Selector.Current(); ok {
		bar.Chapter = c.MenuLabel()
	}
	bar.Duration = m.endSecond()
	return bar.Render(m.Width)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `CHAPTERS                        PLAYBACK
  j/k        Up/down               Enter  Play chapter
  g/Home     First chapter         n/l    Next chapter
  G/End      Last chapter          p/h    Previous chapter
  PgUp/PgDn  Scroll page           Space  Pause/resume
  Ctrl+u/d   Scroll half page
  J/K        Scroll description

SEARCH                          OTHER
  /          Filter menu           q      Quit
  f          Jump to chapter       ?      This help
  Esc        Clear filter

Press any key to return...
`

	title := styles.ModalTitleStyle.Render("reel keys")
	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, help)))
}
