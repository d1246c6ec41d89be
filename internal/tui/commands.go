package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/player"
)

// Command factories for async operations

// durationReader is implemented by players that know the media length
type durationReader interface {
	Duration() (float64, error)
}

// PollPositionCmd reads the player position after interval, and the media
// length too when withDuration is set and the player can report it
func PollPositionCmd(p domain.Player, interval time.Duration, gen int, withDuration bool) tea.Cmd {
	if p == nil {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		seconds, err := p.Position()
		msg := PositionMsg{Seconds: seconds, Gen: gen, Err: err}
		if d, ok := p.(durationReader); ok && withDuration && err == nil {
			if duration, err := d.Duration(); err == nil {
				msg.Duration = duration
			}
		}
		return msg
	})
}

// WaitPlayerCmd reports when the player process exits
func WaitPlayerCmd(proc *player.Process) tea.Cmd {
	if proc == nil {
		return nil
	}
	return func() tea.Msg {
		return PlayerExitedMsg{Err: proc.Wait()}
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
