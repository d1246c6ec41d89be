package tui

// Message types for the TUI

// PositionMsg carries one poll of the player's playback position.
// Gen is the selection generation the poll was scheduled under; a manual
// selection made since then makes the reading stale.
type PositionMsg struct {
	Seconds  float64
	Duration float64 // media length, 0 when not read or unknown
	Gen      int
	Err      error
}

// PlayerExitedMsg signals that the external player process ended
type PlayerExitedMsg struct {
	Err error
}

// ClearStatusMsg clears the status message
type ClearStatusMsg struct{}
