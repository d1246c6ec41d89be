package domain

// Player is the playback capability the selector drives.
// Positions are seconds from the start of the media.
type Player interface {
	// Position returns the current playback position
	Position() (float64, error)

	// Seek moves playback to the given position
	Seek(seconds float64) error

	// Resume continues playback if paused
	Resume() error
}

// Display renders the selected chapter and its menu highlight.
// Implementations must keep exactly one entry active.
type Display interface {
	// Render shows the chapter's title and content
	Render(c Chapter)

	// MarkActive highlights the menu entry with the given id and clears the rest
	MarkActive(id string)
}
