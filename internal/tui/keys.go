package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the application-level key bindings.
// List navigation keys live in components.MenuKeys.
type KeyMap struct {
	Select      key.Binding
	Next        key.Binding
	Prev        key.Binding
	TogglePause key.Binding
	Filter      key.Binding
	Jump        key.Binding
	Help        key.Binding
	Escape      key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play chapter"),
		),
		Next: key.NewBinding(
			key.WithKeys("n", "l", "right"),
			key.WithHelp("n", "next chapter"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p", "h", "left"),
			key.WithHelp("p", "previous chapter"),
		),
		TogglePause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause/resume"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Jump: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "jump to chapter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/clear"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Keys is the global key map instance
var Keys = DefaultKeyMap()
