package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/chapters"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/player"
	"github.com/mmcdole/reel/internal/search"
	"github.com/mmcdole/reel/internal/selector"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/tui/components"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateWatching ApplicationState = iota
	StateJumping
	StateHelp
)

const (
	// Vertical layout: single footer line
	ChromeHeight = 1

	MinMenuWidth = 20

	// saveEvery is how far playback moves before the resume position is persisted
	saveEvery = 10

	// finishMargin is how close to the end playback counts as finished
	finishMargin = 5
)

// Options configures the TUI
type Options struct {
	Title        string        // menu title, usually the media file name
	MediaPath    string        // key for resume positions, empty to disable
	PollInterval time.Duration // how often the player position is read
	ShowContent  bool
	MenuWidth    int
	Notice       string // status shown at start-up, e.g. rejected records
}

// pauser is implemented by players that can toggle pause
type pauser interface {
	TogglePause() error
	Paused() (bool, error)
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Collaborators
	Selector *selector.Selector
	Player   domain.Player
	Playback *service.PlaybackService // nil disables resume positions
	Process  *player.Process          // nil when the player was not launched by us

	// UI Components
	Menu      *components.ChapterMenu
	Pane      *components.ChapterPane
	JumpInput textinput.Model

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
	Position    float64
	Duration    float64 // media length reported by the player, 0 until known

	opts      Options
	lastSaved int
	selectGen int // bumped by every manual selection
	playerErr error
	logger    *slog.Logger
}

// NewModel creates the application model and the selector it drives.
// The selector's display is the model's own menu and pane.
func NewModel(set *chapters.Set, p domain.Player, playback *service.PlaybackService, proc *player.Process, opts Options, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	if set == nil {
		set, _ = chapters.Build(nil)
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 250 * time.Millisecond
	}
	if opts.MenuWidth < MinMenuWidth {
		opts.MenuWidth = MinMenuWidth
	}
	if opts.Title == "" {
		opts.Title = "Chapters"
	}

	menu := components.NewChapterMenu(opts.Title, set.All())
	pane := components.NewChapterPane(opts.ShowContent)

	ti := textinput.New()
	ti.Placeholder = "chapter title..."
	ti.Prompt = "jump: "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	m := Model{
		State:     StateWatching,
		Selector:  selector.New(set, p, chapterDisplay{menu: menu, pane: pane}, logger),
		Player:    p,
		Playback:  playback,
		Process:   proc,
		Menu:      menu,
		Pane:      pane,
		JumpInput: ti,
		StatusMsg: opts.Notice,
		opts:      opts,
		lastSaved: -1,
		logger:    logger,
	}
	if set.Len() == 0 && m.StatusMsg == "" {
		m.StatusMsg = "No chapters loaded"
	}
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.pollCmd(),
		WaitPlayerCmd(m.Process),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case PositionMsg:
		return m.handlePosition(msg)

	case PlayerExitedMsg:
		if msg.Err != nil {
			m.logger.Info("player exited", "error", msg.Err)
		}
		m.persistOnExit()
		return m, tea.Quit

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Forward remaining messages (e.g. cursor blink) to the focused input
	var cmd tea.Cmd
	switch {
	case m.State == StateJumping:
		m.JumpInput, cmd = m.JumpInput.Update(msg)
	case m.Menu.IsFilterTyping():
		cmd = m.Menu.Update(msg)
	}
	return m, cmd
}

// pollCmd schedules the next position read under the current selection generation
func (m Model) pollCmd() tea.Cmd {
	return PollPositionCmd(m.Player, m.opts.PollInterval, m.selectGen, m.Duration <= 0)
}

// handlePosition feeds one player poll to the selector
func (m Model) handlePosition(msg PositionMsg) (tea.Model, tea.Cmd) {
	next := m.pollCmd()

	// Read before a manual selection seeked the player
	if msg.Gen != m.selectGen {
		return m, next
	}

	if msg.Err != nil {
		// No file loaded yet is routine while mpv starts
		if errors.Is(msg.Err, player.ErrPropertyUnavailable) {
			return m, next
		}
		if m.playerErr == nil || m.playerErr.Error() != msg.Err.Error() {
			m.logger.Warn("failed to read player position", "error", msg.Err)
			m.StatusMsg = "Player: " + msg.Err.Error()
			m.StatusIsErr = true
		}
		m.playerErr = msg.Err
		return m, next
	}

	if m.playerErr != nil {
		m.playerErr = nil
		m.StatusMsg = ""
		m.StatusIsErr = false
	}

	if msg.Duration > 0 {
		m.Duration = msg.Duration
	}
	m.Position = msg.Seconds
	m.Selector.ReportTime(int(math.Trunc(msg.Seconds)))
	m.savePosition(false)
	return m, next
}

// savePosition persists the last reported second every saveEvery seconds, or now when forced
func (m *Model) savePosition(force bool) {
	if m.Playback == nil || m.opts.MediaPath == "" {
		return
	}
	second, ok := m.Selector.LastReported()
	if !ok {
		return
	}
	if !force && m.lastSaved >= 0 && abs(second-m.lastSaved) < saveEvery {
		return
	}
	m.Playback.SavePosition(m.opts.MediaPath, second)
	m.lastSaved = second
}

// endSecond is the media length when the player reported one, else the last chapter's end
func (m Model) endSecond() float64 {
	if m.Duration > 0 {
		return m.Duration
	}
	if last, ok := m.Selector.Set().Last(); ok {
		return last.End
	}
	return 0
}

// finished reports whether playback reached the end of the media
func (m Model) finished() bool {
	second, ok := m.Selector.LastReported()
	end := m.endSecond()
	return ok && end > 0 && float64(second) >= end-finishMargin
}

// persistOnExit saves the resume position, or forgets it once playback finished
func (m *Model) persistOnExit() {
	if m.Playback == nil || m.opts.MediaPath == "" {
		return
	}
	if m.finished() {
		m.Playback.ClearPosition(m.opts.MediaPath)
		return
	}
	m.savePosition(true)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		m.State = StateWatching
		return m, nil

	case StateJumping:
		return m.handleJumpKey(msg)
	}

	// Filter typing owns the keyboard except for ctrl+c
	if m.Menu.IsFilterTyping() {
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		return m, m.Menu.Update(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m.quit()

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.Menu.IsFiltering() {
			m.Menu.ClearFilter()
		}
		return m, nil

	case key.Matches(msg, Keys.Filter):
		m.Menu.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Jump):
		m.State = StateJumping
		m.Menu.SetFocused(false)
		m.JumpInput.SetValue("")
		return m, m.JumpInput.Focus()

	case key.Matches(msg, Keys.Select):
		if c, ok := m.Menu.SelectedChapter(); ok {
			return m.selectChapter(c)
		}
		return m, nil

	case key.Matches(msg, Keys.Next):
		return m.step(1)

	case key.Matches(msg, Keys.Prev):
		return m.step(-1)

	case key.Matches(msg, Keys.TogglePause):
		p, ok := m.Player.(pauser)
		if !ok {
			return m, nil
		}
		if err := p.TogglePause(); err != nil {
			m.StatusMsg = "Pause failed: " + err.Error()
			m.StatusIsErr = true
			return m, nil
		}
		paused, err := p.Paused()
		if err != nil {
			return m, nil
		}
		m.StatusMsg = "Playing"
		if paused {
			m.StatusMsg = "Paused"
		}
		m.StatusIsErr = false
		return m, ClearStatusCmd(2 * time.Second)

	case key.Matches(msg, components.PaneKeys.ScrollUp, components.PaneKeys.ScrollDown):
		return m, m.Pane.Update(msg)
	}

	// Everything else is menu navigation
	return m, m.Menu.Update(msg)
}

// handleJumpKey drives the jump prompt
func (m Model) handleJumpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.State = StateWatching
		m.Menu.SetFocused(true)
		m.JumpInput.Blur()
		return m, nil

	case tea.KeyEnter:
		query := m.JumpInput.Value()
		m.State = StateWatching
		m.Menu.SetFocused(true)
		m.JumpInput.Blur()

		c, ok := search.Best(m.Selector.Set(), query)
		if !ok {
			m.StatusMsg = fmt.Sprintf("No chapter matches %q", query)
			m.StatusIsErr = true
			return m, ClearStatusCmd(3 * time.Second)
		}
		return m.selectChapter(c)

	case tea.KeyCtrlC:
		return m.quit()
	}

	var cmd tea.Cmd
	m.JumpInput, cmd = m.JumpInput.Update(msg)
	return m, cmd
}

// selectChapter performs a manual selection
func (m Model) selectChapter(c domain.Chapter) (tea.Model, tea.Cmd) {
	if !m.Selector.Select(c.ID) {
		return m, nil
	}
	m.selectGen++
	m.Position = c.Start
	m.StatusMsg = "Playing " + c.MenuLabel()
	m.StatusIsErr = false
	return m, ClearStatusCmd(2 * time.Second)
}

// step selects the chapter delta entries away from the current one
func (m Model) step(delta int) (tea.Model, tea.Cmd) {
	set := m.Selector.Set()
	all := m.Selector.Chapters()
	if len(all) == 0 {
		return m, nil
	}

	idx := 0
	if current, ok := m.Selector.Current(); ok {
		idx = set.IndexOf(current.ID) + delta
	} else if delta < 0 {
		idx = len(all) - 1
	}
	if idx < 0 || idx >= len(all) {
		return m, nil
	}
	return m.selectChapter(all[idx])
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.persistOnExit()
	return m, tea.Quit
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := m.Height - ChromeHeight
	menuWidth := min(m.opts.MenuWidth, max(m.Width/2, MinMenuWidth))

	m.Menu.SetSize(menuWidth, contentHeight)
	m.Pane.SetSize(max(m.Width-menuWidth, 0), contentHeight)
}

// Run starts the Bubble Tea program
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
