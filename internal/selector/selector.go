// Package selector tracks the current chapter and keeps the player and
// display in step with playback time and manual selections.
//
// A Selector is not safe for concurrent use. It expects to be driven from a
// single event loop, one call at a time.
package selector

import (
	"log/slog"
	"math"

	"github.com/mmcdole/reel/internal/chapters"
	"github.com/mmcdole/reel/internal/domain"
)

// State is the selector's lifecycle state
type State int

const (
	StateUninitialized State = iota // no current chapter
	StateActive                     // a current chapter is set
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Selector maps playback time to chapters and performs selection side effects.
type Selector struct {
	set     *chapters.Set
	player  domain.Player
	display domain.Display
	logger  *slog.Logger

	current      *domain.Chapter
	lastSecond   int
	haveReported bool
}

// New creates a selector over set. The player and display receive the
// side effects of every selection.
func New(set *chapters.Set, player domain.Player, display domain.Display, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	if set == nil {
		set, _ = chapters.Build(nil)
	}
	return &Selector{
		set:     set,
		player:  player,
		display: display,
		logger:  logger,
	}
}

// State returns whether a chapter is current
func (s *Selector) State() State {
	if s.current == nil {
		return StateUninitialized
	}
	return StateActive
}

// Current returns the current chapter
func (s *Selector) Current() (domain.Chapter, bool) {
	if s.current == nil {
		return domain.Chapter{}, false
	}
	return *s.current, true
}

// Chapters returns every chapter, for building the menu
func (s *Selector) Chapters() []domain.Chapter {
	return s.set.All()
}

// Set returns the underlying chapter set
func (s *Selector) Set() *chapters.Set {
	return s.set
}

// LastReported returns the last second passed to ReportTime
func (s *Selector) LastReported() (int, bool) {
	return s.lastSecond, s.haveReported
}

// ReportTime feeds a playback position, in whole seconds, to the selector.
// Repeated reports of the same second are ignored.
func (s *Selector) ReportTime(second int) {
	if s.haveReported && s.lastSecond == second {
		return
	}
	s.lastSecond = second
	s.haveReported = true

	if s.current == nil {
		c, ok := s.set.AtTime(second)
		if !ok {
			s.logger.Debug("no chapter at time", "second", second)
			return
		}
		s.logger.Debug("initial chapter found by time", "second", second, "order", c.Order)
		s.selectChapter(c)
		return
	}

	current := *s.current
	if current.Contains(second) {
		return
	}

	if last, ok := s.set.Last(); ok && float64(second) >= last.End {
		if current.ID != last.ID {
			s.logger.Debug("time past last chapter", "second", second, "lastEnd", last.End)
			s.selectChapter(last)
		}
		return
	}

	if next, ok := s.set.ByOrder(current.Order + 1); ok && next.Contains(second) {
		s.logger.Debug("advancing to next chapter", "from", current.Order, "to", next.Order)
		s.selectChapter(next)
		return
	}

	c, ok := s.set.AtTime(second)
	if !ok {
		s.logger.Debug("time in coverage gap, keeping current chapter", "second", second, "order", current.Order)
		return
	}
	s.logger.Debug("chapter found by search", "second", second, "order", c.Order)
	s.selectChapter(c)
}

// Select makes the chapter with the given id current, as a manual action.
// Re-selecting the current chapter repeats the side effects. Unknown ids are
// ignored and reported as false.
func (s *Selector) Select(id string) bool {
	c, ok := s.set.ByID(id)
	if !ok {
		s.logger.Debug("ignoring selection of unknown chapter", "id", id)
		return false
	}
	s.logger.Debug("chapter selected manually", "id", id, "order", c.Order)
	s.selectChapter(c)
	return true
}

func (s *Selector) selectChapter(c domain.Chapter) {
	s.current = &c

	if s.player != nil {
		pos, err := s.player.Position()
		switch {
		case err != nil:
			s.logger.Warn("failed to read player position", "error", err)
			s.seek(c)
		case int(math.Trunc(pos)) != c.StartSecond():
			s.seek(c)
		}

		if err := s.player.Resume(); err != nil {
			s.logger.Warn("failed to resume playback", "error", err)
		}
	}

	if s.display != nil {
		s.display.Render(c)
		s.display.MarkActive(c.ID)
	}
}

func (s *Selector) seek(c domain.Chapter) {
	if err := s.player.Seek(c.Start); err != nil {
		s.logger.Warn("failed to seek player", "error", err, "id", c.ID, "start", c.Start)
	}
}
