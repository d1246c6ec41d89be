package player

import (
	"sync"
	"time"

	"github.com/mmcdole/reel/internal/domain"
)

// Clock is a player without media: its position advances with wall time
// while playing. It backs simulated runs and tests.
type Clock struct {
	mu        sync.Mutex
	now       func() time.Time
	base      float64 // position when startedAt was taken
	startedAt time.Time
	playing   bool
	duration  float64 // 0 = unbounded
}

// NewClock returns a paused clock at position 0
func NewClock(duration float64) *Clock {
	return &Clock{now: time.Now, duration: duration}
}

func (c *Clock) position() float64 {
	pos := c.base
	if c.playing {
		pos += c.now().Sub(c.startedAt).Seconds()
	}
	return c.clamp(pos)
}

func (c *Clock) clamp(pos float64) float64 {
	if pos < 0 {
		return 0
	}
	if c.duration > 0 && pos > c.duration {
		return c.duration
	}
	return pos
}

func (c *Clock) Position() (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position(), nil
}

func (c *Clock) Seek(seconds float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = c.clamp(seconds)
	c.startedAt = c.now()
	return nil
}

func (c *Clock) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing {
		c.startedAt = c.now()
		c.playing = true
	}
	return nil
}

func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = c.position()
	c.playing = false
}

// TogglePause flips between playing and paused
func (c *Clock) TogglePause() error {
	c.mu.Lock()
	playing := c.playing
	c.mu.Unlock()
	if playing {
		c.Pause()
		return nil
	}
	return c.Resume()
}

func (c *Clock) Paused() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.playing, nil
}

// Duration returns the clock's bound, 0 when unbounded
func (c *Clock) Duration() (float64, error) {
	return c.duration, nil
}

var _ domain.Player = (*Clock)(nil)
