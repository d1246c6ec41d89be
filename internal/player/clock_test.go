package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTime struct{ t time.Time }

func (f *fakeTime) now() time.Time          { return f.t }
func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestClock(duration float64) (*Clock, *fakeTime) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	c := NewClock(duration)
	c.now = ft.now
	return c, ft
}

func TestClock_AdvancesOnlyWhilePlaying(t *testing.T) {
	c, ft := newTestClock(0)

	ft.advance(5 * time.Second)
	pos, _ := c.Position()
	assert.Equal(t, 0.0, pos, "paused clock does not move")

	c.Resume()
	ft.advance(3 * time.Second)
	pos, _ = c.Position()
	assert.InDelta(t, 3.0, pos, 1e-9)

	c.Pause()
	ft.advance(10 * time.Second)
	pos, _ = c.Position()
	assert.InDelta(t, 3.0, pos, 1e-9)
}

func TestClock_SeekWhilePlaying(t *testing.T) {
	c, ft := newTestClock(0)
	c.Resume()
	ft.advance(2 * time.Second)

	c.Seek(60)
	ft.advance(1500 * time.Millisecond)

	pos, _ := c.Position()
	assert.InDelta(t, 61.5, pos, 1e-9)
}

func TestClock_ClampsToDuration(t *testing.T) {
	c, ft := newTestClock(30)
	c.Seek(-4)
	pos, _ := c.Position()
	assert.Equal(t, 0.0, pos)

	c.Resume()
	ft.advance(45 * time.Second)
	pos, _ = c.Position()
	assert.Equal(t, 30.0, pos)
}

func TestClock_TogglePause(t *testing.T) {
	c, _ := newTestClock(0)
	assert.True(t, paused(t, c))
	c.TogglePause()
	assert.False(t, paused(t, c))
	c.TogglePause()
	assert.True(t, paused(t, c))
}

func paused(t *testing.T, c *Clock) bool {
	t.Helper()
	p, err := c.Paused()
	require.NoError(t, err)
	return p
}

func TestClock_Duration(t *testing.T) {
	d, err := NewClock(260).Duration()
	require.NoError(t, err)
	assert.Equal(t, 260.0, d)
}
