package domain

import (
	"fmt"
	"math"
)

// Chapter is a named, time-bounded segment of a video.
// Start and End are seconds and form the half-open interval [Start, End).
type Chapter struct {
	ID      string
	Order   int
	Start   float64
	End     float64
	Title   string
	Content string
}

// Contains reports whether second falls inside [Start, End)
func (c Chapter) Contains(second int) bool {
	s := float64(second)
	return s >= c.Start && s < c.End
}

// StartSecond returns the chapter start truncated to whole seconds
func (c Chapter) StartSecond() int {
	return int(math.Trunc(c.Start))
}

// Duration returns the length of the chapter in seconds
func (c Chapter) Duration() float64 {
	return c.End - c.Start
}

// MenuLabel returns the text shown for the chapter's menu entry
func (c Chapter) MenuLabel() string {
	if c.Title == "" {
		return fmt.Sprintf("%d", c.Order)
	}
	return fmt.Sprintf("%d. %s", c.Order, c.Title)
}

// FormattedRange returns the interval as "m:ss - m:ss" (hours shown when needed)
func (c Chapter) FormattedRange() string {
	return FormatSeconds(c.Start) + " - " + FormatSeconds(c.End)
}

// FormatSeconds renders a position as h:mm:ss or m:ss
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Record is an unvalidated chapter as read from a metadata source.
// Nil pointers mark fields the source did not provide.
type Record struct {
	ID      string   `json:"id"`
	Order   *int     `json:"order"`
	Start   *float64 `json:"start"`
	End     *float64 `json:"end"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int { return &v }

// FloatPtr returns a pointer to v
func FloatPtr(v float64) *float64 { return &v }
