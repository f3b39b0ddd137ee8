// Package clock tracks the in-game time, which runs from 23:00 until the
// game ends at midnight.
package clock

import (
	"fmt"
	"time"

	"github.com/jwebster45206/adventure-engine/pkg/events"
)

const (
	// Start is the time of day the game opens at.
	Start = 23 * time.Hour
	// Limit is how much game time passes before midnight.
	Limit = time.Hour
)

// Clock is not safe for concurrent use.
type Clock struct {
	bus     *events.Bus
	elapsed time.Duration
	over    bool
}

func New(bus *events.Bus) *Clock {
	return &Clock{bus: bus}
}

// Restore sets elapsed time without publishing, used when resuming a session.
func (c *Clock) Restore(elapsed time.Duration) {
	c.elapsed = min(max(elapsed, 0), Limit)
	c.over = c.elapsed >= Limit
}

// Advance moves the clock forward by d. Reaching midnight publishes
// GameOver exactly once; afterwards the clock stays frozen.
func (c *Clock) Advance(d time.Duration) {
	if c.over || d <= 0 {
		return
	}
	before := c.elapsed / time.Second
	c.elapsed = min(c.elapsed+d, Limit)
	if c.elapsed/time.Second != before {
		c.bus.Publish(events.TimeChanged{Clock: c.String(), Remaining: int(c.Remaining() / time.Second)})
	}
	if c.elapsed >= Limit {
		c.over = true
		c.bus.Publish(events.Over{Reason: "midnight"})
	}
}

// AddMinutes is a time penalty.
func (c *Clock) AddMinutes(n int) {
	c.Advance(time.Duration(n) * time.Minute)
}

func (c *Clock) Elapsed() time.Duration { return c.elapsed }

func (c *Clock) Remaining() time.Duration { return Limit - c.elapsed }

// Over reports whether midnight has been reached.
func (c *Clock) Over() bool { return c.over }

// String formats the time of day as HH:MM:SS.
func (c *Clock) String() string {
	t := (Start + c.elapsed) % (24 * time.Hour)
	return fmt.Sprintf("%02d:%02d:%02d",
		int(t/time.Hour), int(t%time.Hour/time.Minute), int(t%time.Minute/time.Second))
}
