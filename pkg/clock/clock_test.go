package clock

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jwebster45206/adventure-engine/pkg/events"
)

func TestClock(t *testing.T) {
	bus := events.NewBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	overs, changes := 0, 0
	bus.Subscribe(events.GameOver, func(events.Event) { overs++ })
	bus.Subscribe(events.GameTimeChanged, func(events.Event) { changes++ })
	c := New(bus)

	if got := c.String(); got != "23:00:00" {
		t.Errorf("start = %s, want 23:00:00", got)
	}

	c.AddMinutes(5)
	if got := c.String(); got != "23:05:00" {
		t.Errorf("after penalty = %s, want 23:05:00", got)
	}
	c.Advance(500 * time.Millisecond)
	if changes != 1 {
		t.Errorf("sub-second advance published a change: %d", changes)
	}

	c.Advance(2 * time.Hour)
	if !c.Over() || c.String() != "00:00:00" {
		t.Errorf("over=%v time=%s", c.Over(), c.String())
	}
	c.Advance(time.Minute)
	c.AddMinutes(5)
	if overs != 1 {
		t.Errorf("game over published %d times, want 1", overs)
	}
	if c.Remaining() != 0 {
		t.Errorf("remaining = %s", c.Remaining())
	}
}

func TestClock_Restore(t *testing.T) {
	bus := events.NewBus(nil)
	published := 0
	bus.SubscribeAll(func(events.Event) { published++ })
	c := New(bus)

	c.Restore(30*time.Minute + 15*time.Second)
	if c.String() != "23:30:15" || published != 0 {
		t.Errorf("time=%s published=%d", c.String(), published)
	}
	c.Restore(3 * time.Hour)
	if !c.Over() {
		t.Error("restoring past the limit should mark the game over")
	}
}
