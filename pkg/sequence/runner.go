// Package sequence runs ordered chains of actions, each optionally waiting
// for an event before the chain continues.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/adventure-engine/pkg/events"
)

// Step is one link of a chain. Do runs first (it may be nil); if Await is
// set the chain then pauses until an event with that name is published and
// accepted by Match (nil accepts any).
type Step struct {
	Name  string
	Do    func(ctx context.Context) error
	Await events.Name
	Match func(events.Event) bool
}

// Status describes where a chain is in its lifecycle.
type Status int

const (
	Running Status = iota
	Completed
	Failed
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

var ErrCancelled = errors.New("chain cancelled")

// ErrStop returned from a step's Do ends the chain as completed without
// running the remaining steps.
var ErrStop = errors.New("stop chain")

// Runner starts chains against a bus.
type Runner struct {
	bus    *events.Bus
	logger *slog.Logger
}

func NewRunner(bus *events.Bus, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{bus: bus, logger: logger}
}

// Option configures a chain.
type Option func(*Chain)

// WithOnDone registers fn to run once when the chain stops for any reason.
// err is nil for a completed chain.
func WithOnDone(fn func(err error)) Option {
	return func(c *Chain) { c.onDone = fn }
}

// Run starts executing steps immediately and returns the chain handle. The
// chain stops early when ctx is cancelled; the check happens before every
// step and whenever an awaited event arrives.
func (r *Runner) Run(ctx context.Context, name string, steps []Step, opts ...Option) *Chain {
	ctx, cancel := context.WithCancel(ctx)
	c := &Chain{
		name:    name,
		steps:   steps,
		ctx:     ctx,
		cancel:  cancel,
		bus:     r.bus,
		logger:  r.logger.With("chain", name),
		waiting: -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.advance()
	return c
}

// Chain is a running sequence of steps.
type Chain struct {
	name   string
	steps  []Step
	ctx    context.Context
	cancel context.CancelFunc
	bus    *events.Bus
	logger *slog.Logger
	onDone func(error)

	next    int
	waiting int
	sub     events.Subscription
	inStep  bool
	arrived bool
	last    events.Event
	status  Status
	err     error
}

func (c *Chain) advance() {
	for c.next < len(c.steps) {
		if err := c.ctx.Err(); err != nil {
			c.finish(Cancelled, err)
			return
		}
		idx := c.next
		step := c.steps[idx]
		c.next++

		if step.Await != "" {
			c.waiting = idx
			c.arrived = false
			c.sub = c.bus.Subscribe(step.Await, c.handler(idx, step))
		}
		if step.Do != nil {
			c.inStep = true
			err := step.Do(withLast(c.ctx, c.last))
			c.inStep = false
			if c.status != Running {
				return
			}
			if errors.Is(err, ErrStop) {
				c.bus.Unsubscribe(c.sub)
				c.finish(Completed, nil)
				return
			}
			if err != nil {
				c.bus.Unsubscribe(c.sub)
				c.finish(Failed, fmt.Errorf("step %q: %w", step.Name, err))
				return
			}
		}
		if step.Await == "" || c.arrived {
			continue
		}
		return
	}
	c.finish(Completed, nil)
}

func (c *Chain) handler(idx int, step Step) events.Handler {
	return func(evt events.Event) {
		if c.status != Running || c.waiting != idx {
			return
		}
		if err := c.ctx.Err(); err != nil {
			c.bus.Unsubscribe(c.sub)
			c.finish(Cancelled, err)
			return
		}
		if step.Match != nil && !step.Match(evt) {
			return
		}
		c.bus.Unsubscribe(c.sub)
		c.sub = events.Subscription{}
		c.waiting = -1
		c.last = evt
		if c.inStep {
			c.arrived = true
			return
		}
		c.advance()
	}
}

func (c *Chain) finish(status Status, err error) {
	if c.status != Running {
		return
	}
	c.status = status
	c.err = err
	c.cancel()
	switch status {
	case Failed:
		c.logger.Error("chain failed", "error", err)
	case Cancelled:
		c.logger.Debug("chain cancelled", "step", c.next)
	}
	if c.onDone != nil {
		c.onDone(err)
	}
}

// Cancel stops the chain and removes any pending subscription. Cancelling a
// stopped chain does nothing.
func (c *Chain) Cancel() {
	if c.status != Running {
		return
	}
	c.bus.Unsubscribe(c.sub)
	c.finish(Cancelled, ErrCancelled)
}

func (c *Chain) Name() string { return c.name }

func (c *Chain) Status() Status { return c.status }

func (c *Chain) Err() error { return c.err }

// Done reports whether the chain has stopped.
func (c *Chain) Done() bool { return c.status != Running }

type lastKey struct{}

func withLast(ctx context.Context, evt events.Event) context.Context {
	if evt == nil {
		return ctx
	}
	return context.WithValue(ctx, lastKey{}, evt)
}

// LastEvent returns the event that released the previous waiting step, as
// seen from inside a step's Do.
func LastEvent(ctx context.Context) (events.Event, bool) {
	evt, ok := ctx.Value(lastKey{}).(events.Event)
	return evt, ok
}

// Last returns the most recent awaited event, or nil.
func (c *Chain) Last() events.Event { return c.last }

// Pending names the event the chain is waiting for, or "" when it is not
// waiting.
func (c *Chain) Pending() events.Name {
	if c.status != Running || c.waiting < 0 || c.waiting >= len(c.steps) {
		return ""
	}
	return c.steps[c.waiting].Await
}
