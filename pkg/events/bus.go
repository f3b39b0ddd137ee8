package events

import (
	"fmt"
	"log/slog"
	"sync"
)

// Handler receives a published event.
type Handler func(Event)

// Subscription identifies a registered handler so it can be removed later.
// The zero value is not a valid subscription.
type Subscription struct {
	name Name
	id   uint64
}

// Name reports the event name the subscription listens to.
func (s Subscription) Name() Name { return s.name }

// Valid reports whether s was returned by a Subscribe call.
func (s Subscription) Valid() bool { return s.id != 0 }

type entry struct {
	id      uint64
	fn      Handler
	once    bool
	removed bool
}

// Bus is a synchronous publish/subscribe channel. Publish dispatches over a
// snapshot of the handler list taken when Publish is called, so handlers
// registered during a dispatch are first invoked on the next Publish.
// Handlers removed during a dispatch are skipped for the remainder of it.
type Bus struct {
	mu       sync.Mutex
	handlers map[Name][]*entry
	nextID   uint64
	logger   *slog.Logger
}

// NewBus creates an empty bus. A nil logger falls back to slog.Default.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		handlers: make(map[Name][]*entry),
		logger:   logger,
	}
}

// Subscribe registers fn for every future publish of name.
func (b *Bus) Subscribe(name Name, fn Handler) Subscription {
	return b.add(name, fn, false)
}

// SubscribeOnce registers fn for the next publish of name only.
func (b *Bus) SubscribeOnce(name Name, fn Handler) Subscription {
	return b.add(name, fn, true)
}

// SubscribeAll registers fn for every event regardless of name.
func (b *Bus) SubscribeAll(fn Handler) Subscription {
	return b.add(Any, fn, false)
}

func (b *Bus) add(name Name, fn Handler, once bool) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	e := &entry{id: b.nextID, fn: fn, once: once}
	b.handlers[name] = append(b.handlers[name], e)
	return Subscription{name: name, id: e.id}
}

// Unsubscribe removes the handler behind sub. Unknown or already removed
// subscriptions are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	if !sub.Valid() {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(sub.name, sub.id)
}

func (b *Bus) removeLocked(name Name, id uint64) {
	list := b.handlers[name]
	for i, e := range list {
		if e.id != id {
			continue
		}
		e.removed = true
		list = append(list[:i:i], list[i+1:]...)
		if len(list) == 0 {
			delete(b.handlers, name)
		} else {
			b.handlers[name] = list
		}
		return
	}
}

// Publish invokes the handlers registered for evt's name in registration
// order, followed by the wildcard handlers. A panicking handler is
// recovered and logged; the remaining handlers still run.
func (b *Bus) Publish(evt Event) {
	if evt == nil {
		return
	}
	name := evt.EventName()

	b.mu.Lock()
	snapshot := make([]*entry, 0, len(b.handlers[name])+len(b.handlers[Any]))
	snapshot = append(snapshot, b.handlers[name]...)
	wildcard := len(snapshot)
	if name != Any {
		snapshot = append(snapshot, b.handlers[Any]...)
	}
	b.mu.Unlock()

	for i, e := range snapshot {
		key := name
		if i >= wildcard {
			key = Any
		}
		b.mu.Lock()
		if e.removed {
			b.mu.Unlock()
			continue
		}
		if e.once {
			b.removeLocked(key, e.id)
		}
		b.mu.Unlock()

		b.invoke(name, e.fn, evt)
	}
}

func (b *Bus) invoke(name Name, fn Handler, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"event", string(name),
				"panic", fmt.Sprint(r))
		}
	}()
	fn(evt)
}

// Clear removes every handler for the given names, or all handlers when
// called without arguments.
func (b *Bus) Clear(names ...Name) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(names) == 0 {
		for _, list := range b.handlers {
			for _, e := range list {
				e.removed = true
			}
		}
		b.handlers = make(map[Name][]*entry)
		return
	}
	for _, name := range names {
		for _, e := range b.handlers[name] {
			e.removed = true
		}
		delete(b.handlers, name)
	}
}

// Count returns the number of handlers registered for name.
func (b *Bus) Count(name Name) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[name])
}

// Recorder collects every event published on a bus until stopped. It is
// used to report the events caused by a single command.
type Recorder struct {
	bus    *Bus
	sub    Subscription
	mu     sync.Mutex
	events []Event
}

// Record starts collecting events from b.
func Record(b *Bus) *Recorder {
	r := &Recorder{bus: b}
	r.sub = b.SubscribeAll(func(evt Event) {
		r.mu.Lock()
		r.events = append(r.events, evt)
		r.mu.Unlock()
	})
	return r
}

// Stop detaches the recorder and returns what it collected.
func (r *Recorder) Stop() []Event {
	r.bus.Unsubscribe(r.sub)
	return r.Events()
}

// Events returns a copy of the events collected so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
