package scene

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/inventory"
	"github.com/jwebster45206/adventure-engine/pkg/sequence"
	"github.com/jwebster45206/adventure-engine/pkg/storage"
)

const saveTimeout = 5 * time.Second

// ClickFunc handles a click on a hotspot.
type ClickFunc func(ctx context.Context) error

// Base implements the parts of Scene every location shares. Concrete scenes
// embed it, register hotspots in their constructor and call Load from
// Enter.
type Base struct {
	Deps

	name       string
	log        *slog.Logger
	flags      Flags
	firstVisit bool
	background string

	order    []string
	hotspots map[string]*Hotspot
	handlers map[string]ClickFunc
	refresh  func()
	ready    bool

	ctx    context.Context
	cancel context.CancelFunc
	subs   []events.Subscription
	chains []*sequence.Chain
}

func NewBase(deps Deps, name string) *Base {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Base{
		Deps:     deps,
		name:     name,
		log:      deps.Logger.With("scene", name),
		flags:    NewFlags(),
		hotspots: make(map[string]*Hotspot),
		handlers: make(map[string]ClickFunc),
		ready:    true,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (b *Base) Name() string { return b.name }

func (b *Base) Logger() *slog.Logger { return b.log }

// Context is cancelled when the scene is left.
func (b *Base) Context() context.Context { return b.ctx }

// Active reports whether the scene has not been left yet.
func (b *Base) Active() bool { return b.ctx.Err() == nil }

// Load restores persisted flags. A missing record is a first visit; so is
// a record that cannot be decoded, which is logged and replaced.
func (b *Base) Load(ctx context.Context) {
	b.flags = NewFlags()
	b.firstVisit = true
	if b.Store == nil {
		b.Refresh()
		return
	}

	data, err := b.Store.LoadSceneState(ctx, b.SessionID, b.name)
	switch {
	case err != nil:
		b.log.Error("failed to load scene state", "error", err)
	case data == nil:
	default:
		flags, err := DecodeFlags(data)
		if errors.Is(err, storage.ErrCorruptState) {
			b.log.Warn("stored scene state is corrupt, starting fresh", "error", err)
			break
		}
		b.flags = flags
		b.firstVisit = false
	}
	b.Refresh()
}

// FirstVisit reports whether no usable state was stored for this scene.
func (b *Base) FirstVisit() bool { return b.firstVisit }

// Flags returns a copy of the current flags.
func (b *Base) Flags() Flags { return b.flags.Clone() }

// State exposes the live flags to the embedding scene. Callers must Save
// after mutating.
func (b *Base) State() *Flags { return &b.flags }

// Save writes the flags through to the store and refreshes hotspot gating.
// Store failures are logged; play continues with the in-memory state.
func (b *Base) Save() {
	b.Refresh()
	if b.Store == nil {
		return
	}
	data, err := b.flags.Encode()
	if err != nil {
		b.log.Error("failed to encode scene state", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(b.ctx), saveTimeout)
	defer cancel()
	if err := b.Store.SaveSceneState(ctx, b.SessionID, b.name, data); err != nil {
		b.log.Error("failed to save scene state", "error", err)
	}
}

// Mark sets a flag and saves when it changed.
func (b *Base) Mark(flag string) {
	if b.flags.Mark(flag) {
		b.Save()
	}
}

// OnRefresh installs the function that derives hotspot state from flags.
func (b *Base) OnRefresh(fn func()) { b.refresh = fn }

// Refresh re-applies hotspot gating.
func (b *Base) Refresh() {
	if b.refresh != nil {
		b.refresh()
	}
}

func (b *Base) Background() string { return b.background }

func (b *Base) SetBackground(bg string) { b.background = bg }

// AddHotspot registers a clickable region and its handler.
func (b *Base) AddHotspot(h Hotspot, fn ClickFunc) {
	if _, ok := b.hotspots[h.ID]; !ok {
		b.order = append(b.order, h.ID)
	}
	hs := h
	b.hotspots[h.ID] = &hs
	b.handlers[h.ID] = fn
}

func (b *Base) SetEnabled(id string, enabled bool) {
	if h, ok := b.hotspots[id]; ok {
		h.Enabled = enabled
	}
}

func (b *Base) SetVisible(id string, visible bool) {
	if h, ok := b.hotspots[id]; ok {
		h.Visible = visible
	}
}

// SetCollected hides and disables a collectible once collected.
func (b *Base) SetCollected(id string, collected bool) {
	b.SetEnabled(id, !collected)
	b.SetVisible(id, !collected)
}

// Hotspot returns the effective state of one hotspot.
func (b *Base) Hotspot(id string) (Hotspot, bool) {
	h, ok := b.hotspots[id]
	if !ok {
		return Hotspot{}, false
	}
	out := *h
	out.Enabled = out.Enabled && b.ready
	return out, true
}

// Hotspots lists every hotspot in registration order with gating applied.
func (b *Base) Hotspots() []Hotspot {
	out := make([]Hotspot, 0, len(b.order))
	for _, id := range b.order {
		h, _ := b.Hotspot(id)
		out = append(out, h)
	}
	return out
}

// SetReady toggles every hotspot at once, independent of their own state.
func (b *Base) SetReady(ready bool) { b.ready = ready }

func (b *Base) Ready() bool { return b.ready }

// Click dispatches to the hotspot's handler.
func (b *Base) Click(ctx context.Context, id string) error {
	h, ok := b.Hotspot(id)
	if !ok {
		return ErrUnknownHotspot
	}
	if !h.Interactive() {
		return ErrHotspotDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b.log.Debug("hotspot clicked", "hotspot", id)
	return b.handlers[id](b.ctx)
}

// Leave tears the scene down: it cancels the liveness context, stops every
// chain the scene started and drops its subscriptions.
func (b *Base) Leave() {
	if !b.Active() {
		return
	}
	b.cancel()
	for _, c := range b.chains {
		c.Cancel()
	}
	b.chains = nil
	for _, sub := range b.subs {
		b.Bus.Unsubscribe(sub)
	}
	b.subs = nil
	b.log.Debug("scene left")
}

// On subscribes fn for the lifetime of the scene.
func (b *Base) On(name events.Name, fn events.Handler) {
	sub := b.Bus.Subscribe(name, func(evt events.Event) {
		if b.Active() {
			fn(evt)
		}
	})
	b.subs = append(b.subs, sub)
}

// Chain runs steps bound to the scene's lifetime.
func (b *Base) Chain(name string, steps ...sequence.Step) *sequence.Chain {
	return b.ChainWith(name, steps)
}

// ChainWith is Chain with runner options.
func (b *Base) ChainWith(name string, steps []sequence.Step, opts ...sequence.Option) *sequence.Chain {
	live := b.chains[:0]
	for _, c := range b.chains {
		if !c.Done() {
			live = append(live, c)
		}
	}
	b.chains = live
	c := b.Runner.Run(b.ctx, b.name+"/"+name, steps, opts...)
	if !c.Done() {
		b.chains = append(b.chains, c)
	}
	return c
}

// Play loads and starts a dialogue. Failures are logged by the sequencer
// and leave the dialogue idle.
func (b *Base) Play(script, section string) {
	_ = b.Dialogue.Play(b.ctx, script, section)
}

// Item looks an item up in the catalog.
func (b *Base) Item(id string) inventory.Item {
	if b.Items == nil {
		return inventory.Item{ID: id}
	}
	return b.Items.Item(id)
}

// Say publishes an inline line.
func (b *Base) Say(speaker, text string) {
	b.Bus.Publish(events.Inline{Speaker: speaker, Text: text})
}

// Publish forwards evt to the bus while the scene is active.
func (b *Base) Publish(evt events.Event) {
	if b.Active() {
		b.Bus.Publish(evt)
	}
}

// Chance returns true with probability p.
func (b *Base) Chance(p float64) bool { return b.Rand.Float64() < p }

// GoTo navigates to another scene.
func (b *Base) GoTo(scene string) error {
	if b.Navigator == nil {
		return errors.New("no navigator configured")
	}
	return b.Navigator.Navigate(context.WithoutCancel(b.ctx), scene)
}

// IntroGate plays a one-time introduction with every hotspot disabled,
// enabling them once it ends. When the intro was already shown, hotspots
// are enabled straight away.
func (b *Base) IntroGate(flag, script, section string) {
	if b.flags.Is(flag) {
		b.SetReady(true)
		return
	}
	b.SetReady(false)
	b.Mark(flag)
	b.ChainWith("intro", []sequence.Step{b.PlayStep(script, section)},
		sequence.WithOnDone(func(err error) {
			if b.Active() {
				b.SetReady(true)
			}
		}))
}

// PlayStep plays a dialogue and waits for it to end.
func (b *Base) PlayStep(script, section string) sequence.Step {
	name := script
	if section != "" {
		name += "/" + section
	}
	return sequence.Step{
		Name:  "play " + name,
		Do:    func(ctx context.Context) error { return b.Dialogue.Play(ctx, script, section) },
		Await: events.DialogueEnded,
	}
}

// AcquireStep announces an item pickup and waits for the presentation
// layer to finish it.
func (b *Base) AcquireStep(item inventory.Item) sequence.Step {
	return sequence.Step{
		Name: "acquire " + item.ID,
		Do: func(context.Context) error {
			b.Bus.Publish(events.Acquired{Item: item})
			return nil
		},
		Await: events.ItemAcquisitionComplete,
		Match: func(evt events.Event) bool {
			return evt.(events.AcquisitionComplete).Item.ID == item.ID
		},
	}
}

// DoStep wraps a plain action.
func (b *Base) DoStep(name string, fn func()) sequence.Step {
	return sequence.Step{
		Name: name,
		Do: func(context.Context) error {
			fn()
			return nil
		},
	}
}

// EmitStep publishes evt and optionally waits for await.
func (b *Base) EmitStep(evt events.Event, await events.Name) sequence.Step {
	return sequence.Step{
		Name: "emit " + string(evt.EventName()),
		Do: func(context.Context) error {
			b.Bus.Publish(evt)
			return nil
		},
		Await: await,
	}
}

// Ask shows choices and hands the answer to fn.
func (b *Base) Ask(name string, choices events.Choices, fn func(events.Chosen)) *sequence.Chain {
	return b.Chain(name,
		b.EmitStep(choices, events.ChoiceMade),
		sequence.Step{
			Name: "answer",
			Do: func(ctx context.Context) error {
				if evt, ok := sequence.LastEvent(ctx); ok {
					fn(evt.(events.Chosen))
				}
				return nil
			},
		},
	)
}

// Door navigates to target when key is held (or key is empty), otherwise
// plays the locked dialogue.
func (b *Base) Door(key, target, lockedScript, lockedSection string) ClickFunc {
	return func(context.Context) error {
		if key != "" && !b.Inventory.Has(key) {
			b.Play(lockedScript, lockedSection)
			return nil
		}
		return b.GoTo(target)
	}
}
