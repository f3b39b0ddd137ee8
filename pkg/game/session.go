// Package game wires one playthrough: the services every scene shares,
// navigation between freshly built scenes, the presentation state the
// client has to render, and the snapshot that lets a session resume.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/adventure-engine/internal/content"
	"github.com/jwebster45206/adventure-engine/internal/house"
	"github.com/jwebster45206/adventure-engine/pkg/clock"
	"github.com/jwebster45206/adventure-engine/pkg/combination"
	"github.com/jwebster45206/adventure-engine/pkg/dialogue"
	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/interaction"
	"github.com/jwebster45206/adventure-engine/pkg/inventory"
	"github.com/jwebster45206/adventure-engine/pkg/scene"
	"github.com/jwebster45206/adventure-engine/pkg/sequence"
	"github.com/jwebster45206/adventure-engine/pkg/storage"
)

var (
	ErrUnknownScene    = errors.New("unknown scene")
	ErrUnknownHotspot  = scene.ErrUnknownHotspot
	ErrHotspotDisabled = scene.ErrHotspotDisabled
	ErrGameOver        = errors.New("game is over")
	ErrBusy            = errors.New("waiting for the player to finish the current prompt")
	ErrInvalidCommand  = errors.New("invalid command")
	ErrNotHeld         = errors.New("item not in inventory")
)

const snapshotTimeout = 5 * time.Second

// SceneFactory builds one activation of a named scene.
type SceneFactory func(name string, deps scene.Deps) (scene.Scene, error)

// Options configure a session. Content and Dialogues are required.
type Options struct {
	Content   *content.Content
	Dialogues dialogue.Loader
	Store     storage.Storage
	Logger    *slog.Logger
	// AutoPresent completes item acquisitions immediately instead of
	// waiting for the client to report that the pickup was shown.
	AutoPresent bool
	// Scenes overrides the house's scene table.
	Scenes SceneFactory
	Rand   *rand.Rand
	// Observer sees every event published in the session.
	Observer events.Handler
	Now      func() time.Time
	// IdleTimeout is how long a Manager keeps an unused session in memory.
	// Zero keeps sessions until they are deleted.
	IdleTimeout time.Duration
	// LiveSessions is told +1 when a Manager loads a session and -1 when
	// it lets one go.
	LiveSessions func(delta int)
}

// Session is one playthrough. All methods are safe for concurrent use;
// commands are serialized.
type Session struct {
	mu sync.Mutex

	id      uuid.UUID
	opts    Options
	log     *slog.Logger
	created time.Time
	saved   time.Time

	bus          *events.Bus
	seq          *dialogue.Sequencer
	inv          *inventory.Inventory
	sel          *inventory.Selection
	interactions *interaction.Resolver
	combinations *combination.Resolver
	runner       *sequence.Runner
	clock        *clock.Clock
	deps         scene.Deps

	current scene.Scene
	desk    *desk

	ctx    context.Context
	cancel context.CancelFunc
}

func (o *Options) defaults() error {
	if o.Content == nil {
		return errors.New("game: content is required")
	}
	if o.Dialogues == nil {
		return errors.New("game: dialogue loader is required")
	}
	if o.Store == nil {
		o.Store = storage.NewMockStorage()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Scenes == nil {
		o.Scenes = house.New
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return nil
}

func newSession(id uuid.UUID, opts Options) (*Session, error) {
	if err := opts.defaults(); err != nil {
		return nil, err
	}
	log := opts.Logger.With("session_id", id.String())
	bus := events.NewBus(log)
	if opts.Observer != nil {
		bus.SubscribeAll(opts.Observer)
	}

	s := &Session{
		id:      id,
		opts:    opts,
		log:     log,
		created: opts.Now(),
		bus:     bus,
		seq:     dialogue.NewSequencer(opts.Dialogues, bus, log),
		inv:     inventory.New(),
		sel:     inventory.NewSelection(),
		runner:  sequence.NewRunner(bus, log),
		clock:   clock.New(bus),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.interactions = interaction.NewResolver(bus, s.inv, s.sel, log)
	s.interactions.Add(opts.Content.InteractionRecords()...)
	s.interactions.SetNoEffect(opts.Content.NoEffectLine())
	s.combinations = combination.NewResolver(bus, s.inv, s.sel, s.runner, log)
	s.combinations.Add(s.recipes()...)

	s.desk = newDesk(s)
	s.deps = scene.Deps{
		SessionID:    id,
		Bus:          bus,
		Dialogue:     s.seq,
		Inventory:    s.inv,
		Selection:    s.sel,
		Interactions: s.interactions,
		Combinations: s.combinations,
		Runner:       s.runner,
		Clock:        s.clock,
		Store:        opts.Store,
		Items:        opts.Content,
		Navigator:    scene.NavigatorFunc(s.navigate),
		Logger:       log,
		Rand:         sessionRand(opts.Rand),
	}
	return s, nil
}

var seedMu sync.Mutex

// sessionRand derives a per-session generator from the shared source.
func sessionRand(src *rand.Rand) *rand.Rand {
	seedMu.Lock()
	defer seedMu.Unlock()
	return rand.New(rand.NewPCG(src.Uint64(), src.Uint64()))
}

// recipes turns the content recipes into resolver recipes. A recipe's
// dialogue becomes its side-effect chain.
func (s *Session) recipes() []combination.Recipe {
	var out []combination.Recipe
	for _, spec := range s.opts.Content.Recipes {
		rec := combination.Recipe{
			Ingredients: [2]string{spec.Ingredients[0], spec.Ingredients[1]},
			KeepItems:   spec.Keep,
		}
		if spec.Result != "" {
			item := s.opts.Content.Item(spec.Result)
			rec.Result = &item
		}
		if d := spec.Dialogue; d != nil {
			rec.OnCombine = []sequence.Step{{
				Name:  "play " + d.Script,
				Do:    func(ctx context.Context) error { return s.seq.Play(ctx, d.Script, d.Section) },
				Await: events.DialogueEnded,
			}}
		}
		out = append(out, rec)
	}
	return out
}

// New starts a new game at the first scene.
func New(ctx context.Context, opts Options) (*Session, error) {
	s, err := newSession(uuid.New(), opts)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.opts.Content.Starting() {
		s.inv.Add(item)
	}
	if err := s.navigate(ctx, house.Start); err != nil {
		return nil, err
	}
	s.save(ctx)
	s.log.Info("session started")
	return s, nil
}

// Resume rebuilds a session from its stored snapshot and re-enters the
// scene it was in.
func Resume(ctx context.Context, id uuid.UUID, opts Options) (*Session, error) {
	if err := opts.defaults(); err != nil {
		return nil, err
	}
	snap, err := opts.Store.LoadSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if snap == nil {
		return nil, storage.ErrSessionNotFound
	}

	s, err := newSession(id, opts)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.created = snap.CreatedAt
	s.saved = snap.UpdatedAt
	s.inv.Replace(snap.Inventory)
	s.clock.Restore(time.Duration(snap.Elapsed) * time.Second)
	s.desk.restore(snap)

	name := snap.Scene
	if name == "" {
		name = house.Start
	}
	if err := s.navigate(ctx, name); err != nil {
		return nil, err
	}
	s.log.Info("session resumed", "scene", name)
	return s, nil
}

func (s *Session) ID() uuid.UUID { return s.id }

// Bus exposes the session's event bus to presentation adapters.
func (s *Session) Bus() *events.Bus { return s.bus }

// navigate leaves the current scene and enters a freshly built one. It
// runs inside a command, so it does not lock.
func (s *Session) navigate(ctx context.Context, name string) error {
	next, err := s.opts.Scenes(name, s.deps)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownScene, name)
	}
	from := ""
	if s.current != nil {
		from = s.current.Name()
		s.current.Leave()
	}
	s.current = next
	s.log.Info("scene changed", "from", from, "to", name)
	s.bus.Publish(events.SceneSwitch{From: from, To: name})
	return next.Enter(ctx)
}

// save writes the session snapshot. Failures are logged; play continues.
func (s *Session) save(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotTimeout)
	defer cancel()
	snap := &storage.Snapshot{
		ID:         s.id,
		Inventory:  s.inv.Items(),
		Pending:    slices.Clone(s.desk.pending),
		Gifts:      s.desk.giftList(),
		Elapsed:    int(s.clock.Elapsed() / time.Second),
		Objectives: s.desk.objectives,
		GameOver:   s.clock.Over(),
		Finished:   s.desk.finished,
		CreatedAt:  s.created,
		UpdatedAt:  s.opts.Now(),
	}
	if s.current != nil {
		snap.Scene = s.current.Name()
	}
	if err := s.opts.Store.SaveSession(ctx, snap); err != nil {
		s.log.Error("failed to save session", "error", err)
		return
	}
	s.saved = snap.UpdatedAt
}

// savedAt is the time of the last snapshot the session wrote or resumed
// from.
func (s *Session) savedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}

// Close leaves the current scene and stops everything the session runs.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Leave()
	}
	s.cancel()
	s.bus.Clear()
}
