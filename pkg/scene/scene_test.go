package scene

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/adventure-engine/pkg/dialogue"
	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/inventory"
	"github.com/jwebster45206/adventure-engine/pkg/sequence"
	"github.com/jwebster45206/adventure-engine/pkg/storage"
)

type env struct {
	deps   Deps
	loader *dialogue.MemoryLoader
	store  *storage.MockStorage
	got    []events.Event
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := events.NewBus(logger)
	e := &env{loader: dialogue.NewMemoryLoader(), store: storage.NewMockStorage()}
	bus.SubscribeAll(func(evt events.Event) { e.got = append(e.got, evt) })
	e.deps = Deps{
		SessionID: uuid.New(),
		Bus:       bus,
		Dialogue:  dialogue.NewSequencer(e.loader, bus, logger),
		Inventory: inventory.New(),
		Selection: inventory.NewSelection(),
		Runner:    sequence.NewRunner(bus, logger),
		Store:     e.store,
		Logger:    logger,
		Rand:      rand.New(rand.NewPCG(1, 2)),
	}
	e.loader.PutSection("pantry", "intro", dialogue.Line{Speaker: "jessica", Text: "a pantry"})
	e.loader.PutSection("pantry", "found_jar", dialogue.Line{Speaker: "jessica", Text: "a jar!"})
	e.loader.PutSection("pantry", "jar_label", dialogue.Line{Speaker: "jessica", Text: "it says honey"})
	return e
}

func (e *env) count(name events.Name) int {
	n := 0
	for _, evt := range e.got {
		if evt.EventName() == name {
			n++
		}
	}
	return n
}

// pantry is a minimal scene: an intro, a collectible jar with a two-dialogue
// acquisition chain, and a shelf.
type pantry struct {
	*Base
}

func newPantry(deps Deps) *pantry {
	p := &pantry{Base: NewBase(deps, "pantry")}
	p.AddHotspot(Hotspot{ID: "jar", Kind: Collectible, Enabled: true, Visible: true}, p.clickJar)
	p.AddHotspot(Hotspot{ID: "shelf", Kind: Examine, Enabled: true, Visible: true}, func(context.Context) error {
		p.Say("jessica", "dusty")
		return nil
	})
	p.OnRefresh(func() { p.SetCollected("jar", p.State().Is("jarCollected")) })
	return p
}

func (p *pantry) Enter(ctx context.Context) error {
	p.Load(ctx)
	p.IntroGate("introShown", "pantry", "intro")
	return nil
}

func (p *pantry) clickJar(context.Context) error {
	jar := inventory.Item{ID: "jar", Name: "Jar"}
	p.Chain("jar",
		p.PlayStep("pantry", "found_jar"),
		p.AcquireStep(jar),
		p.DoStep("collected", func() { p.Mark("jarCollected") }),
		p.PlayStep("pantry", "jar_label"),
	)
	return nil
}

func (e *env) finishDialogue() {
	for e.deps.Dialogue.IsActive() {
		e.deps.Dialogue.AdvanceDialogue()
	}
}

func (e *env) completeAcquisition(item inventory.Item) {
	e.deps.Inventory.Add(item)
	e.deps.Bus.Publish(events.AcquisitionComplete{Item: item})
}

func TestBase_IntroGateAndResume(t *testing.T) {
	e := newEnv(t)
	p := newPantry(e.deps)
	require.NoError(t, p.Enter(context.Background()))
	assert.True(t, p.FirstVisit())

	err := p.Click(context.Background(), "shelf")
	assert.ErrorIs(t, err, ErrHotspotDisabled, "hotspots stay disabled during the intro")

	e.finishDialogue()
	require.NoError(t, p.Click(context.Background(), "shelf"))
	p.Leave()

	again := newPantry(e.deps)
	require.NoError(t, again.Enter(context.Background()))
	assert.False(t, again.FirstVisit())
	assert.False(t, e.deps.Dialogue.IsActive(), "intro must not replay on resume")
	require.NoError(t, again.Click(context.Background(), "shelf"))
}

func TestBase_AcquisitionChainAndCollectedResume(t *testing.T) {
	e := newEnv(t)
	p := newPantry(e.deps)
	require.NoError(t, p.Enter(context.Background()))
	e.finishDialogue()

	require.NoError(t, p.Click(context.Background(), "jar"))
	assert.Equal(t, 0, e.count(events.ItemAcquired), "pickup waits for the first dialogue")

	e.finishDialogue()
	assert.Equal(t, 1, e.count(events.ItemAcquired))
	assert.False(t, p.Flags().Is("jarCollected"))

	e.completeAcquisition(inventory.Item{ID: "jar"})
	assert.True(t, p.Flags().Is("jarCollected"))
	assert.True(t, e.deps.Dialogue.IsActive(), "label dialogue follows the acquisition")
	e.finishDialogue()
	p.Leave()

	again := newPantry(e.deps)
	require.NoError(t, again.Enter(context.Background()))
	jar, _ := again.Hotspot("jar")
	assert.False(t, jar.Visible)
	assert.False(t, jar.Enabled)
	assert.ErrorIs(t, again.Click(context.Background(), "jar"), ErrHotspotDisabled)
	assert.False(t, e.deps.Dialogue.IsActive())
}

func TestBase_LeaveCancelsPendingChain(t *testing.T) {
	e := newEnv(t)
	p := newPantry(e.deps)
	require.NoError(t, p.Enter(context.Background()))
	e.finishDialogue()
	require.NoError(t, p.Click(context.Background(), "jar"))

	p.Leave()
	e.finishDialogue()
	e.completeAcquisition(inventory.Item{ID: "jar"})

	assert.Equal(t, 0, e.count(events.ItemAcquired), "stale continuation must not publish")
	assert.False(t, p.Flags().Is("jarCollected"))
	assert.Equal(t, 0, e.deps.Bus.Count(events.DialogueEnded))
}

func TestBase_WriteThrough(t *testing.T) {
	e := newEnv(t)
	p := newPantry(e.deps)
	require.NoError(t, p.Enter(context.Background()))
	saves := e.store.SceneSaves()

	p.Mark("shelfDusted")
	assert.Equal(t, saves+1, e.store.SceneSaves())
	p.Mark("shelfDusted")
	assert.Equal(t, saves+1, e.store.SceneSaves(), "unchanged flag is not rewritten")

	data, err := e.store.LoadSceneState(context.Background(), e.deps.SessionID, "pantry")
	require.NoError(t, err)
	flags, err := DecodeFlags(data)
	require.NoError(t, err)
	assert.True(t, flags.Is("shelfDusted"))
}

func TestBase_CorruptStateIsFirstVisit(t *testing.T) {
	e := newEnv(t)
	e.store.PutRawSceneState(e.deps.SessionID, "pantry", []byte("{not json"))

	p := newPantry(e.deps)
	require.NoError(t, p.Enter(context.Background()))

	assert.True(t, p.FirstVisit())
	assert.True(t, e.deps.Dialogue.IsActive(), "intro plays as on a first visit")
}

func TestBase_StoreFailureIsNotFatal(t *testing.T) {
	e := newEnv(t)
	e.store.SetSaveError(errors.New("redis down"))
	p := newPantry(e.deps)
	require.NoError(t, p.Enter(context.Background()))
	p.Mark("x")
	assert.True(t, p.Flags().Is("x"))
}

func TestBase_UnknownHotspot(t *testing.T) {
	e := newEnv(t)
	p := newPantry(e.deps)
	require.NoError(t, p.Enter(context.Background()))
	assert.ErrorIs(t, p.Click(context.Background(), "window"), ErrUnknownHotspot)
}

func TestBase_OnIsDroppedOnLeave(t *testing.T) {
	e := newEnv(t)
	p := newPantry(e.deps)
	calls := 0
	p.On("grill_lit", func(events.Event) { calls++ })
	e.deps.Bus.Publish(events.Signal{Name: "grill_lit"})
	p.Leave()
	e.deps.Bus.Publish(events.Signal{Name: "grill_lit"})
	assert.Equal(t, 1, calls)
}

func TestBase_Ask(t *testing.T) {
	e := newEnv(t)
	p := newPantry(e.deps)
	var answer string
	p.Ask("tidy", events.Choices{Choices: []events.Choice{{ID: "yes"}, {ID: "no"}}}, func(c events.Chosen) {
		answer = c.ChoiceID
	})
	assert.Equal(t, 1, e.count(events.ShowChoices))
	e.deps.Bus.Publish(events.Chosen{ChoiceID: "no", Index: 1})
	assert.Equal(t, "no", answer)
}

func TestFlags(t *testing.T) {
	var f Flags
	assert.True(t, f.Mark("open"))
	assert.False(t, f.Mark("open"))
	assert.Equal(t, 2, func() int { f.Incr("keys"); return f.Incr("keys") }())
	assert.True(t, f.AddTo("offerings", "wine"))
	assert.False(t, f.AddTo("offerings", "wine"))
	assert.Equal(t, 1, f.Size("offerings"))

	data, err := f.Encode()
	require.NoError(t, err)
	back, err := DecodeFlags(data)
	require.NoError(t, err)
	assert.Equal(t, f.Clone(), back)

	_, err = DecodeFlags([]byte(`{"bools":{"open":"yes"}}`))
	assert.ErrorIs(t, err, storage.ErrCorruptState)

	fresh, err := DecodeFlags(nil)
	require.NoError(t, err)
	assert.False(t, fresh.Is("open"))
}

func TestFlavorPicker_NoRepeatUntilExhausted(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		p := NewFlavorPicker(rand.New(rand.NewPCG(seed, seed+1)), "empty_pot_1", "empty_pot_2", "empty_pot_3")
		seen := map[string]bool{}
		for i := 0; i < 3; i++ {
			seen[p.Next()] = true
		}
		assert.Len(t, seen, 3, "seed %d", seed)
		assert.Equal(t, 0, p.Remaining())

		prev := ""
		for i := 0; i < 30; i++ {
			got := p.Next()
			assert.NotEqual(t, prev, got, "seed %d: immediate repeat", seed)
			prev = got
		}
	}
}

func TestFlavorPicker_Edges(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	assert.Equal(t, "", NewFlavorPicker(r).Next())
	single := NewFlavorPicker(r, "only")
	assert.Equal(t, "only", single.Next())
	assert.Equal(t, "only", single.Next())
}
