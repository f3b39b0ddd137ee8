package game

import (
	"slices"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/inventory"
	"github.com/jwebster45206/adventure-engine/pkg/storage"
)

// Puzzle prompts the client may have open.
const (
	PuzzlePadlock     = "padlock"
	PuzzleSafe        = "safe"
	PuzzleHandGesture = "hand_gesture"
	PuzzleRhymeBattle = "rhyme_battle"
	PuzzleQuiz        = "quiz"
)

var puzzleSignals = map[events.Name]string{
	events.ShowPadlock:           PuzzlePadlock,
	events.ShowSafe:              PuzzleSafe,
	events.ShowHandGesturePuzzle: PuzzleHandGesture,
	events.StartRhymeBattle:      PuzzleRhymeBattle,
	events.StartQuiz:             PuzzleQuiz,
}

// desk mirrors what the presentation layer has on screen, derived from
// the events the core publishes: pending pickups, open prompts, gifts and
// the ending. It subscribes for the whole session.
type desk struct {
	s *Session

	pending          []inventory.Item
	choices          *events.Choices
	closeup          *events.Closeup
	note             *events.NoteCloseup
	puzzle           string
	inventoryVisible bool
	objectives       bool
	gifts            map[string]bool
	offeringsDone    bool
	finished         bool
}

func newDesk(s *Session) *desk {
	d := &desk{s: s, gifts: make(map[string]bool), inventoryVisible: true}
	bus := s.bus

	bus.Subscribe(events.ItemAcquired, func(evt events.Event) {
		item := evt.(events.Acquired).Item
		if s.opts.AutoPresent {
			d.present(item)
			return
		}
		d.pending = append(d.pending, item)
	})
	bus.Subscribe(events.GiftCollected, func(evt events.Event) {
		d.gifts[evt.(events.Gift).GiftID] = true
		if len(d.gifts) == len(s.opts.Content.Offerings) && !d.offeringsDone {
			d.offeringsDone = true
			bus.Publish(events.OfferingsComplete{})
		}
	})

	bus.Subscribe(events.ShowChoices, func(evt events.Event) {
		c := evt.(events.Choices)
		d.choices = &c
	})
	bus.Subscribe(events.ChoiceMade, func(events.Event) { d.choices = nil })
	bus.Subscribe(events.ShowCloseup, func(evt events.Event) {
		c := evt.(events.Closeup)
		d.closeup = &c
	})
	bus.Subscribe(events.CloseCloseup, func(events.Event) { d.closeup = nil })
	bus.Subscribe(events.CloseupClosed, func(events.Event) { d.closeup = nil })
	bus.Subscribe(events.ShowNoteCloseup, func(evt events.Event) {
		n := evt.(events.NoteCloseup)
		d.note = &n
	})
	bus.Subscribe(events.NoteCloseupClosed, func(events.Event) { d.note = nil })

	for name, puzzle := range puzzleSignals {
		bus.Subscribe(name, func(events.Event) { d.puzzle = puzzle })
	}
	bus.Subscribe(events.ShowInventory, func(events.Event) { d.inventoryVisible = true })
	bus.Subscribe(events.HideInventory, func(events.Event) { d.inventoryVisible = false })
	bus.Subscribe(events.RevealObjectives, func(events.Event) { d.objectives = true })
	bus.Subscribe(events.ShowHappyBirthday, func(events.Event) {
		d.finished = true
		s.log.Info("game finished")
	})
	bus.Subscribe(events.SceneChanged, func(events.Event) {
		d.closeup = nil
		d.choices = nil
	})
	return d
}

// present puts item in the inventory and reports the pickup as shown.
func (d *desk) present(item inventory.Item) {
	d.s.inv.Add(item)
	d.s.bus.Publish(events.AcquisitionComplete{Item: item})
}

// complete finishes the first pending pickup of id.
func (d *desk) complete(id string) bool {
	i := slices.IndexFunc(d.pending, func(it inventory.Item) bool { return it.ID == id })
	if i < 0 {
		return false
	}
	item := d.pending[i]
	d.pending = slices.Delete(d.pending, i, i+1)
	d.present(item)
	return true
}

// modal reports whether a prompt is waiting for the player.
func (d *desk) modal() bool {
	return len(d.pending) > 0 || d.choices != nil || d.closeup != nil || d.note != nil || d.puzzle != ""
}

func (d *desk) giftList() []string {
	out := make([]string, 0, len(d.gifts))
	for g := range d.gifts {
		out = append(out, g)
	}
	slices.Sort(out)
	return out
}

// restore brings back what the snapshot recorded. Pickups still waiting
// for the client are queued again; with auto-present they go straight to
// the inventory.
func (d *desk) restore(snap *storage.Snapshot) {
	for _, item := range snap.Pending {
		if d.s.opts.AutoPresent {
			d.s.inv.Add(item)
			continue
		}
		d.pending = append(d.pending, item)
	}
	for _, g := range snap.Gifts {
		d.gifts[g] = true
	}
	d.offeringsDone = len(d.gifts) == len(d.s.opts.Content.Offerings)
	d.finished = snap.Finished
	d.objectives = snap.Objectives
}
