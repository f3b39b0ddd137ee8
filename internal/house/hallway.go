package house

import (
	"context"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/scene"
	"github.com/jwebster45206/adventure-engine/pkg/sequence"
)

const (
	noteTaken          = "noteTaken"
	noteRead           = "noteHasBeenRead"
	broomCollected     = "broomCollected"
	objectivesRevealed = "objectivesRevealed"
	backyardVisited    = "backyardVisited"
)

// hallway holds the owl's note, which reveals the objectives, and the
// broom.
type hallway struct {
	*scene.Base
}

func newHallway(deps scene.Deps) scene.Scene {
	s := &hallway{Base: scene.NewBase(deps, Hallway)}
	s.AddHotspot(spot("owls_note", "Bilhete", scene.Collectible), s.clickNote)
	s.AddHotspot(spot("broom", "Vassoura", scene.Collectible), s.clickBroom)
	s.AddHotspot(spot("living_room_door", "Sala", scene.Door), s.Door("living_room_key", LivingRoom, Hallway, "livingroom_door_locked"))
	s.AddHotspot(spot("courtyard_door", "Quintal", scene.Door), s.clickCourtyard)
	s.AddHotspot(spot("stairs", "Escada", scene.Door), s.Door("", Stairs, "", ""))
	s.OnRefresh(s.refresh)
	return s
}

func (s *hallway) Enter(ctx context.Context) error {
	s.Load(ctx)
	s.IntroGate("hasShownIntroDialogue", Hallway, "hallway_intro")
	s.resumeReading()
	return nil
}

// resumeReading picks the note chain back up when the session was
// interrupted after the note was taken but before it was read.
func (s *hallway) resumeReading() {
	f := s.State()
	if !f.Is(noteTaken) || f.Is(noteRead) {
		return
	}
	steps := s.readingSteps()
	if !s.Inventory.Has("owls_note") {
		steps = append([]sequence.Step{{
			Name:  "wait for note",
			Await: events.ItemAcquisitionComplete,
			Match: func(evt events.Event) bool {
				return evt.(events.AcquisitionComplete).Item.ID == "owls_note"
			},
		}}, steps...)
	}
	s.Chain("read note", steps...)
}

func (s *hallway) refresh() {
	f := s.State()
	s.SetCollected("owls_note", f.Is(noteTaken))
	s.SetCollected("broom", f.Is(broomCollected))
	if f.Is(broomCollected) {
		s.SetBackground("hallway_without_broom")
	} else {
		s.SetBackground("hallway")
	}
}

// clickNote runs the longest acquisition chain in the house: pick the note
// up, look at it, take it, read it, then reveal the objectives once.
// Putting the note back leaves it on the wall.
func (s *hallway) clickNote(context.Context) error {
	s.SetCollected("owls_note", true)
	steps := []sequence.Step{
		s.PlayStep(Hallway, "note_pickup"),
		s.EmitStep(events.NoteCloseup{AddToInventory: true}, events.NoteCloseupClosed),
		{
			Name: "take note",
			Do: func(ctx context.Context) error {
				if evt, ok := sequence.LastEvent(ctx); ok && !evt.(events.NoteCloseupDone).AddToInventory {
					return sequence.ErrStop
				}
				s.Mark(noteTaken)
				return nil
			},
		},
		s.AcquireStep(s.Item("owls_note")),
	}
	s.ChainWith("owls note", append(steps, s.readingSteps()...),
		sequence.WithOnDone(func(error) {
			if s.Active() {
				s.Refresh()
			}
		}))
	return nil
}

func (s *hallway) readingSteps() []sequence.Step {
	return []sequence.Step{
		s.PlayStep(Hallway, "note_reading"),
		{
			Name: "reveal objectives",
			Do: func(context.Context) error {
				s.Mark(noteRead)
				if s.State().Mark(objectivesRevealed) {
					s.Save()
					s.Publish(events.Signal{Name: events.RevealObjectives})
				}
				return nil
			},
		},
	}
}

func (s *hallway) clickBroom(context.Context) error {
	collect(s.Base, "broom", broomCollected, "broom", Hallway, "found_broom")
	return nil
}

func (s *hallway) clickCourtyard(context.Context) error {
	if s.State().Is(backyardVisited) {
		return s.GoTo(Backyard)
	}
	s.Chain("courtyard",
		s.PlayStep(Hallway, "courtyard_door"),
		s.PlayStep(Hallway, "courtyard_transition"),
		sequence.Step{
			Name: "go outside",
			Do: func(context.Context) error {
				s.Mark(backyardVisited)
				return s.GoTo(Backyard)
			},
		},
	)
	return nil
}
