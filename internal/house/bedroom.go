package house

import (
	"context"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/scene"
)

const (
	wardrobeUnlocked = "wardrobeUnlocked"
	clothesCollected = "clothesCollected"
	oldNoteCollected = "oldNoteCollected"
)

// bedroom: the wardrobe opens with the hand gesture puzzle and holds the
// clothes. An old note lies around.
type bedroom struct {
	*scene.Base
}

func newBedroom(deps scene.Deps) scene.Scene {
	s := &bedroom{Base: scene.NewBase(deps, Bedroom)}
	s.SetBackground("bedroom")
	s.AddHotspot(spot("wardrobe", "Guarda-roupa", scene.Puzzle), func(context.Context) error {
		s.Chain("wardrobe",
			s.PlayStep(Bedroom, "wardrobe_locked"),
			s.EmitStep(events.Signal{Name: events.ShowHandGesturePuzzle}, ""),
		)
		return nil
	})
	s.AddHotspot(spot("old_note", "Bilhete Antigo", scene.Collectible), func(context.Context) error {
		collect(s.Base, "old_note", oldNoteCollected, "old_note", Bedroom, "found_old_note")
		return nil
	})
	s.AddHotspot(spot("clothes", "Roupas", scene.Collectible), func(context.Context) error {
		collect(s.Base, "clothes", clothesCollected, "clothes", Bedroom, "found_clothes")
		return nil
	})
	s.AddHotspot(spot("kitchen_door", "Cozinha", scene.Door), s.Door("", Kitchen, "", ""))
	s.AddHotspot(spot("bathroom_door", "Banheiro", scene.Door), s.Door("", Bathroom, "", ""))
	s.OnRefresh(s.refresh)

	s.On(events.WardrobeUnlocked, func(events.Event) {
		if s.State().Mark(wardrobeUnlocked) {
			s.Save()
			s.Play(Bedroom, "wardrobe_unlocked")
		}
	})
	return s
}

func (s *bedroom) Enter(ctx context.Context) error {
	s.Load(ctx)
	s.IntroGate("hasShownIntroDialogue", Bedroom, "bedroom_intro")
	return nil
}

func (s *bedroom) refresh() {
	f := s.State()
	s.SetEnabled("wardrobe", !f.Is(wardrobeUnlocked))
	s.SetCollected("old_note", f.Is(oldNoteCollected))
	s.SetVisible("clothes", f.Is(wardrobeUnlocked) && !f.Is(clothesCollected))
	s.SetEnabled("clothes", !f.Is(clothesCollected))
}
