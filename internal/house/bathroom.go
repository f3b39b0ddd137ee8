package house

import (
	"context"
	"fmt"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/scene"
)

const (
	safeOpened      = "safeOpened"
	cheeseCollected = "cheeseCollected"
	dirtyKeyFound   = "dirtyKeyFound"
)

// bathroom: a safe with the cheese and a litter box hiding the bedroom key,
// which only the rake can dig out.
type bathroom struct {
	*scene.Base
}

func newBathroom(deps scene.Deps) scene.Scene {
	s := &bathroom{Base: scene.NewBase(deps, Bathroom)}
	s.SetBackground("bathroom")
	s.AddHotspot(spot("safe", "Cofre", scene.Puzzle), s.clickSafe)
	s.AddHotspot(spot("cheese", "Queijo", scene.Collectible), func(context.Context) error {
		collect(s.Base, "cheese", cheeseCollected, "cheese", Bathroom, "found_cheese")
		return nil
	})
	s.AddHotspot(spot("litter_box", "Caixa de Areia", scene.Examine), s.clickLitterBox)
	s.AddHotspot(spot("toilet", "Vaso Sanitário", scene.Examine), func(context.Context) error {
		s.Play(Bathroom, "toilet_interaction")
		return nil
	})
	s.AddHotspot(spot("kitchen_door", "Cozinha", scene.Door), s.Door("", Kitchen, "", ""))
	s.AddHotspot(spot("bedroom_door", "Quarto", scene.Door), s.Door("dirty_key", Bedroom, Bathroom, "bedroom_door_locked"))
	s.OnRefresh(s.refresh)

	s.On(events.SafeUnlocked, func(events.Event) { s.Mark(safeOpened) })
	return s
}

func (s *bathroom) Enter(ctx context.Context) error {
	s.Load(ctx)
	s.IntroGate("hasShownIntroDialogue", Bathroom, "bathroom_intro")
	return nil
}

func (s *bathroom) refresh() {
	f := s.State()
	s.SetEnabled("safe", !f.Is(safeOpened))
	s.SetVisible("cheese", f.Is(safeOpened) && !f.Is(cheeseCollected))
	s.SetEnabled("cheese", !f.Is(cheeseCollected))
	s.SetEnabled("litter_box", true)
}

func (s *bathroom) clickSafe(context.Context) error {
	s.Chain("safe",
		s.PlayStep(Bathroom, "found_safe"),
		s.EmitStep(events.Signal{Name: events.ShowSafe}, ""),
	)
	return nil
}

func (s *bathroom) clickLitterBox(context.Context) error {
	if s.State().Is(dirtyKeyFound) {
		s.Play(Bathroom, "litter_box_empty")
		return nil
	}
	item, ok := s.Selection.Selected()
	switch {
	case !ok:
		s.Play(Bathroom, "litter_box_no_rake")
	case item.ID == "miniature_rake":
		s.Selection.Clear()
		collect(s.Base, "litter_box", dirtyKeyFound, "dirty_key", Bathroom, "found_dirty_key")
	default:
		s.Selection.Clear()
		s.Say("jessica", fmt.Sprintf("Não acho que %s vai ajudar aqui...", item.DisplayName()))
	}
	return nil
}
