package house

import (
	"context"

	"github.com/jwebster45206/adventure-engine/pkg/scene"
	"github.com/jwebster45206/adventure-engine/pkg/sequence"
)

const (
	iceKeysCollected    = "iceKeysCollected"
	freezerOpened       = "freezerOpened"
	chocolatesCollected = "chocolatesCollected"
	wineCoolerOpened    = "wineCoolerOpened"
	wineCollected       = "wineCollected"
	fridgeNoteRead      = "noteRead"

	// iceKeyDigs is how many ice keys are dug out one by one before the
	// freezer gives up the rest at once.
	iceKeyDigs    = 10
	iceKeyJackpot = 989
	disgustChance = 0.3
)

// kitchen: digging through the freezer yields ice keys and finally the
// chocolates; an ice key opens the wine cooler.
type kitchen struct {
	*scene.Base
	disgust *scene.FlavorPicker
}

func newKitchen(deps scene.Deps) scene.Scene {
	s := &kitchen{Base: scene.NewBase(deps, Kitchen)}
	s.disgust = scene.NewFlavorPicker(s.Rand,
		"disgust_1", "disgust_2", "disgust_3", "disgust_4", "disgust_5", "disgust_6")
	s.AddHotspot(spot("freezer", "Freezer", scene.Puzzle), s.clickFreezer)
	s.AddHotspot(spot("wine_cooler", "Adega", scene.Puzzle), s.clickWineCooler)
	s.AddHotspot(spot("fridge_note", "Bilhete", scene.Examine), s.clickNote)
	s.AddHotspot(spot("living_room_door", "Sala", scene.Door), s.Door("", LivingRoom, "", ""))
	s.AddHotspot(spot("bathroom_door", "Banheiro", scene.Door), s.Door("", Bathroom, "", ""))
	s.AddHotspot(spot("bedroom_door", "Quarto", scene.Door), s.Door("dirty_key", Bedroom, Kitchen, "bedroom_door_locked"))
	s.OnRefresh(s.refresh)
	return s
}

func (s *kitchen) Enter(ctx context.Context) error {
	s.Load(ctx)
	s.IntroGate("hasShownIntroDialogue", Kitchen, "kitchen_intro")
	return nil
}

func (s *kitchen) refresh() {
	f := s.State()
	s.SetEnabled("freezer", !f.Is(chocolatesCollected))
	s.SetEnabled("wine_cooler", !f.Is(wineCollected))
	if f.Is(freezerOpened) {
		s.SetBackground("kitchen_open")
	} else {
		s.SetBackground("kitchen")
	}
}

func (s *kitchen) clickFreezer(context.Context) error {
	f := s.State()
	if f.Is(chocolatesCollected) {
		return nil
	}
	if !f.Is(freezerOpened) {
		s.Mark(freezerOpened)
		s.Play(Kitchen, "freezer_first_open")
		return nil
	}

	if f.Count(iceKeysCollected) < iceKeyDigs {
		n := f.Incr(iceKeysCollected)
		s.Save()
		s.Inventory.Add(s.Item("ice_key"))
		if n < iceKeyDigs && s.Chance(disgustChance) {
			s.Play(Kitchen, s.disgust.Next())
		}
		if n < iceKeyDigs {
			return nil
		}
	}

	steps := []sequence.Step{
		s.PlayStep(Kitchen, "thousand_years_later"),
		s.DoStep("dig out the rest", func() {
			s.Inventory.AddQuantity(s.Item("ice_key"), iceKeyJackpot)
		}),
	}
	steps = append(steps, collectSteps(s.Base, chocolatesCollected, "chocolates", Kitchen, "found_chocolates")...)
	guarded(s.Base, "freezer", "freezer jackpot", steps...)
	return nil
}

func (s *kitchen) clickWineCooler(context.Context) error {
	f := s.State()
	switch {
	case f.Is(wineCollected):
		return nil
	case f.Is(wineCoolerOpened):
		collect(s.Base, "wine_cooler", wineCollected, "wine", Kitchen, "found_wine")
	case !s.Inventory.Has("ice_key"):
		s.Play(Kitchen, "wine_cooler_locked")
	default:
		s.Inventory.Remove("ice_key")
		s.Mark(wineCoolerOpened)
		steps := append([]sequence.Step{s.PlayStep(Kitchen, "wine_cooler_opened")},
			collectSteps(s.Base, wineCollected, "wine", Kitchen, "found_wine")...)
		guarded(s.Base, "wine_cooler", "open wine cooler", steps...)
	}
	return nil
}

func (s *kitchen) clickNote(context.Context) error {
	s.Mark(fridgeNoteRead)
	s.Play(Kitchen, "note_on_fridge")
	return nil
}
