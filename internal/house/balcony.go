package house

import (
	"context"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/scene"
)

const (
	rakeFound = "rakeFound"
	keyFound  = "keyFound"
)

// petting choices for Val Kilmer; only the last one works.
var petChoices = events.Choices{
	Question: "Como você quer fazer carinho no Val Kilmer?",
	Choices: []events.Choice{
		{ID: "head", Text: "Fazer carinho na cabeça"},
		{ID: "belly", Text: "Fazer carinho na barriga"},
		{ID: "butt", Text: "Fazer carinho na bunda"},
	},
}

// balcony has pots to search, one hiding the rake, and the cat holding
// the hallway key.
type balcony struct {
	*scene.Base
	pots *scene.FlavorPicker
}

func newBalcony(deps scene.Deps) scene.Scene {
	s := &balcony{Base: scene.NewBase(deps, Balcony)}
	s.pots = scene.NewFlavorPicker(s.Rand, "empty_pot_1", "empty_pot_2", "empty_pot_3")
	s.SetBackground("balcony")
	for _, id := range []string{"pot_left", "pot_middle"} {
		s.AddHotspot(spot(id, "Vaso", scene.Examine), s.clickEmptyPot)
	}
	s.AddHotspot(spot("pot_rake", "Vaso", scene.Examine), s.clickRakePot)
	s.AddHotspot(spot("val_kilmer", "Val Kilmer", scene.Character), s.clickCat)
	s.AddHotspot(spot("stairs", "Escada", scene.Door), s.Door("", Stairs, "", ""))
	return s
}

func (s *balcony) Enter(ctx context.Context) error {
	s.Load(ctx)
	s.IntroGate("hasShownIntroDialogue", Balcony, "balcony_intro")
	return nil
}

func (s *balcony) clickEmptyPot(context.Context) error {
	s.Play(Balcony, s.pots.Next())
	return nil
}

func (s *balcony) clickRakePot(ctx context.Context) error {
	if s.State().Is(rakeFound) {
		return s.clickEmptyPot(ctx)
	}
	s.Inventory.Add(s.Item("miniature_rake"))
	s.Mark(rakeFound)
	s.Play(Balcony, "found_rake")
	return nil
}

func (s *balcony) clickCat(context.Context) error {
	if s.State().Is(keyFound) {
		s.Play(Balcony, "cat_interaction_fail")
		return nil
	}
	s.Ask("pet cat", petChoices, func(c events.Chosen) {
		if c.Index != len(petChoices.Choices)-1 {
			s.Play(Balcony, "cat_interaction_fail")
			return
		}
		s.Mark(keyFound)
		s.Inventory.Add(s.Item("hallway_key"))
		s.Play(Balcony, "cat_interaction_success")
	})
	return nil
}
