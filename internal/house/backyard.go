package house

import (
	"context"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/scene"
)

const (
	grillLit         = "grillLit"
	livingRoomKey    = "livingRoomKeyFound"
	catFoodCollected = "catFoodCollected"
	strayCatFed      = "strayCatFed"
	grillObject      = "grill_with_sanitizer"
)

// backyard is where the living room key hides: lighting the grill with
// the lighter burns away what covers it.
type backyard struct {
	*scene.Base
}

func newBackyard(deps scene.Deps) scene.Scene {
	s := &backyard{Base: scene.NewBase(deps, Backyard)}
	s.AddHotspot(spot(grillObject, "Churrasqueira", scene.Puzzle), s.clickGrill)
	s.AddHotspot(spot("cat_food_can", "Lata", scene.Collectible), func(context.Context) error {
		collect(s.Base, "cat_food_can", catFoodCollected, "cat_food_can", Backyard, "found_cat_food")
		return nil
	})
	s.AddHotspot(spot("stray_cat", "Gato", scene.Character), s.clickCat)
	s.AddHotspot(spot("hallway_door", "Corredor", scene.Door), s.Door("", Hallway, "", ""))
	s.OnRefresh(s.refresh)

	s.On("grill_lit", func(events.Event) {
		if !s.State().Mark(grillLit) {
			return
		}
		s.Save()
		s.Chain("grill lit",
			s.PlayStep(Backyard, "grill_lit"),
			s.DoStep("mark key", func() { s.Mark(livingRoomKey) }),
			s.AcquireStep(s.Item("living_room_key")),
		)
	})
	s.On("stray_cat_fed", func(events.Event) {
		s.Mark(strayCatFed)
		s.Play(Backyard, "stray_cat_fed")
	})
	return s
}

func (s *backyard) Enter(ctx context.Context) error {
	s.Load(ctx)
	s.IntroGate("hasShownIntroDialogue", Backyard, "backyard_intro")
	return nil
}

func (s *backyard) refresh() {
	f := s.State()
	s.SetCollected("cat_food_can", f.Is(catFoodCollected))
	s.SetVisible("stray_cat", !f.Is(strayCatFed))
	if f.Is(grillLit) {
		s.SetBackground("backyard_grill_lit")
	} else {
		s.SetBackground("backyard")
	}
}

func (s *backyard) clickGrill(context.Context) error {
	if s.State().Is(grillLit) {
		return nil
	}
	if item, ok := s.Selection.Selected(); ok {
		s.Interactions.UseItemOnObject(item, grillObject)
		return nil
	}
	s.Play(Backyard, "grill")
	return nil
}

func (s *backyard) clickCat(context.Context) error {
	if item, ok := s.Selection.Selected(); ok {
		s.Interactions.UseItemOnObject(item, "stray_cat")
		return nil
	}
	s.Play(Backyard, "stray_cat")
	return nil
}
