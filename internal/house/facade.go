package house

import (
	"context"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/scene"
)

// facade is the front of the house. The gate opens once the padlock
// puzzle reports the right code.
type facade struct {
	*scene.Base
}

func newFacade(deps scene.Deps) scene.Scene {
	s := &facade{Base: scene.NewBase(deps, Facade)}
	s.SetBackground("facade")
	s.AddHotspot(spot("gate", "Portão", scene.Puzzle), s.clickGate)
	s.On(events.GateUnlocked, func(events.Event) {
		s.Mark("gateUnlocked")
		if err := s.GoTo(Stairs); err != nil {
			s.Logger().Error("failed to enter the house", "error", err)
		}
	})
	return s
}

func (s *facade) Enter(ctx context.Context) error {
	s.Load(ctx)
	s.Publish(events.InventoryShown{})
	s.IntroGate("hasShownIntroDialogue", Facade, "facade_intro")
	return nil
}

func (s *facade) clickGate(context.Context) error {
	if s.State().Is("gateUnlocked") {
		return s.GoTo(Stairs)
	}
	s.Chain("padlock",
		s.PlayStep(Facade, "padlock_focus"),
		s.EmitStep(events.Signal{Name: events.ShowPadlock}, ""),
	)
	return nil
}
