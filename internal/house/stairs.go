package house

import (
	"context"

	"github.com/jwebster45206/adventure-engine/pkg/scene"
)

// stairs connects the hallway and the balcony. Only the hallway is locked.
type stairs struct {
	*scene.Base
}

func newStairs(deps scene.Deps) scene.Scene {
	s := &stairs{Base: scene.NewBase(deps, Stairs)}
	s.SetBackground("stairs")
	s.AddHotspot(spot("hallway_door", "Corredor", scene.Door), s.Door("hallway_key", Hallway, Stairs, "hallway_door_locked"))
	s.AddHotspot(spot("balcony_door", "Varanda", scene.Door), s.Door("", Balcony, "", ""))
	return s
}

func (s *stairs) Enter(ctx context.Context) error {
	s.Load(ctx)
	s.IntroGate("hasShownIntroDialogue", Stairs, "stairs_intro")
	return nil
}
