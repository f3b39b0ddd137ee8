package house

import (
	"context"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/scene"
	"github.com/jwebster45206/adventure-engine/pkg/sequence"
)

// intro is the opening cinematic: narration, the owl's quiz, the curse and
// the fainting, ending in front of the house.
type intro struct {
	*scene.Base
}

func newIntro(deps scene.Deps) scene.Scene {
	return &intro{Base: scene.NewBase(deps, Intro)}
}

func (s *intro) Enter(ctx context.Context) error {
	s.Load(ctx)
	s.Publish(events.InventoryHidden{})
	s.Chain("opening",
		s.PlayStep(Intro, "opening_narrative"),
		s.PlayStep(Intro, "owl_appears"),
		s.EmitStep(events.Signal{Name: events.StartQuiz}, events.QuizCompleted),
		sequence.Step{
			Name: "quiz result",
			Do: func(ctx context.Context) error {
				if evt, ok := sequence.LastEvent(ctx); ok {
					s.Logger().Info("quiz completed", "score", evt.(events.QuizDone).Score)
				}
				return nil
			},
		},
		s.PlayStep(Intro, "curse_dialogue"),
		s.PlayStep(Intro, "fainting_sequence"),
		sequence.Step{
			Name: "wake up",
			Do: func(context.Context) error {
				s.Mark("completed")
				return s.GoTo(Facade)
			},
		},
	)
	return nil
}
