package house

import (
	"context"
	"fmt"
	"slices"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/scene"
	"github.com/jwebster45206/adventure-engine/pkg/sequence"
)

const (
	offeringsPlaced  = "offeringsPlaced"
	jijiInteractions = "jijiInteractionCount"
	curseBroken      = "curseBroken"
)

var jijiScripts = []string{"jiji_first_encounter", "jiji_second_attempt", "jiji_third_attempt", "jiji_give_up"}

// office holds the pentagram where the offerings go. With all five placed
// the rhyme battle starts, and winning it breaks the curse.
type office struct {
	*scene.Base
}

func newOffice(deps scene.Deps) scene.Scene {
	s := &office{Base: scene.NewBase(deps, Office)}
	s.SetBackground("office")
	s.AddHotspot(spot("pentagram", "Pentagrama", scene.Puzzle), s.clickPentagram)
	s.AddHotspot(spot("jiji", "Jiji", scene.Character), s.clickJiji)
	s.AddHotspot(spot("living_room_door", "Sala", scene.Door), s.Door("", LivingRoom, "", ""))
	s.OnRefresh(s.refresh)
	return s
}

func (s *office) Enter(ctx context.Context) error {
	s.Load(ctx)
	s.IntroGate("hasShownIntroDialogue", Office, "office_intro")
	return nil
}

func (s *office) refresh() {
	f := s.State()
	s.SetEnabled("pentagram", !f.Is(curseBroken))
	s.SetVisible("jiji", f.Count(jijiInteractions) < len(jijiScripts))
}

func (s *office) clickPentagram(context.Context) error {
	f := s.State()
	placed := f.Size(offeringsPlaced)
	total := len(offerings(s.Base))
	item, ok := s.Selection.Selected()
	switch {
	case !ok && placed == 0:
		s.Play(Office, "pentagram_interaction")
		return nil
	case !ok && placed == total:
		s.startRitual()
		return nil
	case !ok:
		s.Say("jessica", fmt.Sprintf("Já coloquei %d de %d oferendas. Preciso continuar...", placed, total))
		return nil
	case !slices.Contains(offerings(s.Base), item.ID):
		s.Selection.Clear()
		s.Say("jessica", "Isso não é uma das oferendas do ritual.")
		return nil
	case f.Contains(offeringsPlaced, item.ID):
		s.Selection.Clear()
		s.Say("jessica", "Já coloquei essa oferenda no pentagrama.")
		return nil
	}

	f.AddTo(offeringsPlaced, item.ID)
	s.Save()
	s.Inventory.RemoveAll(item.ID)
	s.Selection.Clear()
	placed = f.Size(offeringsPlaced)
	s.Say("jessica", fmt.Sprintf("Coloquei a oferenda no pentagrama. %d de %d completas.", placed, total))
	if placed == total {
		s.startRitual()
	}
	return nil
}

func (s *office) startRitual() {
	s.SetReady(false)
	s.Chain("ritual",
		s.EmitStep(events.Signal{Name: events.StartRhymeBattle}, events.RhymeBattleCompleted),
		sequence.Step{
			Name: "battle result",
			Do: func(ctx context.Context) error {
				evt, _ := sequence.LastEvent(ctx)
				if done, _ := evt.(events.RhymeBattleDone); done.Success {
					s.Mark(curseBroken)
					s.Chain("curse breaking",
						s.PlayStep(Office, "curse_breaking"),
						s.EmitStep(events.Signal{Name: events.ShowHappyBirthday}, ""),
					)
					return nil
				}
				s.Logger().Info("rhyme battle lost, pentagram re-armed")
				s.SetReady(true)
				return nil
			},
		},
	)
}

func (s *office) clickJiji(context.Context) error {
	f := s.State()
	n := f.Count(jijiInteractions)
	if n >= len(jijiScripts) {
		return nil
	}
	script := jijiScripts[n]
	if n+1 < len(jijiScripts) {
		f.Incr(jijiInteractions)
		s.Save()
		s.Play(Office, script)
		return nil
	}
	s.Chain("jiji leaves",
		s.PlayStep(Office, script),
		s.DoStep("jiji leaves", func() {
			s.State().Incr(jijiInteractions)
			s.Save()
		}),
	)
	return nil
}
