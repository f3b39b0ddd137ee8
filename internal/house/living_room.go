package house

import (
	"context"
	"fmt"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/scene"
	"github.com/jwebster45206/adventure-engine/pkg/sequence"
)

const (
	roomTidy           = "roomTidy"
	sombraScared       = "sombraScared"
	cellPhoneCollected = "cellPhoneCollected"
	officeUnlocked     = "officeUnlocked"

	tidyMinutes = 5
)

var (
	tidyChoices = events.Choices{
		Question: "Arrumar a sala?",
		Choices: []events.Choice{
			{ID: "tidy_yes", Text: fmt.Sprintf("Sim, arrumar a sala (%d minutos)", tidyMinutes)},
			{ID: "tidy_no", Text: "Não, deixar como está"},
		},
	}
	sombraChoices = events.Choices{
		Choices: []events.Choice{
			{ID: "yell", Text: "Gritar com a gata"},
			{ID: "pspsps", Text: "Fazer pspspsps"},
			{ID: "clap", Text: "Bater palmas"},
		},
	}
)

// livingRoom has the cluttered chairs, the cabinet where Sombra sleeps on
// the phone, and the office door that opens once every offering is found.
type livingRoom struct {
	*scene.Base
}

func newLivingRoom(deps scene.Deps) scene.Scene {
	s := &livingRoom{Base: scene.NewBase(deps, LivingRoom)}
	s.AddHotspot(spot("chairs", "Cadeiras", scene.Examine), s.clickChairs)
	s.AddHotspot(spot("cabinet", "Aparador", scene.Puzzle), s.clickCabinet)
	s.AddHotspot(spot("office_door", "Escritório", scene.Door), s.clickOffice)
	s.AddHotspot(spot("hallway_door", "Corredor", scene.Door), s.Door("", Hallway, "", ""))
	s.AddHotspot(spot("kitchen_door", "Cozinha", scene.Door), s.Door("", Kitchen, "", ""))
	s.OnRefresh(s.refresh)

	s.On(events.CloseupZoneClicked, func(evt events.Event) {
		switch evt.(events.ZoneClicked).ZoneID {
		case "sombra":
			s.pokeSombra()
		case "cell_phone":
			s.takePhone()
		}
	})
	s.On(events.AllOfferingsCollected, func(events.Event) { s.Mark(officeUnlocked) })
	return s
}

func (s *livingRoom) Enter(ctx context.Context) error {
	s.Load(ctx)
	if all := offerings(s.Base); len(all) > 0 && s.Inventory.CountOf(all...) == len(all) {
		s.Mark(officeUnlocked)
	}
	s.IntroGate("hasShownIntroDialogue", LivingRoom, "living_room_intro")
	return nil
}

func (s *livingRoom) refresh() {
	f := s.State()
	s.SetEnabled("chairs", !f.Is(roomTidy))
	s.SetEnabled("cabinet", !f.Is(cellPhoneCollected))
	if f.Is(roomTidy) {
		s.SetBackground("living_room_tidy")
	} else {
		s.SetBackground("living_room")
	}
}

func (s *livingRoom) clickChairs(context.Context) error {
	s.Ask("tidy", tidyChoices, func(c events.Chosen) {
		if c.ChoiceID != "tidy_yes" {
			return
		}
		s.Chain("tidy up",
			s.PlayStep(LivingRoom, "room_tidy_up"),
			s.DoStep("spend time", func() {
				s.Clock.AddMinutes(tidyMinutes)
				s.Mark(roomTidy)
			}),
		)
	})
	return nil
}

func (s *livingRoom) clickCabinet(context.Context) error {
	f := s.State()
	if !f.Is(roomTidy) {
		s.Play(LivingRoom, "living_room_intro")
		return nil
	}
	s.showCabinet()
	return nil
}

func (s *livingRoom) showCabinet() {
	c := events.Closeup{Image: "cat_puzzle_phone", Title: "Aparador", Zones: []events.Zone{{ID: "sombra", Label: "Interagir"}}}
	if s.State().Is(sombraScared) {
		c.Image = "cat_puzzle_phone_solved"
		c.Zones = []events.Zone{{ID: "cell_phone", Label: "Interagir"}}
	}
	s.Publish(c)
}

func (s *livingRoom) pokeSombra() {
	if s.State().Is(sombraScared) {
		return
	}
	s.Publish(events.HideCloseup{})
	s.Chain("sombra",
		s.PlayStep(LivingRoom, "sombra_sleeping"),
		s.PlayStep(LivingRoom, "sombra_choices"),
		s.EmitStep(sombraChoices, events.ChoiceMade),
		sequence.Step{
			Name: "react",
			Do: func(ctx context.Context) error {
				evt, _ := sequence.LastEvent(ctx)
				chosen, _ := evt.(events.Chosen)
				switch chosen.ChoiceID {
				case "yell":
					s.Play(LivingRoom, "sombra_yell")
				case "pspsps":
					s.Play(LivingRoom, "sombra_pspsps")
				case "clap":
					s.Chain("scare sombra",
						s.PlayStep(LivingRoom, "sombra_clap"),
						s.DoStep("sombra leaves", func() {
							s.Mark(sombraScared)
							if !s.State().Is(cellPhoneCollected) {
								s.showCabinet()
							}
						}),
					)
				}
				return nil
			},
		},
	)
}

func (s *livingRoom) takePhone() {
	if s.State().Is(cellPhoneCollected) {
		return
	}
	s.Publish(events.HideCloseup{})
	collect(s.Base, "cabinet", cellPhoneCollected, "cell_phone", LivingRoom, "found_cellphone")
}

func (s *livingRoom) clickOffice(context.Context) error {
	if s.State().Is(officeUnlocked) {
		return s.GoTo(Office)
	}
	all := offerings(s.Base)
	n := s.Inventory.CountOf(all...)
	if n == 0 {
		s.Say("jessica", "A porta do escritório está trancada. Parece que preciso encontrar algo para destrancá-la...")
		return nil
	}
	s.Say("jessica", fmt.Sprintf("Tenho %d de %d oferendas. A porta ainda está trancada...", n, len(all)))
	return nil
}
