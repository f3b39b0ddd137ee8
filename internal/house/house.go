// Package house holds the locations of the haunted house and the table
// that builds a fresh value of each one on every visit.
package house

import (
	"fmt"
	"sort"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/scene"
	"github.com/jwebster45206/adventure-engine/pkg/sequence"
)

// Scene names.
const (
	Intro      = "intro"
	Facade     = "facade"
	Stairs     = "stairs"
	Hallway    = "hallway"
	Backyard   = "backyard"
	Balcony    = "balcony"
	LivingRoom = "living_room"
	Kitchen    = "kitchen"
	Bathroom   = "bathroom"
	Bedroom    = "bedroom"
	Office     = "office"
)

// Start is the first scene of a new game.
const Start = Intro

// offerings lists the offering item ids of the loaded content.
func offerings(b *scene.Base) []string {
	if b.Items == nil {
		return nil
	}
	return b.Items.OfferingItems()
}

// Factory builds one activation of a scene.
type Factory func(deps scene.Deps) scene.Scene

var factories = map[string]Factory{
	Intro:      newIntro,
	Facade:     newFacade,
	Stairs:     newStairs,
	Hallway:    newHallway,
	Backyard:   newBackyard,
	Balcony:    newBalcony,
	LivingRoom: newLivingRoom,
	Kitchen:    newKitchen,
	Bathroom:   newBathroom,
	Bedroom:    newBedroom,
	Office:     newOffice,
}

// New builds the named scene.
func New(name string, deps scene.Deps) (scene.Scene, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q", name)
	}
	return f(deps), nil
}

// Names lists every scene.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name is a scene.
func Known(name string) bool {
	_, ok := factories[name]
	return ok
}

func spot(id, label string, kind scene.Kind) scene.Hotspot {
	return scene.Hotspot{ID: id, Label: label, Kind: kind, Enabled: true, Visible: true}
}

// collectSteps is the usual pickup: a discovery line, the persisted flag
// and the gift when the item is an offering, then the acquisition.
func collectSteps(b *scene.Base, flag, itemID, script, found string) []sequence.Step {
	return []sequence.Step{
		b.PlayStep(script, found),
		b.DoStep("collect "+itemID, func() {
			b.Mark(flag)
			if gift, ok := giftFor(b, itemID); ok {
				b.Publish(gift)
			}
		}),
		b.AcquireStep(b.Item(itemID)),
	}
}

func collect(b *scene.Base, hotspot, flag, itemID, script, found string) {
	guarded(b, hotspot, "collect "+itemID, collectSteps(b, flag, itemID, script, found)...)
}

// guarded disables hotspot while steps run. A failed chain re-derives
// hotspot state from the flags.
func guarded(b *scene.Base, hotspot, name string, steps ...sequence.Step) {
	b.SetEnabled(hotspot, false)
	b.ChainWith(name, steps, sequence.WithOnDone(func(err error) {
		if err != nil && b.Active() {
			b.Refresh()
		}
	}))
}

func giftFor(b *scene.Base, itemID string) (events.Gift, bool) {
	if b.Items == nil {
		return events.Gift{}, false
	}
	gift, ok := b.Items.GiftFor(itemID)
	return events.Gift{GiftID: gift}, ok
}
