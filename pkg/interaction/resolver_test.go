package interaction

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/inventory"
)

type fixture struct {
	bus      *events.Bus
	inv      *inventory.Inventory
	sel      *inventory.Selection
	resolver *Resolver
	fired    map[events.Name]int
}

func newFixture() *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		bus:   events.NewBus(logger),
		inv:   inventory.New(inventory.Item{ID: "lighter"}, inventory.Item{ID: "broom"}),
		sel:   inventory.NewSelection(),
		fired: make(map[events.Name]int),
	}
	f.bus.SubscribeAll(func(e events.Event) { f.fired[e.EventName()]++ })
	f.resolver = NewResolver(f.bus, f.inv, f.sel, logger)
	keep := false
	f.resolver.Add(
		Interaction{ItemID: "lighter", ObjectID: "grill_with_sanitizer", Event: "grill_lit"},
		Interaction{ItemID: "broom", ObjectID: "cobweb", Event: "cobweb_cleared", ConsumeItem: &keep},
	)
	return f
}

func TestUseItemOnObject_Consumes(t *testing.T) {
	f := newFixture()
	f.sel.Select(inventory.Item{ID: "lighter"})

	ok := f.resolver.UseItemOnObject(inventory.Item{ID: "lighter"}, "grill_with_sanitizer")

	assert.True(t, ok)
	assert.False(t, f.inv.Has("lighter"))
	assert.Equal(t, 1, f.fired["grill_lit"])
	_, selected := f.sel.Selected()
	assert.False(t, selected)
}

func TestUseItemOnObject_Keeps(t *testing.T) {
	f := newFixture()
	ok := f.resolver.UseItemOnObject(inventory.Item{ID: "broom"}, "cobweb")
	assert.True(t, ok)
	assert.True(t, f.inv.Has("broom"))
	assert.Equal(t, 1, f.fired["cobweb_cleared"])
}

func TestUseItemOnObject_NoMatchLeavesStateAlone(t *testing.T) {
	tests := []struct {
		name   string
		item   string
		object string
	}{
		{"wrong object", "lighter", "toilet"},
		{"wrong item", "broom", "grill_with_sanitizer"},
		{"reversed pair", "grill_with_sanitizer", "lighter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.sel.Select(inventory.Item{ID: tt.item})
			before := f.inv.Items()

			ok := f.resolver.UseItemOnObject(inventory.Item{ID: tt.item}, tt.object)

			assert.False(t, ok)
			assert.Equal(t, before, f.inv.Items())
			assert.True(t, f.sel.IsSelected(tt.item))
			assert.Equal(t, 1, f.fired[events.ShowDialogue])
		})
	}
}

func TestConsumesDefault(t *testing.T) {
	assert.True(t, Interaction{}.Consumes())
	no := false
	assert.False(t, Interaction{ConsumeItem: &no}.Consumes())
}
