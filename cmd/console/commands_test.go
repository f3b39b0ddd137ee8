package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/game"
	"github.com/jwebster45206/adventure-engine/pkg/inventory"
	"github.com/jwebster45206/adventure-engine/pkg/scene"
)

func kitchenView() game.View {
	return game.View{
		Scene: "kitchen",
		Hotspots: []scene.Hotspot{
			{ID: "freezer", Enabled: true, Visible: true},
			{ID: "wine_cooler", Enabled: false, Visible: true},
			{ID: "fridge_note", Enabled: true, Visible: true},
		},
	}
}

func TestParseCommand(t *testing.T) {
	v := kitchenView()
	tests := []struct {
		input string
		want  game.Command
	}{
		{"1", game.Command{Type: game.CmdClick, Hotspot: "freezer"}},
		{"2", game.Command{Type: game.CmdClick, Hotspot: "fridge_note"}},
		{"fridge_note", game.Command{Type: game.CmdClick, Hotspot: "fridge_note"}},
		{"click wine_cooler", game.Command{Type: game.CmdClick, Hotspot: "wine_cooler"}},
		{"n", game.Command{Type: game.CmdAdvance}},
		{"back", game.Command{Type: game.CmdBack}},
		{"use ice_key", game.Command{Type: game.CmdSelect, Item: "ice_key"}},
		{"drop", game.Command{Type: game.CmdDeselect}},
		{"combine weed_joint lighter", game.Command{Type: game.CmdCombine, Item: "weed_joint", With: "lighter"}},
		{"zone sombra", game.Command{Type: game.CmdZone, Zone: "sombra"}},
		{"close", game.Command{Type: game.CmdCloseCloseup}},
		{"code 2531", game.Command{Type: game.CmdPadlock, Code: "2531"}},
		{"win quiz 4", game.Command{Type: game.CmdPuzzle, Puzzle: "quiz", Success: true, Score: 4}},
		{"LOSE rhyme_battle", game.Command{Type: game.CmdPuzzle, Puzzle: "rhyme_battle"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseCommand(tt.input, v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_Notes(t *testing.T) {
	keep, err := parseCommand("keep", game.View{})
	require.NoError(t, err)
	require.NotNil(t, keep.AddToInventory)
	assert.True(t, *keep.AddToInventory)

	leave, err := parseCommand("leave", game.View{})
	require.NoError(t, err)
	assert.False(t, *leave.AddToInventory)
}

func TestParseCommand_EmptyInput(t *testing.T) {
	_, err := parseCommand("  ", game.View{})
	assert.True(t, errors.Is(err, errEmpty))

	cmd, err := parseCommand("", game.View{Dialogue: &game.DialogueView{Text: "..."}})
	require.NoError(t, err)
	assert.Equal(t, game.CmdAdvance, cmd.Type)
}

func TestParseCommand_Choices(t *testing.T) {
	v := kitchenView()
	v.Choices = &events.Choices{Choices: []events.Choice{
		{ID: "yell", Text: "Gritar"},
		{ID: "clap", Text: "Bater palmas"},
	}}

	cmd, err := parseCommand("2", v)
	require.NoError(t, err)
	assert.Equal(t, game.Command{Type: game.CmdChoose, Choice: "clap", Index: 1}, cmd)

	_, err = parseCommand("choose 3", v)
	assert.Error(t, err)
}

func TestParseCommand_Errors(t *testing.T) {
	v := kitchenView()
	for _, input := range []string{"9", "dance", "combine lighter", "choose 1", "code", "win quiz many", "wine_cooler"} {
		t.Run(input, func(t *testing.T) {
			_, err := parseCommand(input, v)
			assert.Error(t, err)
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		evt  events.Event
		want string
	}{
		{"line", events.LineStarted{Line: events.Line{Speaker: "jessica", Text: "Oi."}}, "jessica: Oi."},
		{"inline", events.Inline{Speaker: "jessica", Text: "Isso não funciona aqui..."}, "jessica: Isso não funciona aqui..."},
		{"acquired", events.AcquisitionComplete{Item: inventory.Item{ID: "wine", Name: "Vinho", Icon: "🍷"}}, "+ 🍷 Vinho"},
		{"scene", events.SceneSwitch{From: "stairs", To: "hallway"}, "== hallway =="},
		{"padlock", events.Signal{Name: events.ShowPadlock}, "[cadeado] code <1234>"},
		{"time passes quietly", events.TimeChanged{Clock: "23:00:01"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describe(tt.evt))
		})
	}
}

func TestDescribe_Choices(t *testing.T) {
	got := describe(events.Choices{Question: "E agora?", Choices: []events.Choice{{ID: "a", Text: "Sim"}, {ID: "b", Text: "Não"}}})
	assert.Equal(t, "E agora?\n  1. Sim\n  2. Não", got)
}

func TestWriteMetadata(t *testing.T) {
	v := kitchenView()
	v.Clock = "23:10:00"
	v.InventoryVisible = true
	v.Inventory = []inventory.Item{{ID: "ice_key", Quantity: 3}, {ID: "lighter"}}
	v.Selected = &inventory.Item{ID: "lighter"}
	v.Objectives = true
	v.Gifts = []string{"gift1"}
	v.OfferingsTotal = 5

	out := writeMetadata(v)
	for _, want := range []string{"kitchen", "23:10:00", "1. freezer", "2. fridge_note", "ice_key x3", "▶  lighter", "Oferendas: 1/5"} {
		assert.True(t, strings.Contains(out, want), "metadata missing %q:\n%s", want, out)
	}
	assert.NotContains(t, out, "wine_cooler")
}
