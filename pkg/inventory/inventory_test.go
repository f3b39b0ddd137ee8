package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInventory_Add(t *testing.T) {
	tests := []struct {
		name    string
		adds    []Item
		wantLen int
		wantQty map[string]int
	}{
		{
			name:    "distinct items append",
			adds:    []Item{{ID: "lighter"}, {ID: "weed_joint"}},
			wantLen: 2,
			wantQty: map[string]int{"lighter": 1, "weed_joint": 1},
		},
		{
			name:    "stackable increments",
			adds:    []Item{{ID: "ice_key", Quantity: 1}, {ID: "ice_key", Quantity: 1}},
			wantLen: 1,
			wantQty: map[string]int{"ice_key": 2},
		},
		{
			name:    "non-stackable never duplicates",
			adds:    []Item{{ID: "broom"}, {ID: "broom"}},
			wantLen: 1,
			wantQty: map[string]int{"broom": 1},
		},
		{
			name:    "bulk stack",
			adds:    []Item{{ID: "ice_key", Quantity: 10}, {ID: "ice_key", Quantity: 989}},
			wantLen: 1,
			wantQty: map[string]int{"ice_key": 999},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := New(tt.adds...)
			assert.Equal(t, tt.wantLen, inv.Len())
			for id, qty := range tt.wantQty {
				assert.Equal(t, qty, inv.Quantity(id), id)
			}
		})
	}
}

func TestInventory_Remove(t *testing.T) {
	inv := New(Item{ID: "ice_key", Quantity: 2}, Item{ID: "lighter"})

	inv.Remove("ice_key")
	assert.Equal(t, 1, inv.Quantity("ice_key"))

	inv.Remove("ice_key")
	assert.False(t, inv.Has("ice_key"))

	inv.Remove("ice_key")
	inv.Remove("never_held")
	assert.Equal(t, 1, inv.Len())

	inv.Remove("lighter")
	assert.Equal(t, 0, inv.Len())
}

func TestInventory_RemoveAllAndCountOf(t *testing.T) {
	inv := New(Item{ID: "ice_key", Quantity: 5}, Item{ID: "wine"}, Item{ID: "cheese"})
	inv.RemoveAll("ice_key")
	assert.False(t, inv.Has("ice_key"))
	assert.Equal(t, 2, inv.CountOf("wine", "cheese", "clothes"))
}

func TestInventory_ItemsIsACopy(t *testing.T) {
	inv := New(Item{ID: "lighter", Name: "Lighter"})
	items := inv.Items()
	items[0].Name = "changed"
	got, _ := inv.Get("lighter")
	assert.Equal(t, "Lighter", got.Name)
}

func TestItem_DisplayName(t *testing.T) {
	assert.Equal(t, "Cat Food Can", Item{ID: "cat_food_can"}.DisplayName())
	assert.Equal(t, "Isqueiro", Item{ID: "lighter", Name: "Isqueiro"}.DisplayName())
}

func TestSelection(t *testing.T) {
	sel := NewSelection()
	_, ok := sel.Selected()
	assert.False(t, ok)

	sel.Select(Item{ID: "lighter"})
	sel.Select(Item{ID: "broom"})
	got, ok := sel.Selected()
	assert.True(t, ok)
	assert.Equal(t, "broom", got.ID)
	assert.True(t, sel.IsSelected("broom"))

	sel.SetPending(Item{ID: "cat_food_can"})
	sel.Clear()
	_, ok = sel.Pending()
	assert.True(t, ok, "Clear must leave the pending slot alone")

	sel.ClearAll()
	_, ok = sel.Pending()
	assert.False(t, ok)
}
