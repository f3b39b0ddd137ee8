package combination

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/inventory"
	"github.com/jwebster45206/adventure-engine/pkg/sequence"
)

type fixture struct {
	bus      *events.Bus
	inv      *inventory.Inventory
	sel      *inventory.Selection
	resolver *Resolver
	acquired []inventory.Item
}

func newFixture(items ...inventory.Item) *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		bus: events.NewBus(logger),
		inv: inventory.New(items...),
		sel: inventory.NewSelection(),
	}
	f.bus.Subscribe(events.ItemAcquired, func(e events.Event) {
		f.acquired = append(f.acquired, e.(events.Acquired).Item)
	})
	f.resolver = NewResolver(f.bus, f.inv, f.sel, sequence.NewRunner(f.bus, logger), logger)
	return f
}

var catFood = Recipe{
	Ingredients: [2]string{"cat_food_can", "miniature_rake"},
	Result:      &inventory.Item{ID: "open_cat_food_can", Name: "Lata aberta", Icon: "🥫"},
	KeepItems:   []string{"miniature_rake"},
}

func TestCombine_KeepsAndProduces(t *testing.T) {
	f := newFixture(inventory.Item{ID: "cat_food_can"}, inventory.Item{ID: "miniature_rake"})
	f.resolver.Add(catFood)
	f.sel.Select(inventory.Item{ID: "miniature_rake"})
	f.sel.SetPending(inventory.Item{ID: "cat_food_can"})

	out := f.resolver.Combine(context.Background(), inventory.Item{ID: "cat_food_can"}, inventory.Item{ID: "miniature_rake"})

	assert.True(t, out.Matched)
	assert.False(t, f.inv.Has("cat_food_can"))
	assert.True(t, f.inv.Has("miniature_rake"))
	assert.False(t, f.inv.Has("open_cat_food_can"), "result is announced, not inserted")
	require.Len(t, f.acquired, 1)
	assert.Equal(t, "open_cat_food_can", f.acquired[0].ID)
	_, sel := f.sel.Selected()
	_, pending := f.sel.Pending()
	assert.False(t, sel || pending)
}

func TestCombine_OrderIndependent(t *testing.T) {
	orders := [][2]string{{"cat_food_can", "miniature_rake"}, {"miniature_rake", "cat_food_can"}}
	var results []Outcome
	for _, o := range orders {
		f := newFixture(inventory.Item{ID: "cat_food_can"}, inventory.Item{ID: "miniature_rake"})
		f.resolver.Add(catFood)
		out := f.resolver.Combine(context.Background(), inventory.Item{ID: o[0]}, inventory.Item{ID: o[1]})
		results = append(results, out)
		assert.Equal(t, []string{"miniature_rake"}, ids(f.inv.Items()))
	}
	assert.Equal(t, results[0].Matched, results[1].Matched)
	assert.Equal(t, results[0].Recipe.Result, results[1].Recipe.Result)
}

func TestCombine_NoMatchNoMutation(t *testing.T) {
	tests := []struct {
		name string
		held []inventory.Item
		a, b string
	}{
		{"unknown pair", []inventory.Item{{ID: "lighter"}, {ID: "broom"}}, "lighter", "broom"},
		{"same item twice", []inventory.Item{{ID: "cat_food_can"}, {ID: "miniature_rake"}}, "cat_food_can", "cat_food_can"},
		{"ingredient not held", []inventory.Item{{ID: "cat_food_can"}}, "cat_food_can", "miniature_rake"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.held...)
			f.resolver.Add(catFood)
			f.sel.Select(inventory.Item{ID: tt.a})
			before := f.inv.Items()

			out := f.resolver.Combine(context.Background(), inventory.Item{ID: tt.a}, inventory.Item{ID: tt.b})

			assert.False(t, out.Matched)
			assert.Equal(t, before, f.inv.Items())
			assert.True(t, f.sel.IsSelected(tt.a))
			assert.Empty(t, f.acquired)
		})
	}
}

func TestCombine_SideEffectWithoutResult(t *testing.T) {
	f := newFixture(inventory.Item{ID: "weed_joint"}, inventory.Item{ID: "lighter"})
	played := 0
	f.resolver.Add(Recipe{
		Ingredients: [2]string{"weed_joint", "lighter"},
		KeepItems:   []string{"lighter"},
		OnCombine: []sequence.Step{{
			Name:  "smoke",
			Do:    func(context.Context) error { played++; return nil },
			Await: events.DialogueEnded,
		}},
	})
	f.sel.SetPending(inventory.Item{ID: "weed_joint"})

	out := f.resolver.Combine(context.Background(), inventory.Item{ID: "lighter"}, inventory.Item{ID: "weed_joint"})

	require.True(t, out.Matched)
	require.NotNil(t, out.Chain)
	assert.Equal(t, 1, played)
	assert.False(t, f.inv.Has("weed_joint"))
	_, pending := f.sel.Pending()
	assert.True(t, pending, "selection clears only after the side effect completes")

	f.bus.Publish(events.Ended{})
	assert.True(t, out.Chain.Done())
	_, pending = f.sel.Pending()
	assert.False(t, pending)
	assert.Empty(t, f.acquired)
}

func TestCombine_FailedSideEffectSkipsResult(t *testing.T) {
	f := newFixture(inventory.Item{ID: "cat_food_can"}, inventory.Item{ID: "miniature_rake"})
	rec := catFood
	rec.OnCombine = []sequence.Step{{Name: "explode", Do: func(context.Context) error { return errors.New("no script") }}}
	f.resolver.Add(rec)

	out := f.resolver.Combine(context.Background(), inventory.Item{ID: "cat_food_can"}, inventory.Item{ID: "miniature_rake"})

	assert.True(t, out.Matched)
	assert.Equal(t, sequence.Failed, out.Chain.Status())
	assert.Empty(t, f.acquired)
}

func TestRecipe_NeverConsumesKeptItems(t *testing.T) {
	recipes := []Recipe{
		catFood,
		{Ingredients: [2]string{"weed_joint", "lighter"}, KeepItems: []string{"lighter"}},
		{Ingredients: [2]string{"a", "b"}, KeepItems: []string{"a", "b"}},
		{Ingredients: [2]string{"a", "b"}},
	}
	for _, rec := range recipes {
		for _, id := range rec.Consumed() {
			assert.NotContains(t, rec.KeepItems, id)
		}
	}
	assert.Len(t, recipes[3].Consumed(), 2)
}

func ids(items []inventory.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
