// Package combination resolves pairs of inventory items against recipes.
package combination

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/inventory"
	"github.com/jwebster45206/adventure-engine/pkg/sequence"
)

// Recipe combines two distinct items. Result and OnCombine are optional.
type Recipe struct {
	Ingredients [2]string
	Result      *inventory.Item
	KeepItems   []string
	OnCombine   []sequence.Step
}

// Matches reports whether a and b are this recipe's ingredients in any order.
func (r Recipe) Matches(a, b string) bool {
	x, y := sorted(a, b)
	p, q := sorted(r.Ingredients[0], r.Ingredients[1])
	return x == p && y == q
}

// Consumed lists the ingredients removed when the recipe fires.
func (r Recipe) Consumed() []string {
	var out []string
	for _, id := range r.Ingredients {
		if !slices.Contains(r.KeepItems, id) {
			out = append(out, id)
		}
	}
	return out
}

func sorted(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// Outcome reports what Combine did. Matched is false only when no recipe
// applied; a matched recipe without a result still counts as success.
type Outcome struct {
	Matched bool
	Recipe  Recipe
	// Chain is the side-effect chain, nil when the recipe has none.
	Chain *sequence.Chain
}

// Resolver holds recipes and applies them to the inventory.
type Resolver struct {
	bus       *events.Bus
	inventory *inventory.Inventory
	selection *inventory.Selection
	runner    *sequence.Runner
	logger    *slog.Logger

	mu      sync.RWMutex
	recipes []Recipe
}

func NewResolver(bus *events.Bus, inv *inventory.Inventory, sel *inventory.Selection, runner *sequence.Runner, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		bus:       bus,
		inventory: inv,
		selection: sel,
		runner:    runner,
		logger:    logger,
	}
}

func (r *Resolver) Add(recipes ...Recipe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes = append(r.recipes, recipes...)
}

// Find returns the recipe for a pair of item ids in either order.
func (r *Resolver) Find(a, b string) (Recipe, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.recipes {
		if rec.Matches(a, b) {
			return rec, true
		}
	}
	return Recipe{}, false
}

// Combine applies the recipe for a and b. Both must be distinct held items.
// Ingredients not kept are removed first, then the side-effect steps run;
// once they finish the result (if any) is announced with ItemAcquired and
// both selection slots are cleared. With a side effect that waits on
// events, that tail happens when the chain completes.
func (r *Resolver) Combine(ctx context.Context, a, b inventory.Item) Outcome {
	if a.ID == b.ID || !r.inventory.Has(a.ID) || !r.inventory.Has(b.ID) {
		r.logger.Debug("combination needs two distinct held items", "a", a.ID, "b", b.ID)
		return Outcome{}
	}
	rec, ok := r.Find(a.ID, b.ID)
	if !ok {
		r.logger.Debug("no recipe", "a", a.ID, "b", b.ID)
		return Outcome{}
	}

	for _, id := range rec.Consumed() {
		r.inventory.Remove(id)
	}
	r.logger.Info("combination matched", "a", a.ID, "b", b.ID, "consumed", rec.Consumed())

	out := Outcome{Matched: true, Recipe: rec}
	if len(rec.OnCombine) == 0 {
		r.complete(rec)
		return out
	}
	out.Chain = r.runner.Run(ctx, "combine:"+rec.Ingredients[0]+"+"+rec.Ingredients[1], rec.OnCombine,
		sequence.WithOnDone(func(err error) {
			if err != nil {
				r.logger.Warn("combination side effect did not finish", "error", err)
				r.selection.ClearAll()
				return
			}
			r.complete(rec)
		}))
	return out
}

func (r *Resolver) complete(rec Recipe) {
	if rec.Result != nil {
		r.bus.Publish(events.Acquired{Item: *rec.Result})
	}
	r.selection.ClearAll()
}
