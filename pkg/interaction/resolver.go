// Package interaction applies a held item to a world object.
package interaction

import (
	"log/slog"
	"sync"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/inventory"
)

// Interaction maps one item used on one object to an effect event.
type Interaction struct {
	ItemID      string      `json:"item_id" yaml:"item"`
	ObjectID    string      `json:"object_id" yaml:"object"`
	Event       events.Name `json:"event" yaml:"event"`
	ConsumeItem *bool       `json:"consume_item,omitempty" yaml:"consume_item"`
}

// Consumes reports whether the item is removed on use. Defaults to true.
func (i Interaction) Consumes() bool {
	return i.ConsumeItem == nil || *i.ConsumeItem
}

// DefaultNoEffect is published when nothing matches.
var DefaultNoEffect = events.Inline{Speaker: "jessica", Text: "Isso não funciona aqui..."}

// Resolver matches item/object pairs against its records.
type Resolver struct {
	bus       *events.Bus
	inventory *inventory.Inventory
	selection *inventory.Selection
	logger    *slog.Logger

	mu       sync.RWMutex
	records  []Interaction
	noEffect events.Inline
}

func NewResolver(bus *events.Bus, inv *inventory.Inventory, sel *inventory.Selection, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		bus:       bus,
		inventory: inv,
		selection: sel,
		logger:    logger,
		noEffect:  DefaultNoEffect,
	}
}

// Add registers interactions. Earlier records win when two share a pair.
func (r *Resolver) Add(records ...Interaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, records...)
}

// SetNoEffect replaces the line published when nothing matches.
func (r *Resolver) SetNoEffect(line events.Inline) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.noEffect = line
}

// Find returns the interaction for an item/object pair.
func (r *Resolver) Find(itemID, objectID string) (Interaction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.ItemID == itemID && rec.ObjectID == objectID {
			return rec, true
		}
	}
	return Interaction{}, false
}

// UseItemOnObject fires the matching effect event, consumes the item when
// required and clears the selection. Without a match it publishes the
// no-effect line and leaves inventory and selection alone.
func (r *Resolver) UseItemOnObject(item inventory.Item, objectID string) bool {
	rec, ok := r.Find(item.ID, objectID)
	if !ok {
		r.mu.RLock()
		line := r.noEffect
		r.mu.RUnlock()
		r.logger.Debug("no interaction", "item", item.ID, "object", objectID)
		r.bus.Publish(line)
		return false
	}

	r.logger.Info("interaction matched", "item", item.ID, "object", objectID, "event", string(rec.Event))
	r.bus.Publish(events.Signal{Name: rec.Event})
	if rec.Consumes() {
		r.inventory.Remove(item.ID)
	}
	r.selection.Clear()
	return true
}
