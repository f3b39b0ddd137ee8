// Package inventory holds the player's items and the current selection.
package inventory

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Item is a collectible. Identity is the ID. A positive Quantity marks the
// item as stackable.
type Item struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Icon     string `json:"icon,omitempty" yaml:"icon"`
	Quantity int    `json:"quantity,omitempty" yaml:"quantity"`
}

// Stackable reports whether repeated adds increment a quantity.
func (i Item) Stackable() bool { return i.Quantity > 0 }

// DisplayName returns Name, or a title-cased form of the ID when no name is
// set ("cat_food_can" becomes "Cat Food Can").
func (i Item) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return cases.Title(language.English).String(strings.ReplaceAll(i.ID, "_", " "))
}

// Inventory is an ordered collection of items with unique IDs.
type Inventory struct {
	mu    sync.RWMutex
	items []Item
}

// New returns an inventory holding the given items in order.
func New(items ...Item) *Inventory {
	inv := &Inventory{}
	for _, it := range items {
		inv.Add(it)
	}
	return inv
}

func (inv *Inventory) index(id string) int {
	for i, it := range inv.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Add appends item, or increments the quantity of a held stackable item.
// Adding a non-stackable item that is already held does nothing.
func (inv *Inventory) Add(item Item) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	i := inv.index(item.ID)
	if i < 0 {
		inv.items = append(inv.items, item)
		return
	}
	if inv.items[i].Stackable() {
		n := item.Quantity
		if n < 1 {
			n = 1
		}
		inv.items[i].Quantity += n
	}
}

// AddQuantity adds n units of a stackable item.
func (inv *Inventory) AddQuantity(item Item, n int) {
	if n <= 0 {
		return
	}
	item.Quantity = n
	inv.Add(item)
}

// Remove takes one unit of id away, dropping the entry when it reaches
// zero. Removing an absent id is a no-op.
func (inv *Inventory) Remove(id string) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	i := inv.index(id)
	if i < 0 {
		return
	}
	if inv.items[i].Quantity > 1 {
		inv.items[i].Quantity--
		return
	}
	inv.items = append(inv.items[:i], inv.items[i+1:]...)
}

// RemoveAll drops the entry for id regardless of quantity.
func (inv *Inventory) RemoveAll(id string) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if i := inv.index(id); i >= 0 {
		inv.items = append(inv.items[:i], inv.items[i+1:]...)
	}
}

func (inv *Inventory) Has(id string) bool {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.index(id) >= 0
}

func (inv *Inventory) Get(id string) (Item, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	if i := inv.index(id); i >= 0 {
		return inv.items[i], true
	}
	return Item{}, false
}

// Quantity returns how many units of id are held: 0 when absent, 1 for a
// held non-stackable item.
func (inv *Inventory) Quantity(id string) int {
	it, ok := inv.Get(id)
	switch {
	case !ok:
		return 0
	case it.Quantity > 0:
		return it.Quantity
	default:
		return 1
	}
}

// CountOf returns how many of ids are currently held.
func (inv *Inventory) CountOf(ids ...string) int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	n := 0
	for _, id := range ids {
		if inv.index(id) >= 0 {
			n++
		}
	}
	return n
}

// Items returns a copy of the held items in insertion order.
func (inv *Inventory) Items() []Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make([]Item, len(inv.items))
	copy(out, inv.items)
	return out
}

func (inv *Inventory) Len() int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return len(inv.items)
}

// Replace swaps the whole content, used when restoring a session.
func (inv *Inventory) Replace(items []Item) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.items = nil
	for _, it := range items {
		if inv.index(it.ID) < 0 {
			inv.items = append(inv.items, it)
		}
	}
}
