package inventory

import "sync"

// Selection tracks the single selected item and the item waiting to be
// combined with it. Selecting a new item replaces the previous one.
type Selection struct {
	mu       sync.RWMutex
	selected *Item
	pending  *Item
}

func NewSelection() *Selection { return &Selection{} }

func (s *Selection) Select(item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &item
}

// Selected returns the selected item, if any.
func (s *Selection) Selected() (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return Item{}, false
	}
	return *s.selected, true
}

// IsSelected reports whether id is the selected item.
func (s *Selection) IsSelected(id string) bool {
	it, ok := s.Selected()
	return ok && it.ID == id
}

// Clear empties the single-item slot.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// SetPending stores the first item of a combination attempt.
func (s *Selection) SetPending(item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &item
}

func (s *Selection) Pending() (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pending == nil {
		return Item{}, false
	}
	return *s.pending, true
}

// ClearAll empties both slots.
func (s *Selection) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
	s.pending = nil
}
