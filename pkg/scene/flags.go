package scene

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/jwebster45206/adventure-engine/pkg/storage"
)

// Flags is a scene's persisted puzzle progress. Booleans only ever move
// from false to true.
type Flags struct {
	Bools    map[string]bool     `json:"bools,omitempty"`
	Counters map[string]int      `json:"counters,omitempty"`
	Sets     map[string][]string `json:"sets,omitempty"`
}

func NewFlags() Flags {
	return Flags{
		Bools:    make(map[string]bool),
		Counters: make(map[string]int),
		Sets:     make(map[string][]string),
	}
}

func (f *Flags) init() {
	if f.Bools == nil {
		f.Bools = make(map[string]bool)
	}
	if f.Counters == nil {
		f.Counters = make(map[string]int)
	}
	if f.Sets == nil {
		f.Sets = make(map[string][]string)
	}
}

func (f Flags) Is(name string) bool { return f.Bools[name] }

// Mark sets a boolean flag and reports whether it changed.
func (f *Flags) Mark(name string) bool {
	f.init()
	if f.Bools[name] {
		return false
	}
	f.Bools[name] = true
	return true
}

func (f Flags) Count(name string) int { return f.Counters[name] }

// Incr bumps a counter and returns the new value.
func (f *Flags) Incr(name string) int {
	f.init()
	f.Counters[name]++
	return f.Counters[name]
}

func (f *Flags) SetCount(name string, n int) {
	f.init()
	f.Counters[name] = n
}

// AddTo inserts member into a named set, reporting whether it was new.
func (f *Flags) AddTo(set, member string) bool {
	f.init()
	if slices.Contains(f.Sets[set], member) {
		return false
	}
	f.Sets[set] = append(f.Sets[set], member)
	return true
}

func (f Flags) Contains(set, member string) bool {
	return slices.Contains(f.Sets[set], member)
}

func (f Flags) Size(set string) int { return len(f.Sets[set]) }

func (f Flags) Members(set string) []string {
	return slices.Clone(f.Sets[set])
}

// Clone returns a deep copy.
func (f Flags) Clone() Flags {
	out := Flags{
		Bools:    maps.Clone(f.Bools),
		Counters: maps.Clone(f.Counters),
		Sets:     make(map[string][]string, len(f.Sets)),
	}
	for k, v := range f.Sets {
		out.Sets[k] = slices.Clone(v)
	}
	out.init()
	return out
}

func (f Flags) Encode() ([]byte, error) {
	return json.Marshal(f)
}

// DecodeFlags parses a stored record. Empty input yields fresh flags.
func DecodeFlags(data []byte) (Flags, error) {
	f := NewFlags()
	if len(data) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return NewFlags(), fmt.Errorf("%w: %v", storage.ErrCorruptState, err)
	}
	f.init()
	return f, nil
}
