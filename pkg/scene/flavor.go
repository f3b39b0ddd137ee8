package scene

import "math/rand/v2"

// FlavorPicker returns random entries from a fixed set without repeating
// any entry until all have been shown. After a reset the last entry shown
// is not picked first.
type FlavorPicker struct {
	options []string
	rand    *rand.Rand
	shown   map[int]bool
	last    int
}

func NewFlavorPicker(r *rand.Rand, options ...string) *FlavorPicker {
	return &FlavorPicker{
		options: options,
		rand:    r,
		shown:   make(map[int]bool, len(options)),
		last:    -1,
	}
}

// Next picks the next entry. It returns "" for an empty set.
func (p *FlavorPicker) Next() string {
	if len(p.options) == 0 {
		return ""
	}
	avoid := -1
	if len(p.shown) >= len(p.options) {
		clear(p.shown)
		if len(p.options) > 1 {
			avoid = p.last
		}
	}

	candidates := make([]int, 0, len(p.options))
	for i := range p.options {
		if !p.shown[i] && i != avoid {
			candidates = append(candidates, i)
		}
	}
	i := candidates[p.rand.IntN(len(candidates))]
	p.shown[i] = true
	p.last = i
	return p.options[i]
}

// Remaining reports how many entries are left before a reset.
func (p *FlavorPicker) Remaining() int {
	return len(p.options) - len(p.shown)
}
