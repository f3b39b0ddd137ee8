// Package content loads the game's static data: the item catalog, the
// starting inventory, interactions, recipes and puzzle answers.
package content

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/adventure-engine/pkg/dialogue"
	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/interaction"
	"github.com/jwebster45206/adventure-engine/pkg/inventory"
)

var ErrInvalid = errors.New("invalid content")

// ItemSpec is a catalog entry.
type ItemSpec struct {
	Name      string `yaml:"name"`
	Icon      string `yaml:"icon"`
	Stackable bool   `yaml:"stackable"`
}

// DialogueRef points at a script or one of its sections.
type DialogueRef struct {
	Script  string `yaml:"script"`
	Section string `yaml:"section"`
}

// RecipeSpec is the data form of a combination recipe.
type RecipeSpec struct {
	Ingredients []string     `yaml:"ingredients"`
	Result      string       `yaml:"result"`
	Keep        []string     `yaml:"keep"`
	Dialogue    *DialogueRef `yaml:"dialogue"`
}

// InteractionSpec is the data form of an interaction.
type InteractionSpec struct {
	Item    string `yaml:"item"`
	Object  string `yaml:"object"`
	Event   string `yaml:"event"`
	Consume *bool  `yaml:"consume"`
}

// OfferingSpec names a ritual offering and the gift it counts as.
type OfferingSpec struct {
	Item string `yaml:"item"`
	Gift string `yaml:"gift"`
}

type Line struct {
	Speaker string `yaml:"speaker"`
	Text    string `yaml:"text"`
}

type Puzzles struct {
	PadlockCodes []string `yaml:"padlock_codes"`
}

// Content is the whole content file.
type Content struct {
	StartingInventory []string            `yaml:"starting_inventory"`
	Items             map[string]ItemSpec `yaml:"items"`
	Interactions      []InteractionSpec   `yaml:"interactions"`
	Recipes           []RecipeSpec        `yaml:"recipes"`
	Offerings         []OfferingSpec      `yaml:"offerings"`
	Puzzles           Puzzles             `yaml:"puzzles"`
	NoEffect          *Line               `yaml:"no_effect"`
}

// Load reads and validates the YAML content file at path.
func Load(path string) (*Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("content: open %q: %w", path, err)
	}
	defer f.Close()

	c, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("content: parse %q: %w", path, err)
	}
	return c, nil
}

// LoadFromReader decodes content from r and validates it. Unknown fields
// are rejected.
func LoadFromReader(r io.Reader) (*Content, error) {
	c := &Content{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("content: decode yaml: %w", err)
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks references between sections and the shape of each
// record, returning every problem found.
func Validate(c *Content) error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}
	known := func(where, id string) {
		if _, ok := c.Items[id]; !ok {
			bad("%s references unknown item %q", where, id)
		}
	}

	for id := range c.Items {
		if !dialogue.ValidID(id) {
			bad("item id %q must be lowercase snake_case", id)
		}
	}
	for _, id := range c.StartingInventory {
		known("starting_inventory", id)
	}
	gifts := make(map[string]bool, len(c.Offerings))
	items := make(map[string]bool, len(c.Offerings))
	for i, o := range c.Offerings {
		where := fmt.Sprintf("offerings[%d]", i)
		known(where, o.Item)
		if items[o.Item] {
			bad("%s repeats item %q", where, o.Item)
		}
		items[o.Item] = true
		switch {
		case o.Gift == "":
			bad("%s needs a gift", where)
		case gifts[o.Gift]:
			bad("%s repeats gift %q", where, o.Gift)
		}
		gifts[o.Gift] = true
	}
	for i, in := range c.Interactions {
		where := fmt.Sprintf("interactions[%d]", i)
		known(where, in.Item)
		if in.Object == "" || in.Event == "" {
			bad("%s needs both object and event", where)
		}
	}
	for i, r := range c.Recipes {
		where := fmt.Sprintf("recipes[%d]", i)
		if len(r.Ingredients) != 2 || r.Ingredients[0] == r.Ingredients[1] {
			bad("%s needs exactly two distinct ingredients", where)
			continue
		}
		for _, id := range r.Ingredients {
			known(where, id)
		}
		for _, id := range r.Keep {
			if !slices.Contains(r.Ingredients, id) {
				bad("%s keeps %q which is not an ingredient", where, id)
			}
		}
		if r.Result != "" {
			known(where+".result", r.Result)
		}
		if r.Result == "" && r.Dialogue == nil {
			bad("%s has neither a result nor a dialogue", where)
		}
		if r.Dialogue != nil && !dialogue.ValidID(r.Dialogue.Script) {
			bad("%s dialogue script %q is not a valid id", where, r.Dialogue.Script)
		}
	}
	for i, code := range c.Puzzles.PadlockCodes {
		if len(code) != 4 {
			bad("puzzles.padlock_codes[%d] must have four digits", i)
		}
	}
	return errors.Join(errs...)
}

// Item builds an inventory item from the catalog. Unknown ids get a bare
// item named after the id.
func (c *Content) Item(id string) inventory.Item {
	spec, ok := c.Items[id]
	if !ok {
		return inventory.Item{ID: id}
	}
	it := inventory.Item{ID: id, Name: spec.Name, Icon: spec.Icon}
	if spec.Stackable {
		it.Quantity = 1
	}
	return it
}

// Starting returns the starting inventory.
func (c *Content) Starting() []inventory.Item {
	out := make([]inventory.Item, 0, len(c.StartingInventory))
	for _, id := range c.StartingInventory {
		out = append(out, c.Item(id))
	}
	return out
}

// InteractionRecords converts the interaction specs.
func (c *Content) InteractionRecords() []interaction.Interaction {
	out := make([]interaction.Interaction, 0, len(c.Interactions))
	for _, in := range c.Interactions {
		out = append(out, interaction.Interaction{
			ItemID:      in.Item,
			ObjectID:    in.Object,
			Event:       events.Name(in.Event),
			ConsumeItem: in.Consume,
		})
	}
	return out
}

// NoEffectLine returns the configured fallback line.
func (c *Content) NoEffectLine() events.Inline {
	if c.NoEffect == nil {
		return interaction.DefaultNoEffect
	}
	return events.Inline{Speaker: c.NoEffect.Speaker, Text: c.NoEffect.Text}
}

// OfferingItems lists the offering item ids in file order.
func (c *Content) OfferingItems() []string {
	out := make([]string, 0, len(c.Offerings))
	for _, o := range c.Offerings {
		out = append(out, o.Item)
	}
	return out
}

// GiftFor returns the gift an offering item counts as.
func (c *Content) GiftFor(itemID string) (string, bool) {
	for _, o := range c.Offerings {
		if o.Item == itemID {
			return o.Gift, true
		}
	}
	return "", false
}

// ValidPadlockCode reports whether code opens the front gate.
func (c *Content) ValidPadlockCode(code string) bool {
	return slices.Contains(c.Puzzles.PadlockCodes, code)
}
