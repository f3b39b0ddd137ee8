// Package scene provides the shared machinery of a game location: persisted
// flags, hotspot gating, the intro gate, dialogue and acquisition chains,
// and teardown of everything a scene started once the player leaves it.
package scene

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/jwebster45206/adventure-engine/pkg/clock"
	"github.com/jwebster45206/adventure-engine/pkg/combination"
	"github.com/jwebster45206/adventure-engine/pkg/dialogue"
	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/interaction"
	"github.com/jwebster45206/adventure-engine/pkg/inventory"
	"github.com/jwebster45206/adventure-engine/pkg/sequence"
	"github.com/jwebster45206/adventure-engine/pkg/storage"
)

var (
	ErrUnknownHotspot  = errors.New("unknown hotspot")
	ErrHotspotDisabled = errors.New("hotspot is not interactive")
)

// Scene is one navigable location. A scene value lives for exactly one
// activation: it is built, entered, clicked, and finally left.
type Scene interface {
	Name() string
	Enter(ctx context.Context) error
	Leave()
	Click(ctx context.Context, hotspotID string) error
	Hotspots() []Hotspot
	Flags() Flags
	Background() string
}

// Navigator switches the active scene.
type Navigator interface {
	Navigate(ctx context.Context, scene string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, scene string) error

func (f NavigatorFunc) Navigate(ctx context.Context, scene string) error { return f(ctx, scene) }

// Catalog resolves item ids to display data and knows which items are
// ritual offerings.
type Catalog interface {
	Item(id string) inventory.Item
	OfferingItems() []string
	GiftFor(itemID string) (string, bool)
}

// Deps are the session services a scene works with.
type Deps struct {
	SessionID    uuid.UUID
	Bus          *events.Bus
	Dialogue     *dialogue.Sequencer
	Inventory    *inventory.Inventory
	Selection    *inventory.Selection
	Interactions *interaction.Resolver
	Combinations *combination.Resolver
	Runner       *sequence.Runner
	Clock        *clock.Clock
	Store        storage.Storage
	Items        Catalog
	Navigator    Navigator
	Logger       *slog.Logger
	Rand         *rand.Rand
}

// Kind describes what a hotspot represents.
type Kind string

const (
	Examine     Kind = "examine"
	Collectible Kind = "collectible"
	Door        Kind = "door"
	Puzzle      Kind = "puzzle"
	Character   Kind = "character"
)

// Hotspot is a clickable region.
type Hotspot struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Kind    Kind   `json:"kind"`
	Enabled bool   `json:"enabled"`
	Visible bool   `json:"visible"`
}

// Interactive reports whether a click on the hotspot is handled.
func (h Hotspot) Interactive() bool { return h.Enabled && h.Visible }
