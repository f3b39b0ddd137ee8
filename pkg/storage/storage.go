package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/pkg/inventory"
)

var (
	// ErrCorruptState marks stored data that could not be decoded.
	ErrCorruptState = errors.New("corrupt stored state")
	// ErrSessionNotFound is returned by helpers that require a session.
	ErrSessionNotFound = errors.New("session not found")
)

// Snapshot is the session-wide state that lives outside any scene. Pending
// holds pickups announced but not yet shown by the client.
type Snapshot struct {
	ID         uuid.UUID        `json:"id"`
	Scene      string           `json:"scene"`
	Inventory  []inventory.Item `json:"inventory"`
	Pending    []inventory.Item `json:"pending,omitempty"`
	Gifts      []string         `json:"gifts,omitempty"`
	Elapsed    int              `json:"elapsed_seconds"`
	Objectives bool             `json:"objectives,omitempty"`
	GameOver   bool             `json:"game_over,omitempty"`
	Finished   bool             `json:"finished,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Storage is the session-scoped key-value store behind the game.
// Load methods return (nil, nil) when nothing is stored.
type Storage interface {
	Ping(ctx context.Context) error
	Close() error

	// Scene flags are stored as opaque serialized records, one per scene.
	LoadSceneState(ctx context.Context, sessionID uuid.UUID, scene string) ([]byte, error)
	SaveSceneState(ctx context.Context, sessionID uuid.UUID, scene string, data []byte) error

	SaveSession(ctx context.Context, snap *Snapshot) error
	LoadSession(ctx context.Context, id uuid.UUID) (*Snapshot, error)
	// DeleteSession removes the snapshot and every scene record of the session.
	DeleteSession(ctx context.Context, id uuid.UUID) error
}
