// Package broadcast fans game events out over Redis pub/sub so that any API
// replica can stream them to a connected client.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/adventure-engine/pkg/events"
)

// Message is the payload written to a session channel.
type Message struct {
	SessionID string            `json:"session_id"`
	Events    []events.Envelope `json:"events"`
}

// Broadcaster publishes session events to Redis.
type Broadcaster struct {
	client *redis.Client
	logger *slog.Logger
}

func NewBroadcaster(client *redis.Client, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{client: client, logger: logger}
}

// Channel is the pub/sub channel of a session.
func Channel(id uuid.UUID) string {
	return fmt.Sprintf("game-events:%s", id.String())
}

// Publish sends the events produced by one command as a single message.
// Nothing is sent when evts is empty.
func (b *Broadcaster) Publish(ctx context.Context, id uuid.UUID, evts []events.Event) error {
	envs := events.EncodeAll(evts)
	if len(envs) == 0 {
		return nil
	}
	data, err := json.Marshal(Message{SessionID: id.String(), Events: envs})
	if err != nil {
		b.logger.Error("Failed to marshal events", "error", err, "session_id", id)
		return fmt.Errorf("failed to marshal events: %w", err)
	}

	channel := Channel(id)
	if err := b.client.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish events", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish events: %w", err)
	}

	b.logger.Debug("Events published", "channel", channel, "count", len(envs))
	return nil
}

// Subscribe opens a subscription to a session channel. The caller closes it.
func (b *Broadcaster) Subscribe(ctx context.Context, id uuid.UUID) *redis.PubSub {
	return b.client.Subscribe(ctx, Channel(id))
}
