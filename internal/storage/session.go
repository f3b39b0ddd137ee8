package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/adventure-engine/pkg/storage"
)

// SaveSession writes the snapshot and extends the TTL of every key of
// the session.
func (r *RedisStorage) SaveSession(ctx context.Context, snap *storage.Snapshot) error {
	if snap == nil {
		return errors.New("snapshot cannot be nil")
	}
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now()
	}
	data, err := json.Marshal(snap)
	if err != nil {
		r.logger.Error("Failed to marshal session", "session_id", snap.ID, "error", err)
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	scenes, err := r.client.SMembers(ctx, scenesKey(snap.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list scene records: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(snap.ID), data, r.ttl)
		pipe.Expire(ctx, scenesKey(snap.ID), r.ttl)
		for _, scene := range scenes {
			pipe.Expire(ctx, sceneKey(snap.ID, scene), r.ttl)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save session", "session_id", snap.ID, "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadSession(ctx context.Context, id uuid.UUID) (*storage.Snapshot, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Session not found", "session_id", id)
			return nil, nil
		}
		r.logger.Error("Failed to load session", "session_id", id, "error", err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var snap storage.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		r.logger.Error("Failed to unmarshal session", "session_id", id, "error", err)
		return nil, fmt.Errorf("%w: session %s: %v", storage.ErrCorruptState, id, err)
	}
	return &snap, nil
}

// DeleteSession removes the snapshot and every scene record.
func (r *RedisStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	scenes, err := r.client.SMembers(ctx, scenesKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to list scene records: %w", err)
	}
	keys := []string{sessionKey(id), scenesKey(id)}
	for _, scene := range scenes {
		keys = append(keys, sceneKey(id, scene))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Error("Failed to delete session", "session_id", id, "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
