package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// LoadSceneState returns the raw flag record of a scene, or nil when the
// scene was never saved.
func (r *RedisStorage) LoadSceneState(ctx context.Context, sessionID uuid.UUID, scene string) ([]byte, error) {
	data, err := r.client.Get(ctx, sceneKey(sessionID, scene)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.logger.Error("Failed to load scene state", "session_id", sessionID, "scene", scene, "error", err)
		return nil, fmt.Errorf("failed to load scene state: %w", err)
	}
	return data, nil
}

func (r *RedisStorage) SaveSceneState(ctx context.Context, sessionID uuid.UUID, scene string, data []byte) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sceneKey(sessionID, scene), data, r.ttl)
		pipe.SAdd(ctx, scenesKey(sessionID), scene)
		pipe.Expire(ctx, scenesKey(sessionID), r.ttl)
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save scene state", "session_id", sessionID, "scene", scene, "error", err)
		return fmt.Errorf("failed to save scene state: %w", err)
	}
	return nil
}
