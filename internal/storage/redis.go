// Package storage keeps session snapshots and per-scene flags in Redis.
// Every key of a session shares the session's TTL, which is refreshed on
// each snapshot write.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/adventure-engine/pkg/storage"
)

const DefaultTTL = 2 * time.Hour

// RedisStorage implements storage.Storage on Redis.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage connects to the Redis server at addr.
func NewRedisStorage(addr string, ttl time.Duration, logger *slog.Logger) *RedisStorage {
	return NewRedisStorageFromClient(redis.NewClient(&redis.Options{Addr: addr}), ttl, logger)
}

// NewRedisStorageFromClient wraps an existing client.
func NewRedisStorageFromClient(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisStorage {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStorage{client: client, logger: logger, ttl: ttl}
}

// Client exposes the connection for pub/sub users.
func (r *RedisStorage) Client() *redis.Client { return r.client }

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	const maxRetries = 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func sessionKey(id uuid.UUID) string { return "session:" + id.String() }

// scenesKey holds the names of the scenes that have stored flags.
func scenesKey(id uuid.UUID) string { return sessionKey(id) + ":scenes" }

func sceneKey(id uuid.UUID, scene string) string {
	return sessionKey(id) + ":scene:" + scene
}
