package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/layer-3/walletbridge/core"
	"github.com/layer-3/walletbridge/ports"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis implementation of the SessionStore interface
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis store
func NewRedisStore(client *redis.Client) ports.SessionStore {
	return &RedisStore{
		client: client,
		prefix: "walletbridge:session:",
	}
}

// Save stores the session without expiry; sessions live until disconnect
func (s *RedisStore) Save(ctx context.Context, key string, session core.ConnectionSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w: %w", core.ErrStoreOperationFailed, err)
	}

	return nil
}

// Load returns the session stored under key
func (s *RedisStore) Load(ctx context.Context, key string) (core.ConnectionSession, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return core.ConnectionSession{}, core.ErrSessionNotFound
	}
	if err != nil {
		return core.ConnectionSession{}, fmt.Errorf("failed to load session: %w: %w", core.ErrStoreOperationFailed, err)
	}

	return decodeSession(data)
}

// Delete removes the session stored under key
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w: %w", core.ErrStoreOperationFailed, err)
	}
	return nil
}
