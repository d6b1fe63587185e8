package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "kv:"

// RedisStore implements Store using Redis strings. Values never expire.
type RedisStore struct {
	client *redis.Client
	log    *zap.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed Store.
func NewRedisStore(client *redis.Client, log *zap.Logger) *RedisStore {
	return &RedisStore{client: client, log: log}
}

func redisKey(key string) string {
	return keyPrefix + key
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, redisKey(key), value, 0).Err(); err != nil {
		s.log.Error("failed to set key", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("redis set: %w", err)
	}

	s.log.Debug("key stored", zap.String("key", key))
	return nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		s.log.Debug("key miss", zap.String("key", key))
		return "", false, nil
	}
	if err != nil {
		s.log.Error("failed to get key", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("redis get: %w", err)
	}

	s.log.Debug("key hit", zap.String("key", key))
	return v, true, nil
}
