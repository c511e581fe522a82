package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSlot stores the document as a single redis string
type RedisSlot struct {
	client *redis.Client
	key    string
	shared bool
}

// NewRedisSlot connects to redisURL and returns a slot for key
func NewRedisSlot(ctx context.Context, redisURL, key string) (*RedisSlot, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	slot := NewRedisSlotFromClient(redis.NewClient(opts), key)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := slot.Ping(pingCtx); err != nil {
		_ = slot.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return slot, nil
}

// NewRedisSlotFromClient wraps an existing client
func NewRedisSlotFromClient(client *redis.Client, key string) *RedisSlot {
	return &RedisSlot{client: client, key: key}
}

func (s *RedisSlot) Read(ctx context.Context) ([]byte, error) {
	doc, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read redis key: %w", err)
	}
	return doc, nil
}

func (s *RedisSlot) Write(ctx context.Context, doc []byte) error {
	if err := s.client.Set(ctx, s.key, doc, 0).Err(); err != nil {
		return fmt.Errorf("failed to write redis key: %w", err)
	}
	return nil
}

// Ping checks if Redis is reachable
func (s *RedisSlot) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Sibling returns a slot for key+suffix on the same client
func (s *RedisSlot) Sibling(suffix string) Slot {
	return &RedisSlot{client: s.client, key: s.key + suffix, shared: true}
}

func (s *RedisSlot) Close() error {
	if s.shared {
		return nil
	}
	return s.client.Close()
}
