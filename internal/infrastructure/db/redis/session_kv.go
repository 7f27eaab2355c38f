package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// SessionKV is the Redis-backed durable storage for the session store. Keys
// are written without TTL: the reference behaviour never expires a session.
type SessionKV struct {
	client *redis.Client
}

// NewSessionKV creates a SessionKV wrapping the given Redis client.
func NewSessionKV(client *redis.Client) *SessionKV {
	return &SessionKV{client: client}
}

// Get returns the value for key and whether the key exists.
func (s *SessionKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session kv get %s: %w", key, err)
	}
	return v, true, nil
}

// SetAll writes all entries with a single MSET, which Redis applies
// atomically. Values carry no TTL.
func (s *SessionKV) SetAll(ctx context.Context, entries map[string]string) error {
	values := make(map[string]interface{}, len(entries))
	for k, v := range entries {
		values[k] = v
	}
	if err := s.client.MSet(ctx, values).Err(); err != nil {
		return fmt.Errorf("session kv mset: %w", err)
	}
	return nil
}

func (s *SessionKV) Del(ctx context.Context, keys ...string) error {
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("session kv del: %w", err)
	}
	return nil
}
