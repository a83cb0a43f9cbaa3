package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flowwed/emily/pkg/llm"
)

const (
	// Redis key prefix for sessions.
	sessionKeyPrefix = "session:"

	// Default TTL for session keys.
	defaultTTL = 24 * time.Hour
)

// RedisStore implements Store using Redis, for deployments where the chat
// backend runs as more than one process.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store. A non-positive ttl
// falls back to 24 hours.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// GetOrCreate implements Store. The seed is written only when no history
// exists; a concurrent first access may win the write, in which case the
// stored history is returned.
func (s *RedisStore) GetOrCreate(ctx context.Context, key Key, seed llm.Message) ([]llm.Message, error) {
	rkey := s.key(key)

	val, err := json.Marshal([]llm.Message{seed})
	if err != nil {
		return nil, err
	}

	created, err := s.client.SetNX(ctx, rkey, val, s.ttl).Result()
	if err != nil {
		return nil, err
	}
	if created {
		return []llm.Message{seed}, nil
	}

	stored, err := s.client.Get(ctx, rkey).Result()
	if errors.Is(err, redis.Nil) {
		// Expired between SetNX and Get; treat as fresh.
		return []llm.Message{seed}, nil
	}
	if err != nil {
		return nil, err
	}

	var history []llm.Message
	if err := json.Unmarshal([]byte(stored), &history); err != nil {
		return nil, err
	}

	// Refresh TTL on read
	_ = s.client.Expire(ctx, rkey, s.ttl).Err()

	return history, nil
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, key Key, history []llm.Message) error {
	val, err := json.Marshal(history)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, s.key(key), val, s.ttl).Err()
}

// Refresh implements Store. Uses WATCH so a concurrent Put is not
// clobbered with a stale tail.
func (s *RedisStore) Refresh(ctx context.Context, key Key, preamble string) error {
	rkey := s.key(key)

	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := tx.Get(ctx, rkey).Result()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var history []llm.Message
		if err := json.Unmarshal([]byte(stored), &history); err != nil {
			return err
		}
		if len(history) == 0 {
			return ErrNotFound
		}

		history[0] = llm.NewMessage(llm.RoleSystem, preamble)

		val, err := json.Marshal(history)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, rkey, val, s.ttl)
			return nil
		})
		return err
	}, rkey)
}

// Evict implements Store.
func (s *RedisStore) Evict(ctx context.Context, key Key) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// key constructs the Redis key for a session key.
func (s *RedisStore) key(key Key) string {
	return sessionKeyPrefix + key.String()
}

// Compile-time check that RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
