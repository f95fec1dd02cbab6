// Package idempotency remembers which order an Idempotency-Key created so a
// retried request returns the same order instead of placing a new one.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyOrderCreate is the Redis key holding the order created for a client key.
const KeyOrderCreate = "idem:order:create:%s"

// Store maps client keys to order IDs.
type Store interface {
	// Lookup returns the order ID recorded for key; ok is false when none is.
	Lookup(ctx context.Context, key string) (orderID string, ok bool, err error)
	Remember(ctx context.Context, key, orderID string) error
}

// RedisStore keeps keys in Redis with a TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisClient connects to Redis at addr and checks the connection.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
		ReadTimeout: 2 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// NewRedisStore returns a Store whose entries expire after ttl.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	id, err := s.rdb.Get(ctx, fmt.Sprintf(KeyOrderCreate, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up idempotency key: %w", err)
	}
	return id, true, nil
}

func (s *RedisStore) Remember(ctx context.Context, key, orderID string) error {
	if err := s.rdb.Set(ctx, fmt.Sprintf(KeyOrderCreate, key), orderID, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}
	return nil
}
