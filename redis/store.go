// Package redis provides a Redis-backed key store, for deployments where the
// key identifier lives in a shared store rather than on the device, such as
// device farms and integration environments.
//
// This package requires a Redis client to be passed in, giving you full control
// over connection pooling, timeouts, and clustering configuration.
//
// Supported Redis clients:
//   - github.com/redis/go-redis/v9
//   - Any client implementing the Cmdable interface
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kacy/device-integrity/keystore"
)

// Cmdable is the subset of Redis commands the store needs.
// This is compatible with github.com/redis/go-redis/v9.Client and ClusterClient.
type Cmdable interface {
	Get(ctx context.Context, key string) StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) StatusCmd
	Del(ctx context.Context, keys ...string) IntCmd
}

// StringCmd is the interface for string command results.
type StringCmd interface {
	Result() (string, error)
}

// StatusCmd is the interface for status command results.
type StatusCmd interface {
	Err() error
}

// IntCmd is the interface for int command results.
type IntCmd interface {
	Result() (int64, error)
}

// Config holds configuration for the Redis store.
type Config struct {
	// Client is the Redis client (required).
	Client Cmdable

	// KeyPrefix is prepended to all Redis keys (default: "integrity:").
	KeyPrefix string

	// TTL is how long entries are stored (default: 0 = no expiration).
	// An expired key identifier is indistinguishable from a fresh install.
	TTL time.Duration
}

// Store is a Redis-backed implementation of keystore.Store.
type Store struct {
	client    Cmdable
	keyPrefix string
	ttl       time.Duration
}

var _ keystore.Store = (*Store)(nil)

// storedEntry is the JSON-serializable representation of a stored value.
type storedEntry struct {
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStore creates a new Redis-backed store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Client == nil {
		return nil, errors.New("redis client is required")
	}

	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "integrity:"
	}

	return &Store{
		client:    cfg.Client,
		keyPrefix: keyPrefix,
		ttl:       cfg.TTL,
	}, nil
}

// Get implements keystore.Store.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", keystore.ErrEmptyKey
	}

	raw, err := s.client.Get(ctx, s.keyPrefix+key).Result()
	if err != nil {
		if isNil(err) {
			return "", keystore.ErrNotFound
		}
		return "", fmt.Errorf("failed to load %s: %w", key, err)
	}

	var entry storedEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return "", fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	if entry.Value == "" {
		return "", keystore.ErrNotFound
	}
	return entry.Value, nil
}

// Set implements keystore.Store.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return keystore.ErrEmptyKey
	}
	if value == "" {
		return keystore.ErrEmptyValue
	}

	data, err := json.Marshal(storedEntry{Value: value, CreatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := s.client.Set(ctx, s.keyPrefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Delete removes key. A subsequent attestation generates a new key.
func (s *Store) Delete(ctx context.Context, key string) error {
	n, err := s.client.Del(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	if n == 0 {
		return keystore.ErrNotFound
	}
	return nil
}

// isNil checks if the error is a redis.Nil error.
// We check the error string to avoid importing go-redis directly.
func isNil(err error) bool {
	return err != nil && err.Error() == "redis: nil"
}
