// Package keystore provides durable key-value storage for the attestation key
// identifier.
//
// The identifier names a key held by the vendor inside the device's secure
// hardware; it is not secret on its own, but it must survive restarts so the
// same key is reused for the lifetime of the installation.
package keystore

import (
	"context"
	"errors"
	"sync"
)

// Store is the secure key-value store consumed by the key lifecycle manager.
// Implementations should be thread-safe.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// Common errors for Store implementations.
var (
	ErrNotFound   = errors.New("key not found")
	ErrEmptyKey   = errors.New("empty key")
	ErrEmptyValue = errors.New("empty value")
)

// MemoryStore is an in-memory implementation of Store.
// Suitable for testing and development. It does not survive restarts, so
// every process gets a fresh attestation key.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

// Get returns the value stored under key.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.values[key]
	if !exists {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores value under key.
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if value == "" {
		return ErrEmptyValue
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Len returns the number of stored values (for testing/monitoring).
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
