// Package integritytest provides in-process stand-ins for the vendor
// attestation services and a call-counting key store, for tests and local
// development where no device is available.
package integritytest

import (
	"context"
	"encoding/base64"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/kacy/device-integrity/keystore"
)

// AppAttest is a fake App Attest service. Zero-valued hooks fall back to
// deterministic defaults: random UUID key identifiers and results derived
// from the key identifier and hash.
type AppAttest struct {
	// Unsupported makes IsSupported return false.
	Unsupported bool

	// Simulator makes the fake report that it is not a physical device.
	Simulator bool

	GenerateKeyFunc       func(ctx context.Context) (string, error)
	AttestKeyFunc         func(ctx context.Context, keyID string, clientDataHash []byte) (string, error)
	GenerateAssertionFunc func(ctx context.Context, keyID string, clientDataHash []byte) (string, error)

	generateKeyCalls atomic.Int64
	attestKeyCalls   atomic.Int64
	assertionCalls   atomic.Int64

	mu       sync.Mutex
	lastKey  string
	lastHash []byte
}

// NewAppAttest creates a fake App Attest service with default behavior.
func NewAppAttest() *AppAttest {
	return &AppAttest{}
}

// IsSupported implements ios.Service.
func (f *AppAttest) IsSupported() bool {
	return !f.Unsupported
}

// IsPhysicalDevice implements ios.DeviceChecker.
func (f *AppAttest) IsPhysicalDevice() bool {
	return !f.Simulator
}

// GenerateKey implements ios.Service.
func (f *AppAttest) GenerateKey(ctx context.Context) (string, error) {
	f.generateKeyCalls.Add(1)
	if f.GenerateKeyFunc != nil {
		return f.GenerateKeyFunc(ctx)
	}
	return uuid.NewString(), nil
}

// AttestKey implements ios.Service.
func (f *AppAttest) AttestKey(ctx context.Context, keyID string, clientDataHash []byte) (string, error) {
	f.attestKeyCalls.Add(1)
	f.record(keyID, clientDataHash)
	if f.AttestKeyFunc != nil {
		return f.AttestKeyFunc(ctx, keyID, clientDataHash)
	}
	return "attestation." + keyID + "." + base64.RawURLEncoding.EncodeToString(clientDataHash), nil
}

// GenerateAssertion implements ios.Service.
func (f *AppAttest) GenerateAssertion(ctx context.Context, keyID string, clientDataHash []byte) (string, error) {
	f.assertionCalls.Add(1)
	f.record(keyID, clientDataHash)
	if f.GenerateAssertionFunc != nil {
		return f.GenerateAssertionFunc(ctx, keyID, clientDataHash)
	}
	return "assertion." + keyID + "." + base64.RawURLEncoding.EncodeToString(clientDataHash), nil
}

// GenerateKeyCalls returns how often GenerateKey was called.
func (f *AppAttest) GenerateKeyCalls() int { return int(f.generateKeyCalls.Load()) }

// AttestKeyCalls returns how often AttestKey was called.
func (f *AppAttest) AttestKeyCalls() int { return int(f.attestKeyCalls.Load()) }

// AssertionCalls returns how often GenerateAssertion was called.
func (f *AppAttest) AssertionCalls() int { return int(f.assertionCalls.Load()) }

// Last returns the key identifier and hash of the most recent attest or
// assertion call.
func (f *AppAttest) Last() (string, []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastKey, append([]byte(nil), f.lastHash...)
}

func (f *AppAttest) record(keyID string, hash []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastKey = keyID
	f.lastHash = append([]byte(nil), hash...)
}

// PlayIntegrity is a fake Play Integrity token provider.
type PlayIntegrity struct {
	RequestTokenFunc func(ctx context.Context, nonce string, cloudProjectNumber int64) (string, error)

	calls atomic.Int64
}

// NewPlayIntegrity creates a fake token provider with default behavior.
func NewPlayIntegrity() *PlayIntegrity {
	return &PlayIntegrity{}
}

// RequestToken implements android.TokenProvider.
func (f *PlayIntegrity) RequestToken(ctx context.Context, nonce string, cloudProjectNumber int64) (string, error) {
	f.calls.Add(1)
	if f.RequestTokenFunc != nil {
		return f.RequestTokenFunc(ctx, nonce, cloudProjectNumber)
	}
	return "token." + uuid.NewString(), nil
}

// Calls returns how often RequestToken was called.
func (f *PlayIntegrity) Calls() int { return int(f.calls.Load()) }

// Store wraps a keystore.Store, counting calls and optionally failing them.
type Store struct {
	keystore.Store

	// GetErr and SetErr, when set, are returned instead of calling through.
	GetErr error
	SetErr error

	gets atomic.Int64
	sets atomic.Int64
}

// NewStore wraps an in-memory store.
func NewStore() *Store {
	return &Store{Store: keystore.NewMemoryStore()}
}

// Get implements keystore.Store.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.gets.Add(1)
	if s.GetErr != nil {
		return "", s.GetErr
	}
	return s.Store.Get(ctx, key)
}

// Set implements keystore.Store.
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.sets.Add(1)
	if s.SetErr != nil {
		return s.SetErr
	}
	return s.Store.Set(ctx, key, value)
}

// Gets returns how often Get was called.
func (s *Store) Gets() int { return int(s.gets.Load()) }

// Sets returns how often Set was called.
func (s *Store) Sets() int { return int(s.sets.Load()) }
