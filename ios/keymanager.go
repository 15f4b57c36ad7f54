package ios

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/kacy/device-integrity/keystore"
	"github.com/kacy/device-integrity/taxonomy"
)

// DefaultNamespace prefixes the storage key when none is configured.
const DefaultNamespace = "integrity"

const storageKeySuffix = "attestationKeyIdentifier"

// StorageKey returns the key the identifier is persisted under.
func StorageKey(namespace string) string {
	return namespace + "." + storageKeySuffix
}

// KeyManagerConfig holds configuration for the key lifecycle manager.
type KeyManagerConfig struct {
	// Service generates keys (required).
	Service Service

	// Store persists the key identifier (required).
	Store keystore.Store

	// Namespace prefixes the storage key (default: "integrity").
	Namespace string

	// Logger receives debug output (default: logrus standard logger).
	Logger logrus.FieldLogger
}

// KeyManager guarantees a single persistent attestation key identifier per
// installation. Concurrent callers share one in-flight creation; once the
// identifier is committed to the store it is cached for the process lifetime.
type KeyManager struct {
	service    Service
	store      keystore.Store
	storageKey string
	log        logrus.FieldLogger

	flight singleflight.Group

	mu    sync.RWMutex
	keyID string
	state State
}

// NewKeyManager creates a key lifecycle manager.
func NewKeyManager(cfg KeyManagerConfig) (*KeyManager, error) {
	if cfg.Service == nil {
		return nil, errors.New("app attest service is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("key store is required")
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &KeyManager{
		service:    cfg.Service,
		store:      cfg.Store,
		storageKey: StorageKey(namespace),
		log:        logger.WithField("component", "keymanager"),
	}, nil
}

// KeyIdentifier returns the installation's key identifier, creating and
// persisting one on first use.
//
// If ctx is done while a creation is in flight, KeyIdentifier returns
// ctx.Err() but the creation itself carries on and its result is committed
// for later callers.
func (m *KeyManager) KeyIdentifier(ctx context.Context) (string, error) {
	if keyID := m.cached(); keyID != "" {
		return keyID, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := m.flight.DoChan(m.storageKey, func() (any, error) {
		return m.loadOrCreate(detached)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// State returns the current lifecycle state.
func (m *KeyManager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// StorageKey returns the key the identifier is persisted under.
func (m *KeyManager) StorageKey() string {
	return m.storageKey
}

func (m *KeyManager) loadOrCreate(ctx context.Context) (string, error) {
	// A flight that completed between our cache check and DoChan.
	if keyID := m.cached(); keyID != "" {
		return keyID, nil
	}

	m.log.Debugf("Reading key identifier from %s", m.storageKey)
	stored, err := m.store.Get(ctx, m.storageKey)
	switch {
	case err == nil && stored != "":
		m.log.Debug("Using stored key identifier")
		m.commit(stored)
		return stored, nil
	case err != nil && !errors.Is(err, keystore.ErrNotFound):
		m.log.WithError(err).Warn("Failed to read key identifier")
		return "", taxonomy.ErrStorageFailure.WithCause(err)
	}

	m.setState(StateKeyPending)

	m.log.Debug("Generating attestation key")
	keyID, err := m.service.GenerateKey(ctx)
	if err != nil {
		m.setState(StateUninitialized)
		rec := taxonomy.Normalize(taxonomy.FamilyAppAttest, err)
		m.log.WithField("code", rec.Code).Warn("Key generation failed")
		return "", rec
	}
	if keyID == "" {
		m.setState(StateUninitialized)
		m.log.Warn("Key generation returned an empty identifier")
		return "", taxonomy.ErrInvalidKeyIdentifierResponse.WithCause(nil)
	}

	m.log.Debugf("Persisting key identifier to %s", m.storageKey)
	if err := m.store.Set(ctx, m.storageKey, keyID); err != nil {
		m.setState(StateUninitialized)
		m.log.WithError(err).Warn("Failed to persist key identifier")
		return "", taxonomy.ErrStorageFailure.WithCause(err)
	}

	m.commit(keyID)
	return keyID, nil
}

func (m *KeyManager) cached() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.keyID
}

func (m *KeyManager) commit(keyID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.keyID = keyID
	if m.state < StateKeyReady {
		m.state = StateKeyReady
	}
}

func (m *KeyManager) setState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}
