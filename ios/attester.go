package ios

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/kacy/device-integrity/challenge"
	"github.com/kacy/device-integrity/taxonomy"
)

// Attester runs the challenge to attestation flow for the installation's key.
type Attester struct {
	service Service
	keys    *KeyManager
	log     logrus.FieldLogger
}

// NewAttester creates an attester on top of a key manager.
func NewAttester(service Service, keys *KeyManager, logger logrus.FieldLogger) (*Attester, error) {
	if service == nil {
		return nil, errors.New("app attest service is required")
	}
	if keys == nil {
		return nil, errors.New("key manager is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Attester{
		service: service,
		keys:    keys,
		log:     logger.WithField("component", "attester"),
	}, nil
}

// Attest obtains the key identifier (creating it on first use) and returns
// Apple's attestation of it, bound to the SHA-256 hash of chal. The result is
// opaque and must be forwarded to the backend unmodified.
//
// The key is always committed to the store before the attestation call is
// made.
func (a *Attester) Attest(ctx context.Context, chal string) (string, error) {
	if err := challenge.Validate(chal); err != nil {
		return "", err
	}

	if dc, ok := a.service.(DeviceChecker); ok && !dc.IsPhysicalDevice() {
		a.log.Warn("App Attest called in a simulator")
		return "", taxonomy.ErrExecutedInSimulator.WithCause(nil)
	}

	keyID, err := a.keys.KeyIdentifier(ctx)
	if err != nil {
		return "", err
	}

	a.keys.setState(StateAttesting)

	a.log.WithField("challenge_len", len(chal)).Debug("Attesting key")
	attestation, err := a.service.AttestKey(ctx, keyID, challenge.Hash(chal))
	if err != nil {
		a.keys.setState(StateKeyReady)
		rec := taxonomy.Normalize(taxonomy.FamilyAppAttest, err)
		a.log.WithField("code", rec.Code).Warn("Attestation failed")
		return "", rec
	}
	if attestation == "" {
		a.keys.setState(StateKeyReady)
		a.log.Warn("Attestation succeeded with an empty result")
		return "", taxonomy.ErrInvalidAttestationResponse.WithCause(nil)
	}

	a.keys.setState(StateAttested)
	a.log.WithField("attestation_len", len(attestation)).Debug("Key attested")
	return attestation, nil
}

// KeyManager returns the underlying key manager.
func (a *Attester) KeyManager() *KeyManager {
	return a.keys
}

// State returns the lifecycle state of the installation's key.
func (a *Attester) State() State {
	return a.keys.State()
}

// IsSupported reports whether App Attest is available on this device.
func (a *Attester) IsSupported() bool {
	return a.service.IsSupported()
}
