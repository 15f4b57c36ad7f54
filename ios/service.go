// Package ios drives Apple's App Attest service from the client side.
//
// The service itself (DCAppAttestService) is reached through the Service
// interface, implemented by the host's native bridge. This package owns what
// happens around it: exactly one durable key per installation, attestation of
// that key against a server challenge, and assertions over request payloads.
//
// See: https://developer.apple.com/documentation/devicecheck/establishing_your_app_s_integrity
package ios

import "context"

// Service is the boundary to DCAppAttestService. Implementations report
// failures as *taxonomy.VendorError whenever the DCError code is known;
// any other error is classified from its text.
type Service interface {
	// IsSupported reports whether App Attest is available on this device.
	IsSupported() bool

	// GenerateKey creates a new hardware-backed key and returns its identifier.
	GenerateKey(ctx context.Context) (string, error)

	// AttestKey asks Apple to attest the key, binding clientDataHash.
	AttestKey(ctx context.Context, keyID string, clientDataHash []byte) (string, error)

	// GenerateAssertion signs clientDataHash with the attested key.
	GenerateAssertion(ctx context.Context, keyID string, clientDataHash []byte) (string, error)
}

// DeviceChecker is optionally implemented by a Service that can tell a
// physical device from a simulator.
type DeviceChecker interface {
	IsPhysicalDevice() bool
}

// State is the lifecycle state of an installation's attestation key.
//
// Failures never rest in a state of their own: a failed key creation returns
// to StateUninitialized, a failed attestation or assertion to StateKeyReady.
type State int

// Lifecycle states.
const (
	StateUninitialized State = iota
	StateKeyPending
	StateKeyReady
	StateAttesting
	StateAttested
	StateAsserting
	StateAsserted
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateKeyPending:
		return "key_pending"
	case StateKeyReady:
		return "key_ready"
	case StateAttesting:
		return "attesting"
	case StateAttested:
		return "attested"
	case StateAsserting:
		return "asserting"
	case StateAsserted:
		return "asserted"
	default:
		return "unknown"
	}
}
