// Package android requests Play Integrity tokens for server-side verdict
// verification.
//
// Unlike App Attest there is no local key lifecycle: Google keeps all state
// server side, so every attestation is a single token request bound to a
// server-issued challenge and the app's Google Cloud project number.
//
// See: https://developer.android.com/google/play/integrity
package android

import "context"

// TokenProvider is the Play Integrity token adapter.
//
// Failures should be reported as *taxonomy.VendorError carrying the
// IntegrityErrorCode (symbolic or numeric). Any other error is classified
// from its text.
type TokenProvider interface {
	// RequestToken asks Play Integrity for a token bound to nonce.
	RequestToken(ctx context.Context, nonce string, cloudProjectNumber int64) (string, error)
}
