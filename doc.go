// Package integrity orchestrates on-device app attestation for iOS App Attest
// and Android Play Integrity.
//
// The package does not verify anything itself. It obtains vendor-signed
// evidence bound to a server-issued challenge and hands it back, unmodified,
// for the application's backend to verify.
//
// # iOS App Attest
//
// A hardware-backed key is generated once per installation and its
// identifier persisted. Attestations and assertions are signed with it.
// See: https://developer.apple.com/documentation/devicecheck/establishing_your_app_s_integrity
//
// # Android Play Integrity
//
// Every attestation is a token request bound to the challenge and the app's
// Google Cloud project number. No key is kept on the device.
// See: https://developer.android.com/google/play/integrity
//
// # Basic Usage
//
//	client, err := integrity.NewClient(integrity.Config{
//	    Platform:  integrity.PlatformIOS,
//	    AppAttest: appAttestAdapter,
//	    KeyStore:  keychainStore,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	attestation, err := client.AttestKey(ctx, challengeFromServer, 0)
//	if err != nil {
//	    var rec *taxonomy.Record
//	    if errors.As(err, &rec) && rec.Retryable {
//	        // retry with backoff
//	    }
//	}
//
// # Subpackages
//
// The library is organized into the following subpackages:
//
//   - ios: App Attest key lifecycle, attestation and assertion generation
//   - android: Play Integrity token requests
//   - taxonomy: the unified error contract every failure is reported in
//   - challenge: challenge validation and hashing
//   - keystore: persistence for the key identifier
//   - redis: Redis-backed key store
//   - integritytest: fakes for tests and local development
//
// For more details, see the README at https://github.com/kacy/device-integrity
package integrity
