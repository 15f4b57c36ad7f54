// Package challenge validates and hashes server-issued challenges before they
// are handed to a vendor attestation service.
//
// Challenges are generated by the application's backend, never here. They
// are bound into the vendor-signed result so the server can detect replay.
package challenge

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"github.com/kacy/device-integrity/taxonomy"
)

// Play Integrity nonce bounds, measured on the decoded bytes.
const (
	MinNonceBytes = 16
	MaxNonceBytes = 500
)

// Validate checks that a challenge was supplied.
func Validate(challenge string) error {
	if challenge == "" {
		return taxonomy.ErrInvalidChallenge.WithCause(nil)
	}
	return nil
}

// Hash returns the SHA-256 client data hash App Attest signs over.
func Hash(challenge string) []byte {
	sum := sha256.Sum256([]byte(challenge))
	return sum[:]
}

// CheckNonce applies the Play Integrity nonce rules locally: web-safe base64
// without line wraps, at least MinNonceBytes and less than MaxNonceBytes once
// decoded. Padding is optional.
func CheckNonce(nonce string) error {
	if err := Validate(nonce); err != nil {
		return err
	}

	if strings.ContainsAny(nonce, "+/\r\n") {
		return taxonomy.ErrNonceNotBase64.WithCause(nil)
	}

	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(nonce, "="))
	if err != nil {
		return taxonomy.ErrNonceNotBase64.WithCause(err)
	}

	switch {
	case len(decoded) < MinNonceBytes:
		return taxonomy.ErrNonceTooShort.WithCause(nil)
	case len(decoded) >= MaxNonceBytes:
		return taxonomy.ErrNonceTooLong.WithCause(nil)
	}
	return nil
}
