package ios

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/gowebpki/jcs"
	"github.com/sirupsen/logrus"

	"github.com/kacy/device-integrity/challenge"
	"github.com/kacy/device-integrity/taxonomy"
)

// ChallengeField is the payload field the challenge is merged under. It
// overwrites any field of the same name supplied by the caller.
const ChallengeField = "challenge"

// Assertion is the result of signing a request payload.
type Assertion struct {
	// Value is the opaque assertion returned by App Attest.
	Value string

	// ClientData is the canonical JSON that was hashed and signed. The
	// backend needs these exact bytes to verify the assertion.
	ClientData []byte

	// ClientDataHash is the SHA-256 of ClientData.
	ClientDataHash []byte
}

// AssertionGenerator signs request payloads with an already attested key.
// It never creates keys.
type AssertionGenerator struct {
	service Service
	keys    *KeyManager
	log     logrus.FieldLogger
}

// NewAssertionGenerator creates an assertion generator. keys is optional and
// only used to track lifecycle state.
func NewAssertionGenerator(service Service, keys *KeyManager, logger logrus.FieldLogger) (*AssertionGenerator, error) {
	if service == nil {
		return nil, errors.New("app attest service is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &AssertionGenerator{
		service: service,
		keys:    keys,
		log:     logger.WithField("component", "assertion"),
	}, nil
}

// ErrInexactNumber is the cause of INVALID_INPUT when a payload integer would
// change value in canonical JSON.
var ErrInexactNumber = errors.New("integer is not exactly representable as a float64")

// ClientData merges chal into payload under ChallengeField and serializes the
// result as RFC 8785 canonical JSON, so identical inputs always produce
// identical bytes. payload is not modified.
//
// Canonical JSON numbers are IEEE 754 doubles. Integers a float64 cannot hold
// exactly (beyond 2^53 in magnitude, unless they happen to round-trip) fail
// with INVALID_INPUT wrapping ErrInexactNumber rather than being rounded.
// Send such values as strings.
func ClientData(chal string, payload map[string]any) ([]byte, error) {
	merged := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		merged[k] = v
	}
	merged[ChallengeField] = chal

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, invalidInput(err)
	}
	if err := checkIntegers(raw); err != nil {
		return nil, invalidInput(err)
	}

	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, invalidInput(err)
	}
	return canonical, nil
}

// Generate signs payload, with chal merged in, using keyID.
func (g *AssertionGenerator) Generate(ctx context.Context, keyID, chal string, payload map[string]any) (*Assertion, error) {
	if keyID == "" {
		return nil, taxonomy.ErrMissingKeyIdentifier.WithCause(nil)
	}
	if err := challenge.Validate(chal); err != nil {
		return nil, err
	}

	clientData, err := ClientData(chal, payload)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(clientData)

	g.transition(keyID, StateAsserting)

	g.log.WithField("client_data_len", len(clientData)).Debug("Generating assertion")
	value, err := g.service.GenerateAssertion(ctx, keyID, sum[:])
	if err != nil {
		g.transition(keyID, StateKeyReady)
		rec := taxonomy.Normalize(taxonomy.FamilyAppAttest, err)
		g.log.WithField("code", rec.Code).Warn("Assertion failed")
		return nil, rec
	}
	if value == "" {
		g.transition(keyID, StateKeyReady)
		g.log.Warn("Assertion succeeded with an empty result")
		return nil, taxonomy.ErrInvalidAssertionResponse.WithCause(nil)
	}

	g.transition(keyID, StateAsserted)
	return &Assertion{
		Value:          value,
		ClientData:     clientData,
		ClientDataHash: sum[:],
	}, nil
}

// transition only tracks state for the key the manager owns.
func (g *AssertionGenerator) transition(keyID string, s State) {
	if g.keys == nil || g.keys.cached() != keyID {
		return
	}
	g.keys.setState(s)
}

func checkIntegers(raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	return walkIntegers(v)
}

func walkIntegers(v any) error {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			if err := walkIntegers(e); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
	case []any:
		for i, e := range t {
			if err := walkIntegers(e); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
	case json.Number:
		s := t.String()
		if strings.ContainsAny(s, ".eE") {
			return nil
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return fmt.Errorf("malformed number %s", s)
		}
		if _, acc := new(big.Float).SetInt(n).Float64(); acc != big.Exact {
			return fmt.Errorf("%w: %s", ErrInexactNumber, s)
		}
	}
	return nil
}

func invalidInput(cause error) error {
	rec, _ := taxonomy.Lookup(taxonomy.FamilyAppAttest, "INVALID_INPUT")
	return rec.WithCause(cause)
}
