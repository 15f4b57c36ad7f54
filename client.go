package integrity

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kacy/device-integrity/android"
	"github.com/kacy/device-integrity/ios"
	"github.com/kacy/device-integrity/keystore"
	"github.com/kacy/device-integrity/taxonomy"
)

// Client is the application-facing entry point. It is safe for concurrent
// use; on iOS concurrent first calls share a single key creation.
//
// Every failure returned by a Client operation is a *taxonomy.Record, with
// one exception: when ctx ends while AttestKey or KeyIdentifier waits on an
// in-flight key creation, the plain ctx.Err() is returned. The creation
// itself is not cancelled.
type Client struct {
	platform Platform
	flow     platform
	keys     *ios.KeyManager
	log      logrus.FieldLogger
}

// NewClient creates a client for cfg.Platform.
//
// Example:
//
//	client, err := integrity.NewClient(integrity.Config{
//	    Platform:      integrity.PlatformAndroid,
//	    PlayIntegrity: tokenProvider,
//	})
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	c := &Client{
		platform: cfg.Platform,
		log:      logger.WithField("component", "client").WithField("platform", cfg.Platform),
	}

	switch cfg.Platform {
	case PlatformIOS:
		store := cfg.KeyStore
		if store == nil {
			store = keystore.NewMemoryStore()
		}

		keys, err := ios.NewKeyManager(ios.KeyManagerConfig{
			Service:   cfg.AppAttest,
			Store:     store,
			Namespace: cfg.Namespace,
			Logger:    logger,
		})
		if err != nil {
			return nil, err
		}
		attester, err := ios.NewAttester(cfg.AppAttest, keys, logger)
		if err != nil {
			return nil, err
		}
		assertions, err := ios.NewAssertionGenerator(cfg.AppAttest, keys, logger)
		if err != nil {
			return nil, err
		}

		c.keys = keys
		c.flow = &appAttest{attester: attester, assertions: assertions}

	case PlatformAndroid:
		requester, err := android.NewRequester(android.Config{
			Provider:   cfg.PlayIntegrity,
			CheckNonce: cfg.CheckNonce,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
		c.flow = &playIntegrity{requester: requester}

	default:
		c.log.Warn("Attestation is not available on this platform")
		c.flow = &unsupported{name: cfg.Platform}
	}

	return c, nil
}

// AttestKey returns vendor-signed evidence bound to chal, for the backend to
// verify.
//
// On iOS this is the App Attest attestation of the installation's key, which
// is created and persisted on first use; cloudProjectNumber is ignored. On
// Android it is a Play Integrity token and cloudProjectNumber must be
// positive.
func (c *Client) AttestKey(ctx context.Context, chal string, cloudProjectNumber int64) (string, error) {
	c.log.Debug("Attesting")
	return c.flow.attestKey(ctx, chal, cloudProjectNumber)
}

// GenerateAssertion signs payload, with chal merged in, using an attested
// key. Only available on iOS.
func (c *Client) GenerateAssertion(ctx context.Context, keyID, chal string, payload map[string]any) (*ios.Assertion, error) {
	c.log.Debug("Generating assertion")
	return c.flow.generateAssertion(ctx, keyID, chal, payload)
}

// IsPlatformAttestationSupported reports whether App Attest is available on
// this device. Only meaningful on iOS; on Android it fails with
// INVALID_IS_SUPPORTED_API.
func (c *Client) IsPlatformAttestationSupported() (bool, error) {
	return c.flow.isSupported()
}

// KeyIdentifier returns the installation's App Attest key identifier,
// creating it on first use. Off iOS there is no local key and it fails with
// UNSUPPORTED_PLATFORM.
func (c *Client) KeyIdentifier(ctx context.Context) (string, error) {
	if c.keys == nil {
		return "", taxonomy.ErrUnsupportedPlatform.WithCause(fmt.Errorf("no local key on platform %q", c.platform))
	}
	return c.keys.KeyIdentifier(ctx)
}

// State returns the key lifecycle state. It is always StateUninitialized
// off iOS.
func (c *Client) State() ios.State {
	if c.keys == nil {
		return ios.StateUninitialized
	}
	return c.keys.State()
}

// Platform returns the configured platform.
func (c *Client) Platform() Platform {
	return c.platform
}
