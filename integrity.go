package integrity

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/kacy/device-integrity/android"
	"github.com/kacy/device-integrity/ios"
	"github.com/kacy/device-integrity/keystore"
	"github.com/kacy/device-integrity/taxonomy"
)

// Platform represents the mobile platform.
type Platform string

// Platform constants for iOS and Android.
const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

// Configuration errors returned by NewClient.
var (
	ErrMissingAppAttest     = errors.New("app attest service is required on ios")
	ErrMissingPlayIntegrity = errors.New("play integrity token provider is required on android")
	ErrInvalidConfig        = errors.New("invalid config")
)

// Config holds configuration for the integrity client.
type Config struct {
	// Platform selects the attestation flow. Any value other than PlatformIOS
	// or PlatformAndroid yields a client whose operations fail with
	// UNSUPPORTED_PLATFORM.
	Platform Platform

	// Namespace prefixes the key store entry (default: "integrity"). Letters,
	// digits, dots, dashes and underscores only.
	Namespace string

	// AppAttest is the App Attest adapter (required on iOS).
	AppAttest ios.Service

	// PlayIntegrity is the Play Integrity adapter (required on Android).
	PlayIntegrity android.TokenProvider

	// KeyStore persists the App Attest key identifier (default: in-memory).
	// It should be backed by secure storage that survives restarts.
	KeyStore keystore.Store

	// CheckNonce applies the Play Integrity nonce rules before requesting a
	// token (default: false).
	CheckNonce bool

	// Logger receives debug output (default: logrus standard logger).
	Logger logrus.FieldLogger
}

var namespacePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

var configValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("namespace", func(fl validator.FieldLevel) bool {
		return namespacePattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic("integrity: registering namespace validation: " + err.Error())
	}
	return v
}

func (c *Config) validate() error {
	if err := configValidator.Var(c.Namespace, "omitempty,max=128,namespace"); err != nil {
		return fmt.Errorf("%w: namespace %q: %v", ErrInvalidConfig, c.Namespace, err)
	}

	switch c.Platform {
	case PlatformIOS:
		if c.AppAttest == nil {
			return ErrMissingAppAttest
		}
	case PlatformAndroid:
		if c.PlayIntegrity == nil {
			return ErrMissingPlayIntegrity
		}
	}
	return nil
}

// platform is one attestation flow. The variant is chosen once, in NewClient.
type platform interface {
	attestKey(ctx context.Context, chal string, cloudProjectNumber int64) (string, error)
	generateAssertion(ctx context.Context, keyID, chal string, payload map[string]any) (*ios.Assertion, error)
	isSupported() (bool, error)
}

// appAttest is the local key lifecycle flow.
type appAttest struct {
	attester   *ios.Attester
	assertions *ios.AssertionGenerator
}

// The project number has no meaning for App Attest and is ignored.
func (p *appAttest) attestKey(ctx context.Context, chal string, _ int64) (string, error) {
	return p.attester.Attest(ctx, chal)
}

func (p *appAttest) generateAssertion(ctx context.Context, keyID, chal string, payload map[string]any) (*ios.Assertion, error) {
	return p.assertions.Generate(ctx, keyID, chal, payload)
}

func (p *appAttest) isSupported() (bool, error) {
	return p.attester.IsSupported(), nil
}

// playIntegrity is the server-mediated verdict flow.
type playIntegrity struct {
	requester *android.Requester
}

func (p *playIntegrity) attestKey(ctx context.Context, chal string, cloudProjectNumber int64) (string, error) {
	return p.requester.RequestToken(ctx, chal, cloudProjectNumber)
}

func (p *playIntegrity) generateAssertion(context.Context, string, string, map[string]any) (*ios.Assertion, error) {
	return nil, taxonomy.ErrInvalidGenerateAssertionAPI.WithCause(nil)
}

func (p *playIntegrity) isSupported() (bool, error) {
	return false, taxonomy.ErrInvalidIsSupportedAPI.WithCause(nil)
}

type unsupported struct {
	name Platform
}

func (p *unsupported) err() error {
	return taxonomy.ErrUnsupportedPlatform.WithCause(fmt.Errorf("platform %q", p.name))
}

func (p *unsupported) attestKey(context.Context, string, int64) (string, error) {
	return "", p.err()
}

func (p *unsupported) generateAssertion(context.Context, string, string, map[string]any) (*ios.Assertion, error) {
	return nil, p.err()
}

func (p *unsupported) isSupported() (bool, error) {
	return false, p.err()
}
