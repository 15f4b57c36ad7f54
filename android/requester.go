package android

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/kacy/device-integrity/challenge"
	"github.com/kacy/device-integrity/taxonomy"
)

// Config holds configuration for the token requester.
type Config struct {
	// Provider requests tokens from Play Integrity (required).
	Provider TokenProvider

	// CheckNonce applies the Play Integrity nonce rules locally before calling
	// the provider. Off by default; Play Integrity is authoritative.
	CheckNonce bool

	// Logger receives debug output (default: logrus standard logger).
	Logger logrus.FieldLogger
}

// Requester runs the challenge to token flow.
type Requester struct {
	provider   TokenProvider
	checkNonce bool
	validate   *validator.Validate
	log        logrus.FieldLogger
}

type tokenRequest struct {
	Challenge          string `validate:"required"`
	CloudProjectNumber int64  `validate:"gt=0"`
}

// NewRequester creates a token requester.
func NewRequester(cfg Config) (*Requester, error) {
	if cfg.Provider == nil {
		return nil, errors.New("play integrity token provider is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Requester{
		provider:   cfg.Provider,
		checkNonce: cfg.CheckNonce,
		validate:   validator.New(),
		log:        logger.WithField("component", "requester"),
	}, nil
}

// RequestToken returns a Play Integrity token bound to chal. The token is
// opaque and must be forwarded to the backend unmodified.
//
// A missing or non-positive cloudProjectNumber fails with
// CLOUD_PROJECT_NUMBER_IS_INVALID without calling the provider.
func (r *Requester) RequestToken(ctx context.Context, chal string, cloudProjectNumber int64) (string, error) {
	if err := r.check(chal, cloudProjectNumber); err != nil {
		return "", err
	}

	r.log.WithField("challenge_len", len(chal)).Debug("Requesting integrity token")
	token, err := r.provider.RequestToken(ctx, chal, cloudProjectNumber)
	if err != nil {
		rec := taxonomy.Normalize(taxonomy.FamilyPlayIntegrity, err)
		r.log.WithField("code", rec.Code).Warn("Integrity token request failed")
		return "", rec
	}
	if token == "" {
		r.log.Warn("Integrity token request succeeded with an empty result")
		return "", taxonomy.ErrInvalidTokenResponse.WithCause(nil)
	}

	r.log.WithField("token_len", len(token)).Debug("Integrity token received")
	return token, nil
}

func (r *Requester) check(chal string, cloudProjectNumber int64) error {
	err := r.validate.Struct(tokenRequest{Challenge: chal, CloudProjectNumber: cloudProjectNumber})

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		// The project number takes precedence over the challenge.
		for _, fe := range verrs {
			if fe.Field() == "CloudProjectNumber" {
				r.log.WithField("cloud_project_number", cloudProjectNumber).Warn("Invalid cloud project number")
				return taxonomy.ErrCloudProjectNumberInvalid.WithCause(err)
			}
		}
		return taxonomy.ErrInvalidChallenge.WithCause(err)
	}
	if err != nil {
		return err
	}

	if r.checkNonce {
		return challenge.CheckNonce(chal)
	}
	return nil
}
