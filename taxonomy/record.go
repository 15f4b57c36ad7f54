// Package taxonomy normalizes vendor attestation failures into one stable
// error contract.
//
// Apple's App Attest (DCError) and Google's Play Integrity
// (IntegrityErrorCode) report failures in structurally different ways. Both
// are mapped through a single versioned table keyed by (Family, vendor code)
// to a Record carrying a numeric code that never changes between releases,
// a documentation link, user and developer facing text, and a resolution
// class telling the caller who has to act and whether retrying makes sense.
package taxonomy

import (
	"encoding/json"
	"fmt"
)

// Class describes who can resolve a failure.
type Class int

// Resolution classes.
const (
	NonActionable Class = iota
	DeveloperActionRequired
	UserActionRequired
)

func (c Class) String() string {
	switch c {
	case NonActionable:
		return "NON_ACTIONABLE"
	case DeveloperActionRequired:
		return "DEVELOPER_ACTION_REQUIRED"
	case UserActionRequired:
		return "USER_ACTION_REQUIRED"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Family identifies which vendor service (or the core itself) raised a failure.
type Family string

// Families known to the table.
const (
	FamilyAppAttest     Family = "app_attest"
	FamilyPlayIntegrity Family = "play_integrity"
	FamilyCore          Family = "core"
)

// Record is a classified failure. Records are static data; the only record
// carrying free-form text is the catch-all built by Unknown.
type Record struct {
	// Code is the stable symbolic code, e.g. "NETWORK_ERROR".
	Code string `json:"code"`

	// NumericCode is unique across the whole table and stable across releases.
	NumericCode int `json:"errorCode"`

	// DocumentationURL points at the vendor (or project) documentation.
	DocumentationURL string `json:"documentation"`

	// Detail is a developer facing description.
	Detail string `json:"detail"`

	// UserMessage can be shown to end users.
	UserMessage string `json:"userFriendlyMessage"`

	// Resolution describes how to resolve the failure, if possible.
	Resolution string `json:"resolution"`

	// Class is the resolution class.
	Class Class `json:"resolutionType"`

	// Retryable marks the transient subset of DeveloperActionRequired
	// failures for which retrying with an exponential backoff is correct.
	Retryable bool `json:"retryWithBackoff"`

	// OriginalMessage is only set on the catch-all record.
	OriginalMessage string `json:"originalMessage,omitempty"`

	family Family
	cause  error
}

// Error implements error.
func (r *Record) Error() string {
	if r.OriginalMessage != "" {
		return fmt.Sprintf("%s (%d): %s", r.Code, r.NumericCode, r.OriginalMessage)
	}
	return fmt.Sprintf("%s (%d): %s", r.Code, r.NumericCode, r.Detail)
}

// Is reports whether target is a Record with the same numeric code.
func (r *Record) Is(target error) bool {
	t, ok := target.(*Record)
	if !ok {
		return false
	}
	return t.NumericCode == r.NumericCode
}

// Unwrap returns the underlying cause, if any.
func (r *Record) Unwrap() error {
	return r.cause
}

// Family returns the family the record belongs to.
func (r *Record) Family() Family {
	return r.family
}

// IsUnknown reports whether r is the catch-all record, i.e. new vendor
// behavior this table does not know about yet.
func (r *Record) IsUnknown() bool {
	return r.NumericCode == codeUnknown
}

// WithCause returns a copy of r wrapping cause. The cause is not serialized.
func (r *Record) WithCause(cause error) *Record {
	c := *r
	c.cause = cause
	return &c
}

// String returns the JSON representation, used for logs and bridges.
func (r *Record) String() string {
	b, err := json.Marshal(r)
	if err != nil {
		return r.Error()
	}
	return string(b)
}
