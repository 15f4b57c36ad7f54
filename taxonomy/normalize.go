package taxonomy

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// VendorError is the structured failure an adapter reports. Code holds the
// vendor's enumerated code, symbolic or numeric. An empty Code marks an
// opaque failure that only carries the vendor's text.
type VendorError struct {
	Family  Family
	Code    string
	Message string
}

func (e *VendorError) Error() string {
	switch {
	case e.Code == "":
		return string(e.Family) + ": " + e.Message
	case e.Message == "":
		return string(e.Family) + ": " + e.Code
	default:
		return string(e.Family) + ": " + e.Code + ": " + e.Message
	}
}

// Opaque wraps vendor text that carries no enumerated code.
func Opaque(family Family, message string) *VendorError {
	return &VendorError{Family: family, Message: message}
}

var (
	symbolicToken = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

	// "IntegrityServiceException: Error(-3)" or "Integrity API error (-12)."
	playNumericCode = regexp.MustCompile(`\((-[0-9]+)\)[^A-Za-z0-9]*$`)

	// NSError descriptions: "... (com.apple.devicecheck.error error 3.)"
	appleNumericCode = regexp.MustCompile(`com\.apple\.devicecheck\.error error ([0-9]+)`)
)

// ExtractToken pulls the trailing symbolic code out of a vendor message, e.g.
// "Caused by: INVALID_KEY". Bare numbers are never tokens: too many ordinary
// messages end in one.
//
// This is a heuristic over human-readable text and breaks whenever the vendor
// rewords or localizes its messages. Adapters should prefer reporting a
// VendorError with Code set.
func ExtractToken(message string) (string, bool) {
	fields := strings.FieldsFunc(message, func(r rune) bool {
		return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	if len(fields) == 0 {
		return "", false
	}

	token := fields[len(fields)-1]
	if !symbolicToken.MatchString(token) {
		return "", false
	}
	return token, true
}

// ExtractCode is ExtractToken extended with the numeric codes a family's
// messages carry in the vendor's own format: "Error(-N)" for Play Integrity
// and "com.apple.devicecheck.error error N" for App Attest.
func ExtractCode(family Family, message string) (string, bool) {
	if token, ok := ExtractToken(message); ok {
		return token, true
	}

	var re *regexp.Regexp
	switch family {
	case FamilyPlayIntegrity:
		re = playNumericCode
	case FamilyAppAttest:
		re = appleNumericCode
	default:
		return "", false
	}

	m := re.FindStringSubmatch(message)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseMessage turns raw vendor text into a VendorError at the adapter
// boundary. If no known code can be extracted the result is opaque.
func ParseMessage(family Family, message string) *VendorError {
	ve := &VendorError{Family: family, Message: message}
	if code, ok := ExtractCode(family, message); ok {
		if _, known := Lookup(family, code); known {
			ve.Code = code
		}
	}
	return ve
}

// Unknown returns the catch-all record preserving the vendor's own text.
func Unknown(originalMessage string) *Record {
	r := mustNumeric(codeUnknown)
	r.OriginalMessage = originalMessage
	return r
}

// Normalize maps a raw adapter failure to a Record. Records pass through
// unchanged. A VendorError with a code is looked up directly; anything else is
// treated as opaque text and classified by ExtractCode. Unrecognized
// failures map to the catch-all record.
func Normalize(family Family, err error) *Record {
	if err == nil {
		return nil
	}

	var rec *Record
	if errors.As(err, &rec) {
		return rec
	}

	var ve *VendorError
	if errors.As(err, &ve) {
		if ve.Family != "" {
			family = ve.Family
		}
		if ve.Code != "" {
			if r, ok := Lookup(family, ve.Code); ok {
				r.cause = err
				return r
			}
			if ve.Message != "" {
				return unknownFrom(ve.Message, err)
			}
			return unknownFrom(ve.Code, err)
		}
		return fromText(family, ve.Message, err)
	}

	return fromText(family, err.Error(), err)
}

func fromText(family Family, message string, cause error) *Record {
	if code, ok := ExtractCode(family, message); ok {
		if r, found := Lookup(family, code); found {
			r.cause = cause
			return r
		}
	}
	return unknownFrom(message, cause)
}

func unknownFrom(message string, cause error) *Record {
	r := Unknown(message)
	r.cause = cause
	return r
}
