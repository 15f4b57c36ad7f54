package taxonomy

import (
	"fmt"
	"strconv"
)

const (
	playDocs  = "https://developer.android.com/google/play/integrity/reference/com/google/android/play/core/integrity/model/IntegrityErrorCode.html#"
	appleDocs = "https://developer.apple.com/documentation/devicecheck/dcerror/"
	localDocs = "https://github.com/kacy/device-integrity#error-codes"

	playUserPrefix  = "App integrity verification with the Google Play Store failed."
	appleUserPrefix = "App integrity verification failed."
	coreUserPrefix  = "Device integrity verification failed."

	retryWithBackoff = "Retry with an exponential backoff. Consider filing a bug if it fails consistently."
)

// Numeric codes referenced from code. Every other code lives only in the table.
const (
	codeUnknown = 26
)

// entry binds a record to the vendor codes that resolve to it. The first
// vendor code is the symbolic one; the rest are aliases (numeric vendor codes,
// historical spellings).
type entry struct {
	family Family
	codes  []string
	record Record
}

// table is the single source of truth. Numeric codes are part of the public
// contract: never renumber an entry, only append.
var table = []entry{
	// Play Integrity: non-actionable.
	{FamilyPlayIntegrity, []string{"APP_NOT_INSTALLED", "-5"}, Record{
		Code:             "APP_NOT_INSTALLED",
		NumericCode:      0,
		DocumentationURL: playDocs + "APP_NOT_INSTALLED",
		Detail:           "The calling app is not installed. Something is wrong (possibly an attack). Presumably the executable was run without formal installation via Google Play.",
		UserMessage:      playUserPrefix + " Please try again. Error code: 0",
		Resolution:       "Non-actionable",
		Class:            NonActionable,
	}},
	{FamilyPlayIntegrity, []string{"APP_UID_MISMATCH", "API_UID_MISMATCH", "-7"}, Record{
		Code:             "APP_UID_MISMATCH",
		NumericCode:      1,
		DocumentationURL: playDocs + "APP_UID_MISMATCH",
		Detail:           "The calling app UID (user id) does not match the one from Package Manager. Something is wrong (possibly an attack).",
		UserMessage:      playUserPrefix + " Please try again. Error code: 1",
		Resolution:       "Non-actionable",
		Class:            NonActionable,
	}},

	// Play Integrity: may require end-user resolution.
	{FamilyPlayIntegrity, []string{"API_NOT_AVAILABLE", "-1"}, Record{
		Code:             "API_NOT_AVAILABLE",
		NumericCode:      2,
		DocumentationURL: playDocs + "API_NOT_AVAILABLE",
		Detail:           "Integrity API is not available. Integrity API is not enabled, or the Play Store version might be old.",
		UserMessage:      playUserPrefix + " Please update Play Store on your device and try again. Error code: 2",
		Resolution:       "Make sure that Integrity API is enabled in Google Play Console for your application. Ask the user to update Play Store before trying again.",
		Class:            DeveloperActionRequired,
	}},
	{FamilyPlayIntegrity, []string{"CANNOT_BIND_TO_SERVICE", "-9"}, Record{
		Code:             "CANNOT_BIND_TO_SERVICE",
		NumericCode:      3,
		DocumentationURL: playDocs + "CANNOT_BIND_TO_SERVICE",
		Detail:           "Binding to the service in the Play Store has failed. This can be due to having an old Play Store version installed on the device.",
		UserMessage:      playUserPrefix + " Please update Play Store on your device and try again. Error code: 3",
		Resolution:       "Ask the user to update Play Store before trying again.",
		Class:            UserActionRequired,
	}},
	{FamilyPlayIntegrity, []string{"NETWORK_ERROR", "-3"}, Record{
		Code:             "NETWORK_ERROR",
		NumericCode:      4,
		DocumentationURL: playDocs + "NETWORK_ERROR",
		Detail:           "No available network is found.",
		UserMessage:      playUserPrefix + " Please check your internet connection and try again. Error code: 4",
		Resolution:       "Ask the user to check for a connection before trying again.",
		Class:            UserActionRequired,
	}},
	{FamilyPlayIntegrity, []string{"PLAY_SERVICES_NOT_FOUND", "-6"}, Record{
		Code:             "PLAY_SERVICES_NOT_FOUND",
		NumericCode:      5,
		DocumentationURL: playDocs + "PLAY_SERVICES_NOT_FOUND",
		Detail:           "Play Services is not available or version is too old.",
		UserMessage:      playUserPrefix + " Please ensure Play Services is installed on your device and up-to-date, and try again. Error code: 5",
		Resolution:       "Ask the user to install or update Play Services.",
		Class:            UserActionRequired,
	}},
	{FamilyPlayIntegrity, []string{"PLAY_SERVICES_VERSION_OUTDATED", "-15"}, Record{
		Code:             "PLAY_SERVICES_VERSION_OUTDATED",
		NumericCode:      6,
		DocumentationURL: playDocs + "PLAY_SERVICES_VERSION_OUTDATED",
		Detail:           "Play Services needs to be updated.",
		UserMessage:      playUserPrefix + " Please update Play Services on your device and try again. Error code: 6",
		Resolution:       "Ask the user to update Play Services before trying again.",
		Class:            UserActionRequired,
	}},
	{FamilyPlayIntegrity, []string{"PLAY_STORE_ACCOUNT_NOT_FOUND", "-4"}, Record{
		Code:             "PLAY_STORE_ACCOUNT_NOT_FOUND",
		NumericCode:      7,
		DocumentationURL: playDocs + "PLAY_STORE_ACCOUNT_NOT_FOUND",
		Detail:           "No Play Store account is found on device. The Play Integrity API supports unauthenticated requests; this code is only used by older Play Store versions that lack support.",
		UserMessage:      playUserPrefix + " Please ensure you are logged into the Play Store on your device and try again. Error code: 7",
		Resolution:       "Ask the user to authenticate in Play Store.",
		Class:            UserActionRequired,
	}},
	{FamilyPlayIntegrity, []string{"PLAY_STORE_NOT_FOUND", "-2"}, Record{
		Code:             "PLAY_STORE_NOT_FOUND",
		NumericCode:      8,
		DocumentationURL: playDocs + "PLAY_STORE_NOT_FOUND",
		Detail:           "No Play Store app is found on device or an unofficial version is installed.",
		UserMessage:      playUserPrefix + " Please ensure you have the official Play Store app installed on your device and try again. Error code: 8",
		Resolution:       "Ask the user to install an official and recent version of Play Store.",
		Class:            UserActionRequired,
	}},
	{FamilyPlayIntegrity, []string{"PLAY_STORE_VERSION_OUTDATED", "-14"}, Record{
		Code:             "PLAY_STORE_VERSION_OUTDATED",
		NumericCode:      9,
		DocumentationURL: playDocs + "PLAY_STORE_VERSION_OUTDATED",
		Detail:           "Play Store needs to be updated.",
		UserMessage:      playUserPrefix + " Please update Play Store on your device and try again. Error code: 9",
		Resolution:       "Ask the user to update Play Store before trying again.",
		Class:            UserActionRequired,
	}},

	// Play Integrity: retry with an exponential backoff.
	{FamilyPlayIntegrity, []string{"CLIENT_TRANSIENT_ERROR", "-17"}, Record{
		Code:             "CLIENT_TRANSIENT_ERROR",
		NumericCode:      10,
		DocumentationURL: playDocs + "CLIENT_TRANSIENT_ERROR",
		Detail:           "There was a transient error in the client device. If the error persists after a few retries, assume that the device has failed integrity checks and act accordingly.",
		UserMessage:      playUserPrefix + " Please try again. Error code: 10",
		Resolution:       retryWithBackoff,
		Class:            DeveloperActionRequired,
		Retryable:        true,
	}},
	{FamilyPlayIntegrity, []string{"GOOGLE_SERVER_UNAVAILABLE", "-12"}, Record{
		Code:             "GOOGLE_SERVER_UNAVAILABLE",
		NumericCode:      11,
		DocumentationURL: playDocs + "GOOGLE_SERVER_UNAVAILABLE",
		Detail:           "Unknown internal Google server error.",
		UserMessage:      playUserPrefix + " Google services may be temporarily degraded. Please try again. Error code: 11",
		Resolution:       retryWithBackoff,
		Class:            DeveloperActionRequired,
		Retryable:        true,
	}},
	{FamilyPlayIntegrity, []string{"INTERNAL_ERROR", "-100"}, Record{
		Code:             "INTERNAL_ERROR",
		NumericCode:      12,
		DocumentationURL: playDocs + "INTERNAL_ERROR",
		Detail:           "Unknown internal error.",
		UserMessage:      playUserPrefix + " Google services may be temporarily degraded. Please try again. Error code: 12",
		Resolution:       retryWithBackoff,
		Class:            DeveloperActionRequired,
		Retryable:        true,
	}},

	// Play Integrity: caller configuration mistakes.
	{FamilyPlayIntegrity, []string{"CLOUD_PROJECT_NUMBER_IS_INVALID", "-16"}, Record{
		Code:             "CLOUD_PROJECT_NUMBER_IS_INVALID",
		NumericCode:      13,
		DocumentationURL: playDocs + "CLOUD_PROJECT_NUMBER_IS_INVALID",
		Detail:           "Configuration error: the provided cloud project number is invalid. Use the cloud project number found in Project info in the Google Cloud Console for the project where Play Integrity API is enabled.",
		UserMessage:      playUserPrefix + " Please try again. Error code: 13",
		Resolution:       "Ensure the cloud project number is correct.",
		Class:            DeveloperActionRequired,
	}},
	{FamilyPlayIntegrity, []string{"NONCE_IS_NOT_BASE64", "-13"}, Record{
		Code:             "NONCE_IS_NOT_BASE64",
		NumericCode:      14,
		DocumentationURL: playDocs + "NONCE_IS_NOT_BASE64",
		Detail:           "Configuration error: the provided nonce is not encoded as a base64 web-safe no-wrap string.",
		UserMessage:      playUserPrefix + " Please try again. Error code: 14",
		Resolution:       "Ensure the nonce is encoded as a base64 web-safe no-wrap string.",
		Class:            DeveloperActionRequired,
	}},
	{FamilyPlayIntegrity, []string{"NONCE_TOO_LONG", "-11"}, Record{
		Code:             "NONCE_TOO_LONG",
		NumericCode:      15,
		DocumentationURL: playDocs + "NONCE_TOO_LONG",
		Detail:           "Configuration error: the provided nonce is too long. The nonce must be less than 500 bytes before base64 encoding.",
		UserMessage:      playUserPrefix + " Please try again. Error code: 15",
		Resolution:       "Ensure the nonce is less than 500 bytes before base64 encoding.",
		Class:            DeveloperActionRequired,
	}},
	{FamilyPlayIntegrity, []string{"NONCE_TOO_SHORT", "-10"}, Record{
		Code:             "NONCE_TOO_SHORT",
		NumericCode:      16,
		DocumentationURL: playDocs + "NONCE_TOO_SHORT",
		Detail:           "Configuration error: the provided nonce is too short. The nonce must be a minimum of 16 bytes before base64 encoding.",
		UserMessage:      playUserPrefix + " Please try again. Error code: 16",
		Resolution:       "Ensure the nonce is a minimum of 16 bytes before base64 encoding.",
		Class:            DeveloperActionRequired,
	}},
	{FamilyPlayIntegrity, []string{"TOO_MANY_REQUESTS", "-8"}, Record{
		Code:             "TOO_MANY_REQUESTS",
		NumericCode:      17,
		DocumentationURL: playDocs + "TOO_MANY_REQUESTS",
		Detail:           "The calling app is making too many requests to the API and hence is throttled.",
		UserMessage:      playUserPrefix + " Please try again. Error code: 17",
		Resolution:       "Retry with an exponential backoff.",
		Class:            DeveloperActionRequired,
		Retryable:        true,
	}},
	{FamilyPlayIntegrity, []string{"NO_ERROR", "0"}, Record{
		Code:             "NO_ERROR",
		NumericCode:      18,
		DocumentationURL: playDocs + "NO_ERROR",
		Detail:           "No error occurred. The vendor enumerates this code for completeness.",
		UserMessage:      "No error occurred. Error code: 18",
		Resolution:       "No resolution is required.",
		Class:            NonActionable,
	}},
	{FamilyPlayIntegrity, []string{"INVALID_INTEGRITY_TOKEN_RESPONSE"}, Record{
		Code:             "INVALID_INTEGRITY_TOKEN_RESPONSE",
		NumericCode:      19,
		DocumentationURL: localDocs,
		Detail:           "Google Play Integrity API did not return an error, but the integrity token was empty.",
		UserMessage:      playUserPrefix + " Please try again. Error code: 19",
		Resolution:       "The vendor violated its own contract. Report the device and Play Store version if this persists.",
		Class:            DeveloperActionRequired,
	}},
	{FamilyPlayIntegrity, []string{"INVALID_IS_SUPPORTED_API"}, Record{
		Code:             "INVALID_IS_SUPPORTED_API",
		NumericCode:      20,
		DocumentationURL: localDocs,
		Detail:           "IsPlatformAttestationSupported is only meaningful on iOS, but was called on Android.",
		UserMessage:      playUserPrefix + " Please try again. Error code: 20",
		Resolution:       "On Android, support is determined by requesting a token and handling the classified error. Only call the support check on iOS.",
		Class:            DeveloperActionRequired,
	}},

	// App Attest.
	{FamilyAppAttest, []string{"INVALID_KEY", "3"}, Record{
		Code:             "INVALID_KEY",
		NumericCode:      21,
		DocumentationURL: appleDocs + "3585177-invalidkey",
		Detail:           "An error caused by a failed attempt to use the App Attest key.",
		UserMessage:      appleUserPrefix + " Please try again. Error code: 21",
		Resolution:       "An invalid or non-existent key was used. Ensure the key store is durable across launches and that the stored key identifier was produced on this device.",
		Class:            DeveloperActionRequired,
	}},
	{FamilyAppAttest, []string{"INVALID_INPUT", "2"}, Record{
		Code:             "INVALID_INPUT",
		NumericCode:      22,
		DocumentationURL: appleDocs + "3585176-invalidinput",
		Detail:           "The app provided data that isn't formatted correctly.",
		UserMessage:      appleUserPrefix + " Please try again. Error code: 22",
		Resolution:       "The challenge must be UTF-8 and hashable via SHA-256. Assertion request bodies must be JSON objects.",
		Class:            DeveloperActionRequired,
	}},
	{FamilyAppAttest, []string{"SERVER_UNAVAILABLE", "4"}, Record{
		Code:             "SERVER_UNAVAILABLE",
		NumericCode:      23,
		DocumentationURL: appleDocs + "3585178-serverunavailable",
		Detail:           "A failed attempt to contact the App Attest service during an attestation. Try again later using the same key and the same client data hash to preserve the risk metric for the device.",
		UserMessage:      appleUserPrefix + " Apple App Attest services may be temporarily degraded. Please try again. Error code: 23",
		Resolution:       "Retry with an exponential backoff.",
		Class:            DeveloperActionRequired,
		Retryable:        true,
	}},
	{FamilyAppAttest, []string{"FEATURE_UNSUPPORTED", "1"}, Record{
		Code:             "FEATURE_UNSUPPORTED",
		NumericCode:      24,
		DocumentationURL: appleDocs + "2896943-featureunsupported",
		Detail:           "DeviceCheck is not available on this device.",
		UserMessage:      appleUserPrefix + " Please try again on another device. Error code: 24",
		Resolution:       "App Attest will always fail on this device. Test on a physical device with the App Attest capability enabled, or gate calls with IsPlatformAttestationSupported and handle unattested requests server side.",
		Class:            DeveloperActionRequired,
	}},
	{FamilyAppAttest, []string{"EXECUTED_IN_SIMULATOR"}, Record{
		Code:             "EXECUTED_IN_SIMULATOR",
		NumericCode:      25,
		DocumentationURL: "https://developer.apple.com/documentation/devicecheck/establishing_your_app_s_integrity",
		Detail:           "App Attest requires a physical device and will not work in a simulator.",
		UserMessage:      appleUserPrefix + " Please try again on another device. Error code: 25",
		Resolution:       "Run a development build on a physical device.",
		Class:            DeveloperActionRequired,
	}},
	{FamilyAppAttest, []string{"UNKNOWN_SYSTEM_FAILURE", "0"}, Record{
		Code:             "UNKNOWN_SYSTEM_FAILURE",
		NumericCode:      27,
		DocumentationURL: appleDocs + "2896947-unknownsystemfailure",
		Detail:           "A failure has occurred, such as the failure to generate a token.",
		UserMessage:      appleUserPrefix + " Please try again. Error code: 27",
		Resolution:       "Retry with an exponential backoff.",
		Class:            DeveloperActionRequired,
		Retryable:        true,
	}},
	{FamilyAppAttest, []string{"INVALID_ATTESTATION_RESPONSE"}, Record{
		Code:             "INVALID_ATTESTATION_RESPONSE",
		NumericCode:      29,
		DocumentationURL: localDocs,
		Detail:           "App Attest did not return an error, but the attestation was empty.",
		UserMessage:      appleUserPrefix + " Please try again. Error code: 29",
		Resolution:       "The vendor violated its own contract. Report the device and OS version if this persists.",
		Class:            DeveloperActionRequired,
	}},
	{FamilyAppAttest, []string{"INVALID_ASSERTION_RESPONSE"}, Record{
		Code:             "INVALID_ASSERTION_RESPONSE",
		NumericCode:      30,
		DocumentationURL: localDocs,
		Detail:           "App Attest did not return an error, but the assertion was empty.",
		UserMessage:      appleUserPrefix + " Please try again. Error code: 30",
		Resolution:       "The vendor violated its own contract. Report the device and OS version if this persists.",
		Class:            DeveloperActionRequired,
	}},
	{FamilyAppAttest, []string{"INVALID_KEY_IDENTIFIER_RESPONSE"}, Record{
		Code:             "INVALID_KEY_IDENTIFIER_RESPONSE",
		NumericCode:      31,
		DocumentationURL: localDocs,
		Detail:           "App Attest did not return an error, but the generated key identifier was empty. Nothing was persisted.",
		UserMessage:      appleUserPrefix + " Please try again. Error code: 31",
		Resolution:       "The vendor violated its own contract. Report the device and OS version if this persists.",
		Class:            DeveloperActionRequired,
	}},
	{FamilyPlayIntegrity, []string{"INVALID_GENERATE_ASSERTION_API"}, Record{
		Code:             "INVALID_GENERATE_ASSERTION_API",
		NumericCode:      35,
		DocumentationURL: localDocs,
		Detail:           "GenerateAssertion is only available with App Attest, but was called on Android.",
		UserMessage:      playUserPrefix + " Please try again. Error code: 35",
		Resolution:       "Request a fresh integrity token per sensitive request on Android instead of generating assertions.",
		Class:            DeveloperActionRequired,
	}},

	// Core.
	{FamilyCore, nil, Record{
		Code:             "UNKNOWN",
		NumericCode:      codeUnknown,
		DocumentationURL: localDocs,
		Detail:           "An unknown error occurred. See originalMessage for more information.",
		UserMessage:      coreUserPrefix + " An unknown error occurred. Error code: 26",
		Resolution:       "Retry with an exponential backoff. Consider filing an issue if this persists.",
		Class:            DeveloperActionRequired,
		Retryable:        true,
	}},
	{FamilyCore, []string{"UNSUPPORTED_PLATFORM"}, Record{
		Code:             "UNSUPPORTED_PLATFORM",
		NumericCode:      28,
		DocumentationURL: localDocs,
		Detail:           "The configured platform has no attestation service.",
		UserMessage:      coreUserPrefix + " This device is not supported. Error code: 28",
		Resolution:       "Only configure the client with PlatformIOS or PlatformAndroid.",
		Class:            DeveloperActionRequired,
	}},
	{FamilyCore, []string{"STORAGE_FAILURE"}, Record{
		Code:             "STORAGE_FAILURE",
		NumericCode:      32,
		DocumentationURL: localDocs,
		Detail:           "The secure key store failed to read or write the attestation key identifier.",
		UserMessage:      coreUserPrefix + " Please try again. Error code: 32",
		Resolution:       "Check that the key store is available before attesting. No key identifier was cached or persisted by the failed call.",
		Class:            DeveloperActionRequired,
	}},
	{FamilyCore, []string{"INVALID_CHALLENGE"}, Record{
		Code:             "INVALID_CHALLENGE",
		NumericCode:      33,
		DocumentationURL: localDocs,
		Detail:           "The challenge is empty.",
		UserMessage:      coreUserPrefix + " Please try again. Error code: 33",
		Resolution:       "Pass the non-empty challenge issued by your server.",
		Class:            DeveloperActionRequired,
	}},
	{FamilyCore, []string{"MISSING_KEY_IDENTIFIER"}, Record{
		Code:             "MISSING_KEY_IDENTIFIER",
		NumericCode:      34,
		DocumentationURL: localDocs,
		Detail:           "An assertion was requested without a key identifier.",
		UserMessage:      coreUserPrefix + " Please try again. Error code: 34",
		Resolution:       "Attest a key first and pass the identifier it was stored under.",
		Class:            DeveloperActionRequired,
	}},
}

type tableKey struct {
	family Family
	code   string
}

var (
	byVendorCode, byNumericCode = buildIndex(table)
)

// buildIndex panics on duplicate numeric or vendor codes so a bad table never
// ships.
func buildIndex(entries []entry) (map[tableKey]*Record, map[int]*Record) {
	vendor := make(map[tableKey]*Record, len(entries)*2)
	numeric := make(map[int]*Record, len(entries))

	for i := range entries {
		e := &entries[i]
		e.record.family = e.family

		if prev, dup := numeric[e.record.NumericCode]; dup {
			panic(fmt.Sprintf("taxonomy: numeric code %d used by %s and %s", e.record.NumericCode, prev.Code, e.record.Code))
		}
		numeric[e.record.NumericCode] = &e.record

		for _, code := range e.codes {
			k := tableKey{e.family, code}
			if prev, dup := vendor[k]; dup {
				panic(fmt.Sprintf("taxonomy: vendor code %s/%s maps to %s and %s", e.family, code, prev.Code, e.record.Code))
			}
			vendor[k] = &e.record
		}
	}

	return vendor, numeric
}

func mustLookup(family Family, code string) *Record {
	r, ok := byVendorCode[tableKey{family, code}]
	if !ok {
		panic("taxonomy: missing table entry " + string(family) + "/" + code)
	}
	c := *r
	return &c
}

func mustNumeric(code int) *Record {
	r, ok := byNumericCode[code]
	if !ok {
		panic(fmt.Sprintf("taxonomy: missing numeric code %d", code))
	}
	c := *r
	return &c
}

// Sentinel records for failures raised by the core itself. Compare with
// errors.Is; returned errors are copies. Sentinels are copies of the table
// too, so changing one never reaches Lookup.
var (
	ErrUnknown                      = mustNumeric(codeUnknown)
	ErrUnsupportedPlatform          = mustLookup(FamilyCore, "UNSUPPORTED_PLATFORM")
	ErrStorageFailure               = mustLookup(FamilyCore, "STORAGE_FAILURE")
	ErrInvalidChallenge             = mustLookup(FamilyCore, "INVALID_CHALLENGE")
	ErrMissingKeyIdentifier         = mustLookup(FamilyCore, "MISSING_KEY_IDENTIFIER")
	ErrExecutedInSimulator          = mustLookup(FamilyAppAttest, "EXECUTED_IN_SIMULATOR")
	ErrInvalidAttestationResponse   = mustLookup(FamilyAppAttest, "INVALID_ATTESTATION_RESPONSE")
	ErrInvalidAssertionResponse     = mustLookup(FamilyAppAttest, "INVALID_ASSERTION_RESPONSE")
	ErrInvalidKeyIdentifierResponse = mustLookup(FamilyAppAttest, "INVALID_KEY_IDENTIFIER_RESPONSE")
	ErrInvalidTokenResponse         = mustLookup(FamilyPlayIntegrity, "INVALID_INTEGRITY_TOKEN_RESPONSE")
	ErrInvalidIsSupportedAPI        = mustLookup(FamilyPlayIntegrity, "INVALID_IS_SUPPORTED_API")
	ErrInvalidGenerateAssertionAPI  = mustLookup(FamilyPlayIntegrity, "INVALID_GENERATE_ASSERTION_API")
	ErrCloudProjectNumberInvalid    = mustLookup(FamilyPlayIntegrity, "CLOUD_PROJECT_NUMBER_IS_INVALID")
	ErrNonceNotBase64               = mustLookup(FamilyPlayIntegrity, "NONCE_IS_NOT_BASE64")
	ErrNonceTooShort                = mustLookup(FamilyPlayIntegrity, "NONCE_TOO_SHORT")
	ErrNonceTooLong                 = mustLookup(FamilyPlayIntegrity, "NONCE_TOO_LONG")
)

// Lookup returns a copy of the record registered for a vendor code. Codes may
// be symbolic ("NETWORK_ERROR") or the vendor's numeric value ("-3").
func Lookup(family Family, code string) (*Record, bool) {
	r, ok := byVendorCode[tableKey{family, code}]
	if !ok {
		return nil, false
	}
	c := *r
	return &c, true
}

// LookupNumeric is Lookup by vendor numeric code.
func LookupNumeric(family Family, code int) (*Record, bool) {
	return Lookup(family, strconv.Itoa(code))
}

// ByNumericCode returns a copy of the record with the given stable numeric code.
func ByNumericCode(code int) (*Record, bool) {
	r, ok := byNumericCode[code]
	if !ok {
		return nil, false
	}
	c := *r
	return &c, true
}

// Records returns copies of every record in the table, in table order.
func Records() []*Record {
	out := make([]*Record, 0, len(table))
	for i := range table {
		c := table[i].record
		out = append(out, &c)
	}
	return out
}

// VendorCodes returns the symbolic vendor codes of a family, in table order.
// Records raised by the core (no vendor counterpart) are included too.
func VendorCodes(family Family) []string {
	var out []string
	for _, e := range table {
		if e.family == family && len(e.codes) > 0 {
			out = append(out, e.codes[0])
		}
	}
	return out
}
