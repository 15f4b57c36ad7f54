package taxonomy

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_NumericCodesUnique(t *testing.T) {
	seen := make(map[int]string)
	for _, r := range Records() {
		prev, dup := seen[r.NumericCode]
		assert.False(t, dup, "numeric code %d used by %s and %s", r.NumericCode, prev, r.Code)
		seen[r.NumericCode] = r.Code
	}
	assert.Len(t, seen, len(table))
}

func TestTable_EveryRecordComplete(t *testing.T) {
	for _, r := range Records() {
		t.Run(r.Code, func(t *testing.T) {
			assert.NotEmpty(t, r.Code)
			assert.NotEmpty(t, r.DocumentationURL)
			assert.NotEmpty(t, r.Detail)
			assert.NotEmpty(t, r.UserMessage)
			assert.NotEmpty(t, r.Resolution)
			assert.Empty(t, r.OriginalMessage)
			assert.Contains(t, r.UserMessage, fmt.Sprintf("Error code: %d", r.NumericCode))
		})
	}
}

func TestTable_RetryableOnlyForDeveloperAction(t *testing.T) {
	for _, r := range Records() {
		if r.Retryable {
			assert.Equal(t, DeveloperActionRequired, r.Class, r.Code)
		}
	}
}

func TestBuildIndex_PanicsOnDuplicateNumericCode(t *testing.T) {
	entries := []entry{
		{FamilyCore, []string{"A"}, Record{Code: "A", NumericCode: 1}},
		{FamilyCore, []string{"B"}, Record{Code: "B", NumericCode: 1}},
	}
	assert.Panics(t, func() { buildIndex(entries) })
}

func TestBuildIndex_PanicsOnDuplicateVendorCode(t *testing.T) {
	entries := []entry{
		{FamilyCore, []string{"A"}, Record{Code: "A", NumericCode: 1}},
		{FamilyCore, []string{"A"}, Record{Code: "B", NumericCode: 2}},
	}
	assert.Panics(t, func() { buildIndex(entries) })
}

func TestNormalize_EveryVendorCodeMapsToOneRecord(t *testing.T) {
	for _, family := range []Family{FamilyAppAttest, FamilyPlayIntegrity} {
		for _, code := range VendorCodes(family) {
			t.Run(string(family)+"/"+code, func(t *testing.T) {
				rec := Normalize(family, &VendorError{Family: family, Code: code, Message: "vendor text"})
				require.NotNil(t, rec)
				assert.Equal(t, code, rec.Code)
				assert.False(t, rec.IsUnknown())
				assert.Empty(t, rec.OriginalMessage)
				assert.Equal(t, family, rec.Family())
			})
		}
	}
}

func TestNormalize_ResolutionClasses(t *testing.T) {
	tests := []struct {
		family    Family
		code      string
		class     Class
		retryable bool
	}{
		{FamilyPlayIntegrity, "APP_NOT_INSTALLED", NonActionable, false},
		{FamilyPlayIntegrity, "APP_UID_MISMATCH", NonActionable, false},
		{FamilyPlayIntegrity, "PLAY_STORE_VERSION_OUTDATED", UserActionRequired, false},
		{FamilyPlayIntegrity, "PLAY_SERVICES_NOT_FOUND", UserActionRequired, false},
		{FamilyPlayIntegrity, "NETWORK_ERROR", UserActionRequired, false},
		{FamilyPlayIntegrity, "CLIENT_TRANSIENT_ERROR", DeveloperActionRequired, true},
		{FamilyPlayIntegrity, "GOOGLE_SERVER_UNAVAILABLE", DeveloperActionRequired, true},
		{FamilyPlayIntegrity, "TOO_MANY_REQUESTS", DeveloperActionRequired, true},
		{FamilyPlayIntegrity, "CLOUD_PROJECT_NUMBER_IS_INVALID", DeveloperActionRequired, false},
		{FamilyPlayIntegrity, "NONCE_TOO_SHORT", DeveloperActionRequired, false},
		{FamilyAppAttest, "SERVER_UNAVAILABLE", DeveloperActionRequired, true},
		{FamilyAppAttest, "UNKNOWN_SYSTEM_FAILURE", DeveloperActionRequired, true},
		{FamilyAppAttest, "INVALID_INPUT", DeveloperActionRequired, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := Normalize(tt.family, &VendorError{Code: tt.code})
			assert.Equal(t, tt.class, rec.Class)
			assert.Equal(t, tt.retryable, rec.Retryable)
		})
	}
}

func TestNormalize_NumericAliases(t *testing.T) {
	tests := []struct {
		family Family
		code   string
		want   string
	}{
		{FamilyPlayIntegrity, "-1", "API_NOT_AVAILABLE"},
		{FamilyPlayIntegrity, "-3", "NETWORK_ERROR"},
		{FamilyPlayIntegrity, "-100", "INTERNAL_ERROR"},
		{FamilyPlayIntegrity, "API_UID_MISMATCH", "APP_UID_MISMATCH"},
		{FamilyAppAttest, "0", "UNKNOWN_SYSTEM_FAILURE"},
		{FamilyAppAttest, "3", "INVALID_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := Normalize(tt.family, &VendorError{Code: tt.code})
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec, ok := LookupNumeric(FamilyPlayIntegrity, -8)
	require.True(t, ok)
	assert.Equal(t, "TOO_MANY_REQUESTS", rec.Code)
}

func TestNormalize_UnknownVendorCode(t *testing.T) {
	rec := Normalize(FamilyAppAttest, &VendorError{Code: "BRAND_NEW_CODE", Message: "something new happened"})
	require.NotNil(t, rec)
	assert.True(t, rec.IsUnknown())
	assert.Equal(t, "UNKNOWN", rec.Code)
	assert.Equal(t, 26, rec.NumericCode)
	assert.Equal(t, "something new happened", rec.OriginalMessage)
	assert.ErrorIs(t, rec, ErrUnknown)
}

func TestNormalize_FamilyScopedLookup(t *testing.T) {
	// NETWORK_ERROR is a Play Integrity code only.
	rec := Normalize(FamilyAppAttest, &VendorError{Code: "NETWORK_ERROR", Message: "net"})
	assert.True(t, rec.IsUnknown())
	assert.Equal(t, "net", rec.OriginalMessage)
}

func TestNormalize_OpaqueText(t *testing.T) {
	tests := []struct {
		name    string
		family  Family
		message string
		want    string
	}{
		{"ios trailing token", FamilyAppAttest, "Calling the 'attestKey' function has failed → Caused by: INVALID_KEY", "INVALID_KEY"},
		{"android parenthesized token", FamilyPlayIntegrity, "com.google.android.play.core.integrity.IntegrityServiceException: Error(NETWORK_ERROR)", "NETWORK_ERROR"},
		{"android numeric token", FamilyPlayIntegrity, "Integrity API error (-12)", "GOOGLE_SERVER_UNAVAILABLE"},
		{"trailing period", FamilyAppAttest, "failed with SERVER_UNAVAILABLE.", "SERVER_UNAVAILABLE"},
		{"prose only", FamilyAppAttest, "the operation couldn't be completed", "UNKNOWN"},
		{"unknown token", FamilyPlayIntegrity, "failed: SOMETHING_ELSE", "UNKNOWN"},
		{"empty", FamilyPlayIntegrity, "", "UNKNOWN"},
		{"ios nserror numeric code", FamilyAppAttest, "The operation couldn’t be completed. (com.apple.devicecheck.error error 3.)", "INVALID_KEY"},
		{"android Error(-N)", FamilyPlayIntegrity, "IntegrityServiceException: Error(-9)", "CANNOT_BIND_TO_SERVICE"},
		{"ios bare trailing number", FamilyAppAttest, "keychain: read of entry failed after retry 3", "UNKNOWN"},
		{"ios bare trailing attempt", FamilyAppAttest, "bridge: timed out after attempt 4", "UNKNOWN"},
		{"android bare trailing zero", FamilyPlayIntegrity, "bridge returned status 0", "UNKNOWN"},
		{"android bare negative", FamilyPlayIntegrity, "request failed: -3", "UNKNOWN"},
		{"android numeric shape on ios", FamilyAppAttest, "failed (-3)", "UNKNOWN"},
		{"ios numeric shape on android", FamilyPlayIntegrity, "com.apple.devicecheck.error error 3", "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Normalize(tt.family, errors.New(tt.message))
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == "UNKNOWN" {
				assert.Equal(t, tt.message, rec.OriginalMessage)
			} else {
				assert.Empty(t, rec.OriginalMessage)
			}
		})
	}
}

func TestNormalize_OpaqueVendorError(t *testing.T) {
	rec := Normalize(FamilyPlayIntegrity, Opaque(FamilyPlayIntegrity, "binder died: CANNOT_BIND_TO_SERVICE"))
	assert.Equal(t, "CANNOT_BIND_TO_SERVICE", rec.Code)

	rec = Normalize(FamilyPlayIntegrity, Opaque(FamilyPlayIntegrity, "binder died"))
	assert.True(t, rec.IsUnknown())
	assert.Equal(t, "binder died", rec.OriginalMessage)
}

func TestNormalize_PassesRecordsThrough(t *testing.T) {
	original := ErrStorageFailure.WithCause(errors.New("disk full"))
	wrapped := fmt.Errorf("context: %w", original)

	rec := Normalize(FamilyAppAttest, wrapped)
	assert.Same(t, original, rec)
	assert.Nil(t, Normalize(FamilyAppAttest, nil))
}

func TestNormalize_KeepsCause(t *testing.T) {
	ve := &VendorError{Family: FamilyAppAttest, Code: "INVALID_INPUT"}
	rec := Normalize(FamilyAppAttest, ve)

	var got *VendorError
	require.ErrorAs(t, rec, &got)
	assert.Same(t, ve, got)
}

func TestNormalize_DoesNotMutateTable(t *testing.T) {
	rec := Normalize(FamilyPlayIntegrity, &VendorError{Code: "NETWORK_ERROR"})
	rec.Detail = "changed"

	again, ok := Lookup(FamilyPlayIntegrity, "NETWORK_ERROR")
	require.True(t, ok)
	assert.Equal(t, "No available network is found.", again.Detail)
}

func TestSentinels_AreCopiesOfTheTable(t *testing.T) {
	sentinel := ErrStorageFailure
	saved := *sentinel
	t.Cleanup(func() { *sentinel = saved })

	sentinel.Detail = "corrupted"
	sentinel.NumericCode = 4

	rec, ok := Lookup(FamilyCore, "STORAGE_FAILURE")
	require.True(t, ok)
	assert.Equal(t, 32, rec.NumericCode)
	assert.NotEqual(t, "corrupted", rec.Detail)

	byCode, ok := ByNumericCode(32)
	require.True(t, ok)
	assert.Equal(t, "STORAGE_FAILURE", byCode.Code)

	network := Normalize(FamilyPlayIntegrity, &VendorError{Code: "NETWORK_ERROR"})
	assert.Equal(t, 4, network.NumericCode)

	unknown := ErrUnknown
	savedUnknown := *unknown
	t.Cleanup(func() { *unknown = savedUnknown })
	unknown.Detail = "changed"
	assert.NotEqual(t, "changed", Unknown("x").Detail)
}

func TestTable_CoreRecordsArePlatformNeutral(t *testing.T) {
	for _, r := range Records() {
		if r.Family() != FamilyCore {
			continue
		}
		assert.True(t, strings.HasPrefix(r.UserMessage, coreUserPrefix), r.Code)
		assert.NotContains(t, r.UserMessage, "App Attest", r.Code)
		assert.NotContains(t, r.UserMessage, "Google Play", r.Code)
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Caused by: INVALID_INPUT", "INVALID_INPUT", true},
		{"Error(-3)", "", false},
		{"retry 3", "", false},
		{"failed: INVALID_KEY.", "INVALID_KEY", true},
		{"INVALID_KEY", "INVALID_KEY", true},
		{"lower case token", "", false},
		{"", "", false},
		{"   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ExtractToken(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractCode(t *testing.T) {
	tests := []struct {
		family Family
		in     string
		want   string
		wantOK bool
	}{
		{FamilyPlayIntegrity, "Error(-3)", "-3", true},
		{FamilyPlayIntegrity, "Integrity API error (-100).", "-100", true},
		{FamilyPlayIntegrity, "status (3)", "", false},
		{FamilyPlayIntegrity, "status 0", "", false},
		{FamilyAppAttest, "(com.apple.devicecheck.error error 4.)", "4", true},
		{FamilyAppAttest, "attempt 4", "", false},
		{FamilyAppAttest, "Caused by: INVALID_INPUT", "INVALID_INPUT", true},
		{FamilyCore, "Error(-3)", "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.family)+"/"+tt.in, func(t *testing.T) {
			got, ok := ExtractCode(tt.family, tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMessage(t *testing.T) {
	ve := ParseMessage(FamilyAppAttest, "Caused by: FEATURE_UNSUPPORTED")
	assert.Equal(t, "FEATURE_UNSUPPORTED", ve.Code)

	ve = ParseMessage(FamilyPlayIntegrity, "IntegrityServiceException: Error(-16)")
	assert.Equal(t, "-16", ve.Code)

	ve = ParseMessage(FamilyAppAttest, "failed after retry 3")
	assert.Empty(t, ve.Code)

	ve = ParseMessage(FamilyAppAttest, "Caused by: NOT_A_CODE")
	assert.Empty(t, ve.Code)
	assert.Equal(t, "Caused by: NOT_A_CODE", ve.Message)
}

func TestRecord_IsComparesNumericCode(t *testing.T) {
	rec := Normalize(FamilyPlayIntegrity, &VendorError{Code: "-16"})
	assert.ErrorIs(t, rec, ErrCloudProjectNumberInvalid)
	assert.NotErrorIs(t, rec, ErrNonceTooLong)
}

func TestRecord_JSON(t *testing.T) {
	rec := Unknown("boom")
	b, err := json.Marshal(rec)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "UNKNOWN", m["code"])
	assert.Equal(t, float64(26), m["errorCode"])
	assert.Equal(t, "DEVELOPER_ACTION_REQUIRED", m["resolutionType"])
	assert.Equal(t, "boom", m["originalMessage"])

	rec, _ = Lookup(FamilyPlayIntegrity, "NETWORK_ERROR")
	b, err = json.Marshal(rec)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "originalMessage")
}
