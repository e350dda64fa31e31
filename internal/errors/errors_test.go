package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDexError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("original error")

	// When: wrapping with DexError
	dexErr := New(ErrCodeContactNotFound, "contact abc123 not found", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, dexErr)
	assert.Equal(t, originalErr, errors.Unwrap(dexErr))
	assert.True(t, errors.Is(dexErr, originalErr))
}

func TestDexError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{
			name:     "config error",
			code:     ErrCodeConfigNotFound,
			message:  "config file not found",
			expected: "[ERR_101_CONFIG_NOT_FOUND] config file not found",
		},
		{
			name:     "storage error",
			code:     ErrCodeStoreOpen,
			message:  "cannot open contacts.db",
			expected: "[ERR_201_STORE_OPEN] cannot open contacts.db",
		},
		{
			name:     "api error",
			code:     ErrCodeAPITimeout,
			message:  "request timed out",
			expected: "[ERR_301_API_TIMEOUT] request timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, nil)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestDexError_Is_MatchesByCode(t *testing.T) {
	// Given: two errors with same code
	err1 := New(ErrCodeContactNotFound, "contact A not found", nil)
	err2 := New(ErrCodeContactNotFound, "contact B not found", nil)

	// Then: they match by code
	assert.True(t, errors.Is(err1, err2))
}

func TestDexError_Is_DoesNotMatchDifferentCodes(t *testing.T) {
	// Given: two errors with different codes
	err1 := New(ErrCodeContactNotFound, "contact not found", nil)
	err2 := New(ErrCodeConfigNotFound, "config not found", nil)

	// Then: they don't match
	assert.False(t, errors.Is(err1, err2))
}

func TestDexError_WithDetails_AddsContext(t *testing.T) {
	// Given: a base error
	err := New(ErrCodeContactNotFound, "contact not found", nil)

	// When: adding details
	err = err.WithDetail("contact_id", "abc123")
	err = err.WithDetail("group_id", "f3a9c2e1")

	// Then: details are available
	assert.Equal(t, "abc123", err.Details["contact_id"])
	assert.Equal(t, "f3a9c2e1", err.Details["group_id"])
}

func TestDexError_WithSuggestion_AddsSuggestion(t *testing.T) {
	// Given: an API error
	err := New(ErrCodeAPIAuth, "401 unauthorized", nil)

	// When: adding suggestion
	err = err.WithSuggestion("Set DEX_API_KEY in your environment")

	// Then: suggestion is available
	assert.Equal(t, "Set DEX_API_KEY in your environment", err.Suggestion)
}

func TestDexError_CategoryFromCode(t *testing.T) {
	tests := []struct {
		code         string
		wantCategory Category
	}{
		{ErrCodeConfigNotFound, CategoryConfig},
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodeStoreOpen, CategoryStorage},
		{ErrCodeContactNotFound, CategoryStorage},
		{ErrCodeAPITimeout, CategoryAPI},
		{ErrCodeAPIRateLimited, CategoryAPI},
		{ErrCodeInvalidInput, CategoryValidation},
		{ErrCodeEmptyCluster, CategoryValidation},
		{ErrCodeInternal, CategoryInternal},
		{ErrCodeMergeFailed, CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "test message", nil)
			assert.Equal(t, tt.wantCategory, err.Category)
		})
	}
}

func TestDexError_SeverityFromCode(t *testing.T) {
	tests := []struct {
		code         string
		wantSeverity Severity
	}{
		{ErrCodeStoreCorrupt, SeverityFatal},
		{ErrCodeContactNotFound, SeverityError},
		{ErrCodeAPITimeout, SeverityWarning}, // Retryable, so warning
		{ErrCodeAPIRateLimited, SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "test message", nil)
			assert.Equal(t, tt.wantSeverity, err.Severity)
		})
	}
}

func TestDexError_RetryableFromCode(t *testing.T) {
	tests := []struct {
		code          string
		wantRetryable bool
	}{
		{ErrCodeAPITimeout, true},
		{ErrCodeAPIUnavailable, true},
		{ErrCodeAPIRateLimited, true},
		{ErrCodeStoreLocked, true},
		{ErrCodeContactNotFound, false},
		{ErrCodeConfigInvalid, false},
		{ErrCodeStoreCorrupt, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "test message", nil)
			assert.Equal(t, tt.wantRetryable, err.Retryable)
		})
	}
}

func TestWrap_CreatesDexErrorFromError(t *testing.T) {
	// Given: a standard error
	originalErr := errors.New("something went wrong")

	// When: wrapping with a code
	dexErr := Wrap(ErrCodeInternal, originalErr)

	// Then: creates proper DexError
	require.NotNil(t, dexErr)
	assert.Equal(t, ErrCodeInternal, dexErr.Code)
	assert.Equal(t, "something went wrong", dexErr.Message)
	assert.Equal(t, originalErr, dexErr.Cause)
}

func TestWrap_NilErrorReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestConfigError_CreatesConfigCategoryError(t *testing.T) {
	err := ConfigError("invalid yaml syntax", nil)

	assert.Equal(t, CategoryConfig, err.Category)
	assert.Contains(t, err.Code, "CONFIG")
}

func TestStorageError_CreatesStorageCategoryError(t *testing.T) {
	err := StorageError("cannot open database", nil)

	assert.Equal(t, CategoryStorage, err.Category)
}

func TestAPIError_CreatesRetryableError(t *testing.T) {
	err := APIError("connection refused", nil)

	assert.Equal(t, CategoryAPI, err.Category)
	assert.True(t, err.Retryable)
}

func TestValidationError_CreatesValidationCategoryError(t *testing.T) {
	err := ValidationError("cluster cannot be empty", nil)

	assert.Equal(t, CategoryValidation, err.Category)
}

func TestIsRetryable_ChecksRetryableFlag(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "retryable DexError",
			err:      New(ErrCodeAPITimeout, "timeout", nil),
			expected: true,
		},
		{
			name:     "non-retryable DexError",
			err:      New(ErrCodeContactNotFound, "not found", nil),
			expected: false,
		},
		{
			name:     "wrapped retryable error",
			err:      Wrap(ErrCodeAPITimeout, errors.New("wrapped")),
			expected: true,
		},
		{
			name:     "standard error",
			err:      errors.New("standard error"),
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetryable(tt.err))
		})
	}
}

func TestIsFatal_ChecksFatalSeverity(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "corrupt store error",
			err:      New(ErrCodeStoreCorrupt, "malformed database", nil),
			expected: true,
		},
		{
			name:     "non-fatal error",
			err:      New(ErrCodeContactNotFound, "not found", nil),
			expected: false,
		},
		{
			name:     "standard error",
			err:      errors.New("standard error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsFatal(tt.err))
		})
	}
}
