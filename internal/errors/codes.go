// Package errors provides structured error handling for dexsync.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Storage errors (SQLite, filesystem)
//   - 3XX: Dex API errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryStorage indicates local store and filesystem errors.
	CategoryStorage Category = "STORAGE"
	// CategoryAPI indicates upstream Dex API errors.
	CategoryAPI Category = "API"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
	// SeverityInfo indicates informational only.
	SeverityInfo Severity = "INFO"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound   = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    = "ERR_102_CONFIG_INVALID"
	ErrCodeConfigPermission = "ERR_103_CONFIG_PERMISSION"

	// Storage errors (200-299)
	ErrCodeStoreOpen       = "ERR_201_STORE_OPEN"
	ErrCodeStoreCorrupt    = "ERR_202_STORE_CORRUPT"
	ErrCodeStoreLocked     = "ERR_203_STORE_LOCKED"
	ErrCodeContactNotFound = "ERR_204_CONTACT_NOT_FOUND"

	// Dex API errors (300-399)
	ErrCodeAPITimeout     = "ERR_301_API_TIMEOUT"
	ErrCodeAPIUnavailable = "ERR_302_API_UNAVAILABLE"
	ErrCodeAPIRateLimited = "ERR_303_API_RATE_LIMITED"
	ErrCodeAPIAuth        = "ERR_304_API_AUTH"
	ErrCodeAPINotFound    = "ERR_305_API_NOT_FOUND"

	// Validation errors (400-499)
	ErrCodeInvalidInput        = "ERR_401_INVALID_INPUT"
	ErrCodeEmptyCluster        = "ERR_402_EMPTY_CLUSTER"
	ErrCodePrimaryNotInCluster = "ERR_403_PRIMARY_NOT_IN_CLUSTER"
	ErrCodeGroupNotFound       = "ERR_404_GROUP_NOT_FOUND"

	// Internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeMergeFailed  = "ERR_502_MERGE_FAILED"
	ErrCodeSyncFailed   = "ERR_503_SYNC_FAILED"
	ErrCodeDetectFailed = "ERR_504_DETECT_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "101" from "ERR_101_CONFIG_NOT_FOUND")
	numStr := code[4:7]
	if len(numStr) < 1 {
		return CategoryInternal
	}

	switch numStr[0] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryStorage
	case '3':
		return CategoryAPI
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	// Fatal errors
	if code == ErrCodeStoreCorrupt {
		return SeverityFatal
	}

	// Retryable errors get warning severity
	if isRetryableCode(code) {
		return SeverityWarning
	}

	// Default to error severity
	return SeverityError
}

// isRetryableCode checks if an error code represents a retryable error.
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodeAPITimeout, ErrCodeAPIUnavailable, ErrCodeAPIRateLimited, ErrCodeStoreLocked:
		return true
	default:
		return false
	}
}
