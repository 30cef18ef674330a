package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Argument errors
const (
	// ErrCodeInvalidArgument indicates a constructor or setter received an unusable argument.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeInvalidInput indicates a request payload is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Cryptographic errors
const (
	// ErrCodeEncryptionFailure indicates the cipher could not produce ciphertext.
	ErrCodeEncryptionFailure ErrorCode = "ENCRYPTION_FAILURE"
	// ErrCodeDecryptionFailure indicates ciphertext failed to decode, unpad or authenticate.
	ErrCodeDecryptionFailure ErrorCode = "DECRYPTION_FAILURE"
)

// Token errors
const (
	// ErrCodeTokenExpired indicates a signed token is past its expiry.
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
	// ErrCodeInvalidToken indicates a signed token failed verification.
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
)

// Transport errors
const (
	// ErrCodeNotFound indicates the requested route does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeRateLimited indicates the caller exceeded its request budget.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Cryptographic outcomes do not change when an operation is repeated, so
// only transport throttling is retryable.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeRateLimited: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
