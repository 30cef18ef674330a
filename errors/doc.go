// Package errors provides unified error handling for cryptokit.
// It implements structured error types with error codes and HTTP status mapping
// following RFC 7807.
//
// Constructors such as InvalidArgument and DecryptionFailure return *AppError.
// Sentinel values (ErrInvalidArgument, ErrDecryptionFailure, ...) match any
// AppError carrying the same code:
//
//	if errors.Is(err, apperrors.ErrDecryptionFailure) { ... }
package errors
