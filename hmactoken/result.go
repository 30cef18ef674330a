package hmactoken

import (
	apperrors "github.com/shhhinnovations/cryptokit/errors"
)

// Result is the outcome of a token verification.
type Result int

const (
	// OK means the token is unexpired and its digest matches.
	OK Result = iota
	// Expired means the embedded expiry is in the past. It is reported
	// before the digest is checked.
	Expired
	// Invalid means the token is malformed or its digest does not match.
	Invalid
)

func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case Expired:
		return "Expired"
	case Invalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// Err converts a non-OK result into an AppError for callers that surface
// verification failures as errors. OK returns nil.
func (r Result) Err() error {
	switch r {
	case OK:
		return nil
	case Expired:
		return apperrors.TokenExpired()
	default:
		return apperrors.InvalidToken()
	}
}
