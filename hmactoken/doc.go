// Package hmactoken issues and verifies expiring HMAC tokens.
//
// Tokens carry their own expiry and are bound to a salt and a data string:
//
//	svc := hmactoken.New([]byte(key))
//	token, expiry := svc.Issue("reset-password", "user@example.com", time.Hour)
//	switch svc.VerifyHash("reset-password", "user@example.com", token) {
//	case hmactoken.OK:
//	case hmactoken.Expired:
//	case hmactoken.Invalid:
//	}
//
// The wire format is byte-compatible with the .NET HMACSHA1 tokens that use
// DateTime ticks: 8 little-endian tick bytes followed by the 20-byte digest,
// base64 encoded with '+', '=' and '/' replaced by '-', '_' and ','.
// Verification outcomes are values, not errors; Result.Err converts them
// when an error is more convenient.
package hmactoken
