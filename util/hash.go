package util

import (
	"crypto/md5" // #nosec G501 -- fingerprinting only, not a security boundary
	"encoding/hex"
)

// MD5Hex returns the lowercase hex MD5 digest of the ASCII encoding of s.
// It is meant for fingerprints such as avatar lookups, never for secrets.
func MD5Hex(s string) string {
	sum := md5.Sum(ASCIIBytes(s)) // #nosec G401
	return hex.EncodeToString(sum[:])
}
