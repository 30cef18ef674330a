package util

import (
	"strings"
	"unicode"
)

// Coalesce returns the first non-zero value, or the zero value if all are zero.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// IsBlank reports whether s is empty or contains only white space.
func IsBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}

// SanitizeEnvValue cleans an environment variable value by removing surrounding
// quotes and trimming whitespace.
func SanitizeEnvValue(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}

// ASCIIBytes encodes s as 7-bit ASCII, one byte per rune. Runes outside the
// ASCII range become '?'.
func ASCIIBytes(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > unicode.MaxASCII {
			out = append(out, '?')
			continue
		}
		out = append(out, byte(r))
	}
	return out
}
