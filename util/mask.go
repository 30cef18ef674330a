package util

import "strings"

// MaskLeft replaces every rune of s with maskChar except the last showLast
// runes. Strings no longer than showLast are returned unchanged.
//
//	MaskLeft("123456789", '*', 4) // "*****6789"
func MaskLeft(s string, maskChar rune, showLast int) string {
	runes := []rune(s)
	showLast = max(showLast, 0)
	if len(runes) <= showLast {
		return s
	}
	hidden := len(runes) - showLast
	return strings.Repeat(string(maskChar), hidden) + string(runes[hidden:])
}

// MaskRight keeps the first showFirst runes of s and replaces the rest with
// maskChar. Strings no longer than showFirst are returned unchanged.
//
//	MaskRight("123456789", '^', 3) // "123^^^^^^"
func MaskRight(s string, maskChar rune, showFirst int) string {
	runes := []rune(s)
	showFirst = max(showFirst, 0)
	if len(runes) <= showFirst {
		return s
	}
	return string(runes[:showFirst]) + strings.Repeat(string(maskChar), len(runes)-showFirst)
}
