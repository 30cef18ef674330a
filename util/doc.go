// Package util provides small helpers shared across cryptokit packages.
//
// It includes pointer helpers, ASCII encoding, masking of sensitive strings
// for display, and MD5 fingerprints.
package util
