// Package encryption provides a pluggable string-level encryption facade.
//
// A Cryptographer encrypts and decrypts salted strings. Implementations:
//
//   - Passthrough: identity, the safe default (no confidentiality)
//   - Rijndael: AES-256-CBC with a key derived from the passphrase and salt,
//     byte compatible with the legacy RijndaelManaged format
//   - AESGCM, ChaCha20: authenticated encryption with the salt bound as
//     additional data
//
// A Registry holds the active strategy and can be swapped at runtime. The
// package-level Current and SetCryptographer use a process-wide Registry.
//
// # Usage
//
//	c, err := encryption.NewRijndael(passPhrase, initVector)
//	if err != nil { ... }
//	_ = encryption.SetCryptographer(c)
//
//	ciphertext, err := encryption.Current().Encrypt("my-salt", "This is my string")
//	plaintext, err := encryption.Current().Decrypt("my-salt", ciphertext)
package encryption
