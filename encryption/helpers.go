package encryption

import "github.com/shhhinnovations/cryptokit/util"

// Encrypt encrypts text with the default registry and an empty salt.
func Encrypt(text string) (string, error) {
	return EncryptWithSalt(text, "")
}

// EncryptWithSalt encrypts text with the default registry.
func EncryptWithSalt(text, salt string) (string, error) {
	return Current().Encrypt(salt, text)
}

// Decrypt decrypts text with the default registry and an empty salt.
func Decrypt(text string) (string, error) {
	return DecryptWithSalt(text, "")
}

// DecryptWithSalt decrypts text with the default registry.
func DecryptWithSalt(text, salt string) (string, error) {
	return Current().Decrypt(salt, text)
}

// EncryptOptional encrypts *plaintext with c. An absent plaintext yields an
// absent result and no error.
func EncryptOptional(c Cryptographer, salt string, plaintext *string) (*string, error) {
	return util.MapPtr(plaintext, func(s string) (string, error) {
		return c.Encrypt(salt, s)
	})
}

// DecryptOptional decrypts *ciphertext with c. An absent ciphertext yields
// an absent result and no error.
func DecryptOptional(c Cryptographer, salt string, ciphertext *string) (*string, error) {
	return util.MapPtr(ciphertext, func(s string) (string, error) {
		return c.Decrypt(salt, s)
	})
}
