package encryption

// Passthrough performs no encryption: both operations return their input
// unchanged and ignore the salt. It is the registry default so that callers
// which never configure a cryptographer keep working, at the cost of zero
// confidentiality.
type Passthrough struct{}

var _ Cryptographer = Passthrough{}

// Encrypt returns plaintext unchanged.
func (Passthrough) Encrypt(_, plaintext string) (string, error) { return plaintext, nil }

// Decrypt returns ciphertext unchanged.
func (Passthrough) Decrypt(_, ciphertext string) (string, error) { return ciphertext, nil }
