package encryption

import (
	"crypto/md5"  // #nosec G501 -- selectable for compatibility with legacy ciphertext
	"crypto/sha1" // #nosec G505 -- default of the legacy derivation scheme
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	apperrors "github.com/shhhinnovations/cryptokit/errors"
)

// KDF names a password-based key derivation function.
type KDF string

const (
	// KDFPasswordDeriveBytes is PBKDF1 extended with counter-prefixed blocks
	// so it can yield more bytes than one digest. It is the scheme used by
	// the .NET PasswordDeriveBytes class, so existing ciphertext stays readable.
	KDFPasswordDeriveBytes KDF = "password-derive-bytes"

	// KDFPBKDF2 is PBKDF2 (RFC 8018) with HMAC over the configured hash.
	KDFPBKDF2 KDF = "pbkdf2"
)

// Hash names supported by DerivationConfig.
const (
	HashSHA1   = "SHA1"
	HashSHA256 = "SHA256"
	HashSHA512 = "SHA512"
	HashMD5    = "MD5"
)

// DerivationConfig describes how a rijndael key is derived from the
// passphrase and the per-call salt.
type DerivationConfig struct {
	// Function is the KDF (default: "password-derive-bytes").
	Function KDF `yaml:"function" mapstructure:"function"`

	// Hash is the digest the KDF is built on (default: "SHA1").
	Hash string `yaml:"hash" mapstructure:"hash"`

	// Iterations is the KDF iteration count (default: 2).
	Iterations int `yaml:"iterations" mapstructure:"iterations"`

	// KeySize is the AES key size in bits: 128, 192 or 256 (default: 256).
	KeySize int `yaml:"key_size" mapstructure:"key_size"`
}

// DefaultDerivation returns the derivation that produces ciphertext
// compatible with the legacy rijndael format.
func DefaultDerivation() DerivationConfig {
	return DerivationConfig{
		Function:   KDFPasswordDeriveBytes,
		Hash:       HashSHA1,
		Iterations: 2,
		KeySize:    256,
	}
}

// ApplyDefaults fills zero-valued fields from DefaultDerivation.
func (c *DerivationConfig) ApplyDefaults() {
	d := DefaultDerivation()
	if c.Function == "" {
		c.Function = d.Function
	}
	if c.Hash == "" {
		c.Hash = d.Hash
	}
	if c.Iterations == 0 {
		c.Iterations = d.Iterations
	}
	if c.KeySize == 0 {
		c.KeySize = d.KeySize
	}
	c.Hash = strings.ToUpper(strings.ReplaceAll(c.Hash, "-", ""))
}

// Validate checks the configuration and reports the offending field as an
// INVALID_ARGUMENT error.
func (c DerivationConfig) Validate() error {
	switch c.Function {
	case KDFPasswordDeriveBytes, KDFPBKDF2:
	default:
		return apperrors.InvalidArgument("derivation.function",
			fmt.Sprintf("unsupported key derivation function %q", c.Function))
	}
	if _, err := c.newHash(); err != nil {
		return err
	}
	if c.Iterations < 1 {
		return apperrors.InvalidArgument("derivation.iterations",
			fmt.Sprintf("must be positive (got: %d)", c.Iterations))
	}
	switch c.KeySize {
	case 128, 192, 256:
	default:
		return apperrors.InvalidArgument("derivation.key_size",
			fmt.Sprintf("must be 128, 192 or 256 bits (got: %d)", c.KeySize))
	}
	return nil
}

func (c DerivationConfig) newHash() (func() hash.Hash, error) {
	switch c.Hash {
	case HashSHA1:
		return sha1.New, nil
	case HashSHA256:
		return sha256.New, nil
	case HashSHA512:
		return sha512.New, nil
	case HashMD5:
		return md5.New, nil
	default:
		return nil, apperrors.InvalidArgument("derivation.hash",
			fmt.Sprintf("unsupported hash %q", c.Hash))
	}
}

// deriveKey returns KeySize/8 bytes derived from password and salt. The
// config must have passed Validate.
func (c DerivationConfig) deriveKey(password, salt []byte) []byte {
	newHash, _ := c.newHash()
	size := c.KeySize / 8
	if c.Function == KDFPBKDF2 {
		return pbkdf2.Key(password, salt, c.Iterations, size, newHash)
	}
	return passwordDeriveBytes(newHash, password, salt, c.Iterations, size)
}

// passwordDeriveBytes reproduces the .NET PasswordDeriveBytes output for a
// single GetBytes call. The base value is hash(password||salt) rehashed
// iterations-2 more times. Output block n is hash(decimal(n)||base), with
// block 0 carrying no prefix.
func passwordDeriveBytes(newHash func() hash.Hash, password, salt []byte, iterations, size int) []byte {
	h := newHash()
	h.Write(password)
	h.Write(salt)
	base := h.Sum(nil)
	for i := 1; i < iterations-1; i++ {
		h.Reset()
		h.Write(base)
		base = h.Sum(base[:0])
	}

	out := make([]byte, 0, size+h.Size())
	for block := 0; len(out) < size; block++ {
		h.Reset()
		if block > 0 {
			h.Write([]byte(strconv.Itoa(block)))
		}
		h.Write(base)
		out = h.Sum(out)
	}
	return out[:size]
}
