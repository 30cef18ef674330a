package encryption

import (
	"fmt"
	"strings"

	apperrors "github.com/shhhinnovations/cryptokit/errors"
)

// Cryptographer encrypts and decrypts salted strings. Implementations are
// immutable after construction and safe for concurrent use.
type Cryptographer interface {
	Encrypt(salt, plaintext string) (string, error)
	Decrypt(salt, ciphertext string) (string, error)
}

// Algorithm represents supported cryptographer implementations.
type Algorithm string

const (
	// AlgorithmPassthrough performs no encryption (default).
	AlgorithmPassthrough Algorithm = "passthrough"

	// AlgorithmRijndael is AES-256-CBC with a password-derived, salt-bound key.
	AlgorithmRijndael Algorithm = "rijndael"

	// AlgorithmAESGCM is AES-256-GCM with the salt bound as additional data.
	AlgorithmAESGCM Algorithm = "aes-256-gcm"

	// AlgorithmChaCha20 is ChaCha20-Poly1305 with the salt bound as additional data.
	AlgorithmChaCha20 Algorithm = "chacha20-poly1305"
)

// Config selects and configures a Cryptographer.
// Loadable from YAML/env via mapstructure tags.
type Config struct {
	// Algorithm selects the implementation (default: "passthrough").
	Algorithm Algorithm `yaml:"algorithm" mapstructure:"algorithm"`

	// PassPhrase is the secret used to derive keys. Required by every
	// algorithm except passthrough.
	PassPhrase string `yaml:"pass_phrase" mapstructure:"pass_phrase"`

	// InitVector is the 16 character initialization vector used by rijndael.
	InitVector string `yaml:"init_vector" mapstructure:"init_vector"`

	// Derivation configures rijndael key derivation.
	Derivation DerivationConfig `yaml:"derivation" mapstructure:"derivation"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmPassthrough
	}
	c.Algorithm = Algorithm(strings.ToLower(string(c.Algorithm)))
	c.Derivation.ApplyDefaults()
}

// New creates the Cryptographer described by cfg. Construction errors are
// *errors.AppError values with code INVALID_ARGUMENT.
func New(cfg Config) (Cryptographer, error) {
	cfg.ApplyDefaults()

	switch cfg.Algorithm {
	case AlgorithmPassthrough:
		return Passthrough{}, nil
	case AlgorithmRijndael:
		return NewRijndael(cfg.PassPhrase, cfg.InitVector, WithDerivation(cfg.Derivation))
	case AlgorithmAESGCM:
		return NewAESGCM(cfg.PassPhrase)
	case AlgorithmChaCha20:
		return NewChaCha20(cfg.PassPhrase)
	default:
		return nil, apperrors.InvalidArgument("algorithm",
			fmt.Sprintf("unsupported algorithm %q", cfg.Algorithm))
	}
}

// Name returns the algorithm name of c for logs and metrics. Unknown
// implementations are reported by their Go type.
func Name(c Cryptographer) string {
	switch v := c.(type) {
	case Passthrough, *Passthrough:
		return string(AlgorithmPassthrough)
	case *Rijndael:
		return string(AlgorithmRijndael)
	case *AESGCM:
		return string(AlgorithmAESGCM)
	case *ChaCha20:
		return string(AlgorithmChaCha20)
	case *instrumented:
		return v.name
	case *Registry:
		return Name(v.Current())
	default:
		return fmt.Sprintf("%T", c)
	}
}
