package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	apperrors "github.com/shhhinnovations/cryptokit/errors"
	"github.com/shhhinnovations/cryptokit/util"
)

var errCiphertextTooShort = errors.New("ciphertext too short")

// sealer is the AEAD-backed core shared by AESGCM and ChaCha20. Every call
// draws a fresh random nonce and binds the salt as additional data, so a
// ciphertext only opens under the salt it was sealed with.
type sealer struct {
	aead      cipher.AEAD
	algorithm Algorithm
}

func (s *sealer) encrypt(salt, plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", apperrors.EncryptionFailure(string(s.algorithm), fmt.Errorf("generate nonce: %w", err))
	}
	ciphertext := s.aead.Seal(nonce, nonce, []byte(plaintext), []byte(salt))
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (s *sealer) decrypt(salt, ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", apperrors.DecryptionFailure(string(s.algorithm), fmt.Errorf("decode base64: %w", err))
	}

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize+s.aead.Overhead() {
		return "", apperrors.DecryptionFailure(string(s.algorithm), errCiphertextTooShort)
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, sealed, []byte(salt))
	if err != nil {
		return "", apperrors.DecryptionFailure(string(s.algorithm), err)
	}
	return string(plaintext), nil
}

// aeadKey hashes the passphrase with SHA-256 to produce a consistent 32-byte key.
func aeadKey(passPhrase string) ([]byte, error) {
	if util.IsBlank(passPhrase) {
		return nil, apperrors.InvalidArgument("passPhrase", "must not be empty or whitespace")
	}
	sum := sha256.Sum256([]byte(passPhrase))
	return sum[:], nil
}

// AESGCM encrypts with AES-256-GCM.
type AESGCM struct {
	sealer
}

var _ Cryptographer = (*AESGCM)(nil)

// NewAESGCM creates an AES-256-GCM cryptographer keyed by the SHA-256 of passPhrase.
func NewAESGCM(passPhrase string) (*AESGCM, error) {
	key, err := aeadKey(passPhrase)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return &AESGCM{sealer{aead: gcm, algorithm: AlgorithmAESGCM}}, nil
}

// Encrypt encrypts plaintext and returns base64(nonce || ciphertext || tag).
func (c *AESGCM) Encrypt(salt, plaintext string) (string, error) {
	return c.encrypt(salt, plaintext)
}

// Decrypt opens a ciphertext produced by Encrypt with the same salt.
func (c *AESGCM) Decrypt(salt, ciphertext string) (string, error) {
	return c.decrypt(salt, ciphertext)
}

// ChaCha20 encrypts with ChaCha20-Poly1305. It performs well on CPUs
// without AES hardware acceleration (e.g., ARM devices, older processors).
type ChaCha20 struct {
	sealer
}

var _ Cryptographer = (*ChaCha20)(nil)

// NewChaCha20 creates a ChaCha20-Poly1305 cryptographer keyed by the SHA-256 of passPhrase.
func NewChaCha20(passPhrase string) (*ChaCha20, error) {
	key, err := aeadKey(passPhrase)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("create chacha20: %w", err)
	}

	return &ChaCha20{sealer{aead: aead, algorithm: AlgorithmChaCha20}}, nil
}

// Encrypt encrypts plaintext and returns base64(nonce || ciphertext || tag).
func (c *ChaCha20) Encrypt(salt, plaintext string) (string, error) {
	return c.encrypt(salt, plaintext)
}

// Decrypt opens a ciphertext produced by Encrypt with the same salt.
func (c *ChaCha20) Decrypt(salt, ciphertext string) (string, error) {
	return c.decrypt(salt, ciphertext)
}
