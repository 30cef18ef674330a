package encryption

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"

	apperrors "github.com/shhhinnovations/cryptokit/errors"
	"github.com/shhhinnovations/cryptokit/util"
)

// InitVectorSize is the required length of the rijndael initialization vector.
const InitVectorSize = aes.BlockSize

var (
	errBlockSize = errors.New("ciphertext is not a positive multiple of the block size")
	errPadding   = errors.New("invalid PKCS#7 padding")
)

// Rijndael encrypts with AES in CBC mode. The key is derived per call from
// the passphrase with the caller's salt as KDF salt, so the same passphrase
// yields a different key for every salt. The IV is fixed at construction.
//
// Output is std base64 of the PKCS#7 padded ciphertext and is byte compatible
// with the legacy RijndaelManaged/PasswordDeriveBytes format when the default
// derivation is used.
type Rijndael struct {
	passPhrase []byte
	iv         []byte
	derivation DerivationConfig
}

var _ Cryptographer = (*Rijndael)(nil)

// RijndaelOption configures a Rijndael cryptographer.
type RijndaelOption func(*Rijndael)

// WithDerivation overrides the key derivation (default: DefaultDerivation).
// Zero-valued fields keep their defaults.
func WithDerivation(cfg DerivationConfig) RijndaelOption {
	return func(r *Rijndael) {
		cfg.ApplyDefaults()
		r.derivation = cfg
	}
}

// NewRijndael creates a Rijndael cryptographer. The passphrase must not be
// blank and the initialization vector must be exactly 16 characters.
func NewRijndael(passPhrase, initVector string, opts ...RijndaelOption) (*Rijndael, error) {
	if util.IsBlank(passPhrase) {
		return nil, apperrors.InvalidArgument("passPhrase", "must not be empty or whitespace")
	}
	if util.IsBlank(initVector) || utf8.RuneCountInString(initVector) != InitVectorSize {
		return nil, apperrors.InvalidArgument("initVector",
			fmt.Sprintf("must be exactly %d characters", InitVectorSize))
	}

	r := &Rijndael{
		passPhrase: []byte(passPhrase),
		iv:         util.ASCIIBytes(initVector),
		derivation: DefaultDerivation(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.derivation.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Encrypt encrypts plaintext and returns a base64-encoded result.
func (r *Rijndael) Encrypt(salt, plaintext string) (string, error) {
	block, err := r.block(salt)
	if err != nil {
		return "", apperrors.EncryptionFailure(string(AlgorithmRijndael), err)
	}

	data := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	cipher.NewCBCEncrypter(block, r.iv).CryptBlocks(data, data)
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decrypt decrypts a base64-encoded ciphertext. A wrong salt or passphrase
// is usually caught by the padding check but can also yield garbage, so a
// nil error only proves the ciphertext is well formed.
func (r *Rijndael) Decrypt(salt, ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", apperrors.DecryptionFailure(string(AlgorithmRijndael), fmt.Errorf("decode base64: %w", err))
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", apperrors.DecryptionFailure(string(AlgorithmRijndael), errBlockSize)
	}

	block, err := r.block(salt)
	if err != nil {
		return "", apperrors.DecryptionFailure(string(AlgorithmRijndael), err)
	}

	cipher.NewCBCDecrypter(block, r.iv).CryptBlocks(data, data)
	plain, err := pkcs7Unpad(data, aes.BlockSize)
	if err != nil {
		return "", apperrors.DecryptionFailure(string(AlgorithmRijndael), err)
	}
	return string(plain), nil
}

func (r *Rijndael) block(salt string) (cipher.Block, error) {
	key := r.derivation.deriveKey(r.passPhrase, util.ASCIIBytes(salt))
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	return block, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errBlockSize
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, errPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errPadding
		}
	}
	return data[:len(data)-n], nil
}
