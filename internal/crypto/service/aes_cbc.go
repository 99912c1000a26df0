package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	cryptoDomain "github.com/lumenpass/lumenpass/internal/crypto/domain"
)

// LegacyCBCCipher implements AES-256-CBC with PKCS#7 padding, the format used by
// credentials issued before authenticated encryption was introduced.
//
// It offers no integrity protection. The codec only ever decrypts with it; Encrypt
// exists to produce fixtures and for tooling that has to reproduce old envelopes.
type LegacyCBCCipher struct {
	block cipher.Block
}

// NewLegacyCBC creates a legacy cipher. The key must be exactly 32 bytes.
func NewLegacyCBC(key []byte) (*LegacyCBCCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	return &LegacyCBCCipher{block: block}, nil
}

// Encrypt pads plaintext and encrypts it under a fresh random 16-byte IV.
func (c *LegacyCBCCipher) Encrypt(plaintext []byte) (ciphertext, iv []byte, err error) {
	iv = make([]byte, cryptoDomain.LegacyIVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	padded := pkcs7Pad(plaintext, cryptoDomain.BlockSize)
	ciphertext = make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, iv, nil
}

// Decrypt decrypts ciphertext and strips its padding. Invalid padding returns
// ErrDecryptionFailed.
func (c *LegacyCBCCipher) Decrypt(ciphertext, iv []byte) ([]byte, error) {
	if len(iv) != cryptoDomain.LegacyIVSize {
		return nil, fmt.Errorf("%w: invalid iv size", cryptoDomain.ErrDecryptionFailed)
	}
	if len(ciphertext) == 0 || len(ciphertext)%cryptoDomain.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is not a whole number of blocks", cryptoDomain.ErrDecryptionFailed)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, ok := pkcs7Unpad(plaintext, cryptoDomain.BlockSize)
	if !ok {
		cryptoDomain.Zero(plaintext)
		return nil, fmt.Errorf("%w: invalid padding", cryptoDomain.ErrDecryptionFailed)
	}
	return unpadded, nil
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	out := make([]byte, len(b), len(b)+n)
	copy(out, b)
	for i := 0; i < n; i++ {
		out = append(out, byte(n))
	}
	return out
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, bool) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, false
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize {
		return nil, false
	}
	want := make([]byte, n)
	for i := range want {
		want[i] = byte(n)
	}
	if subtle.ConstantTimeCompare(b[len(b)-n:], want) != 1 {
		return nil, false
	}
	return b[:len(b)-n], true
}
