// Package service provides the key store and field ciphers used to seal visitor PII.
// Implements AES-256-GCM for new envelopes and AES-256-CBC for reading legacy ones.
package service

import (
	"context"

	cryptoDomain "github.com/lumenpass/lumenpass/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// Keeper wraps and unwraps the persisted key. *secrets.Keeper satisfies it.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KeyStore owns the single active key.
type KeyStore interface {
	// LoadOrCreate returns the persisted key, creating it on first use.
	// The result is cached for the lifetime of the store.
	LoadOrCreate(ctx context.Context) (*cryptoDomain.Key, error)

	// Path returns the key file location.
	Path() string
}

// Codec seals and opens individual text fields.
type Codec interface {
	// Seal encrypts plaintext into a current-format envelope string.
	Seal(plaintext string) (string, error)

	// Open decrypts an envelope string of either format.
	Open(envelope string) (string, error)

	// DetectFormat reports which format an envelope was sealed with.
	DetectFormat(envelope string) (cryptoDomain.Format, error)

	// IsLegacy reports whether an envelope uses the legacy format.
	IsLegacy(envelope string) (bool, error)

	// MigrateLegacy reseals a legacy envelope in the current format.
	// Returns ("", false, nil) when the envelope is already current.
	MigrateLegacy(envelope string) (string, bool, error)
}
