package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// fingerprintInfo domain-separates the fingerprint derivation from any other use of the key.
var fingerprintInfo = []byte("lumenpass/key-fingerprint/v1")

// Key is the single active symmetric key.
//
// A Key is immutable once constructed and safe to share between goroutines.
// Only the KeyStore creates keys; everything else receives one by injection.
type Key struct {
	material []byte
}

// NewKey copies b into a new Key. Returns ErrInvalidKeySize unless len(b) == KeySize.
func NewKey(b []byte) (*Key, error) {
	if len(b) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKeySize, KeySize, len(b))
	}
	material := make([]byte, KeySize)
	copy(material, b)
	return &Key{material: material}, nil
}

// Bytes returns the key material. Callers must not modify it.
func (k *Key) Bytes() []byte {
	return k.material
}

// Fingerprint returns a short non-secret identifier for the key, derived with
// HKDF-SHA256. It lets operators tell deployments apart without exposing the key.
func (k *Key) Fingerprint() string {
	out := make([]byte, 8)
	r := hkdf.New(sha256.New, k.material, nil, fingerprintInfo)
	if _, err := io.ReadFull(r, out); err != nil {
		return ""
	}
	return hex.EncodeToString(out)
}

// Zero clears the key material. The Key must not be used afterwards.
func (k *Key) Zero() {
	Zero(k.material)
}

// Zero overwrites a byte slice with zeros to clear sensitive data from memory.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
