// Package domain defines the key and envelope models used to seal visitor fields.
package domain

const (
	// KeySize is the size in bytes of the single symmetric key (AES-256).
	KeySize = 32

	// NonceSize is the size in bytes of the AES-GCM nonce used by the current format.
	NonceSize = 12

	// TagSize is the size in bytes of the AES-GCM authentication tag.
	TagSize = 16

	// LegacyIVSize is the size in bytes of the AES-CBC IV used by the legacy format.
	LegacyIVSize = 16

	// BlockSize is the AES block size.
	BlockSize = 16
)

// Format identifies the layout of a sealed field.
//
// Envelopes carry no version byte. The format is recovered by structural inspection
// of the decoded blob and, when the shape is ambiguous, by whether the blob
// authenticates under AES-GCM.
type Format string

const (
	// FormatCurrent is AES-256-GCM: nonce(12) || ciphertext || tag(16).
	FormatCurrent Format = "aes-gcm"

	// FormatLegacy is AES-256-CBC with PKCS#7 padding: iv(16) || ciphertext.
	// Only ever produced by older deployments; kept readable for issued passes.
	FormatLegacy Format = "aes-cbc"
)

// String returns the format name.
func (f Format) String() string {
	return string(f)
}
