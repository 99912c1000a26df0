package service

import (
	"fmt"
	"unicode/utf8"

	cryptoDomain "github.com/lumenpass/lumenpass/internal/crypto/domain"
)

// FieldCodec seals and opens single text fields under the active key.
//
// New data is always sealed with AES-256-GCM. Envelopes carry no version marker, so Open
// tries the current format first and only falls back to legacy AES-256-CBC when the
// blob is legacy-shaped and fails GCM authentication. This detection is a heuristic kept
// for reading credentials issued by older deployments.
//
// FieldCodec is stateless after construction and safe for concurrent use.
type FieldCodec struct {
	current        *AESGCMCipher
	legacy         *LegacyCBCCipher
	legacyFallback bool
}

// FieldCodecOption configures a FieldCodec.
type FieldCodecOption func(*FieldCodec)

// WithLegacyFallback enables or disables decrypting legacy envelopes in Open.
// Detection and migration always understand the legacy format.
func WithLegacyFallback(enabled bool) FieldCodecOption {
	return func(c *FieldCodec) {
		c.legacyFallback = enabled
	}
}

// NewFieldCodec creates a codec bound to key. Legacy fallback is enabled by default.
func NewFieldCodec(key *cryptoDomain.Key, opts ...FieldCodecOption) (*FieldCodec, error) {
	current, err := NewAESGCM(key.Bytes())
	if err != nil {
		return nil, err
	}
	legacy, err := NewLegacyCBC(key.Bytes())
	if err != nil {
		return nil, err
	}

	c := &FieldCodec{current: current, legacy: legacy, legacyFallback: true}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Seal encrypts plaintext and returns base64(nonce || ciphertext || tag).
func (c *FieldCodec) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", cryptoDomain.ErrEmptyInput
	}

	ciphertext, nonce, err := c.current.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return "", err
	}

	env := cryptoDomain.Envelope{
		Format:     cryptoDomain.FormatCurrent,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}
	return env.String(), nil
}

// SealLegacy encrypts plaintext in the legacy format. Only fixtures and tooling that must
// reproduce old envelopes use it.
func (c *FieldCodec) SealLegacy(plaintext string) (string, error) {
	if plaintext == "" {
		return "", cryptoDomain.ErrEmptyInput
	}

	ciphertext, iv, err := c.legacy.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}

	env := cryptoDomain.Envelope{
		Format:     cryptoDomain.FormatLegacy,
		Nonce:      iv,
		Ciphertext: ciphertext,
	}
	return env.String(), nil
}

// Open decrypts an envelope of either format.
//
// Malformed text fails with ErrMalformedEnvelope before any cipher runs; every other
// failure is ErrDecryptionFailed. Wrong key and tampering are indistinguishable.
func (c *FieldCodec) Open(envelope string) (string, error) {
	raw, err := cryptoDomain.DecodeEnvelope(envelope)
	if err != nil {
		return "", err
	}

	if plaintext, err := c.openCurrent(raw); err == nil {
		return plaintext, nil
	}

	if c.legacyFallback && cryptoDomain.IsLegacyShaped(raw) {
		if plaintext, err := c.openLegacy(raw); err == nil {
			return plaintext, nil
		}
	}

	return "", cryptoDomain.ErrDecryptionFailed
}

// DetectFormat reports which format envelope was sealed with. A legacy-shaped blob that
// authenticates under GCM is current. Blobs that open under neither format fail with
// ErrDecryptionFailed.
func (c *FieldCodec) DetectFormat(envelope string) (cryptoDomain.Format, error) {
	raw, err := cryptoDomain.DecodeEnvelope(envelope)
	if err != nil {
		return "", err
	}

	if _, err := c.openCurrent(raw); err == nil {
		return cryptoDomain.FormatCurrent, nil
	}
	if cryptoDomain.IsLegacyShaped(raw) {
		if _, err := c.openLegacy(raw); err == nil {
			return cryptoDomain.FormatLegacy, nil
		}
	}
	return "", cryptoDomain.ErrDecryptionFailed
}

// IsLegacy reports whether envelope uses the legacy format.
func (c *FieldCodec) IsLegacy(envelope string) (bool, error) {
	format, err := c.DetectFormat(envelope)
	if err != nil {
		return false, err
	}
	return format == cryptoDomain.FormatLegacy, nil
}

// MigrateLegacy opens a legacy envelope and reseals it in the current format.
// Current envelopes are left alone and yield ("", false, nil).
func (c *FieldCodec) MigrateLegacy(envelope string) (string, bool, error) {
	raw, err := cryptoDomain.DecodeEnvelope(envelope)
	if err != nil {
		return "", false, err
	}

	if _, err := c.openCurrent(raw); err == nil {
		return "", false, nil
	}
	if !cryptoDomain.IsLegacyShaped(raw) {
		return "", false, cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := c.openLegacy(raw)
	if err != nil {
		return "", false, err
	}

	sealed, err := c.Seal(plaintext)
	if err != nil {
		return "", false, fmt.Errorf("failed to reseal legacy envelope: %w", err)
	}
	return sealed, true, nil
}

func (c *FieldCodec) openCurrent(raw []byte) (string, error) {
	env, err := cryptoDomain.SplitCurrentEnvelope(raw)
	if err != nil {
		return "", err
	}
	sealed := raw[cryptoDomain.NonceSize:]
	plaintext, err := c.current.Decrypt(sealed, env.Nonce, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func (c *FieldCodec) openLegacy(raw []byte) (string, error) {
	env, err := cryptoDomain.SplitLegacyEnvelope(raw)
	if err != nil {
		return "", err
	}
	plaintext, err := c.legacy.Decrypt(env.Ciphertext, env.Nonce)
	if err != nil {
		return "", err
	}
	if len(plaintext) == 0 || !utf8.Valid(plaintext) {
		return "", fmt.Errorf("%w: legacy plaintext is not valid text", cryptoDomain.ErrDecryptionFailed)
	}
	return string(plaintext), nil
}
