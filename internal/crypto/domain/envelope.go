package domain

import (
	"encoding/base64"
	"fmt"
)

// MinCurrentSize is the smallest possible current-format blob: a nonce, one byte of
// ciphertext and the tag.
const MinCurrentSize = NonceSize + 1 + TagSize

// MinLegacySize is the smallest possible legacy-format blob: an IV and one padded block.
const MinLegacySize = LegacyIVSize + BlockSize

// Envelope is the decomposed form of one sealed field.
//
// For FormatCurrent the Tag is split from the ciphertext; for FormatLegacy Tag is nil and
// Nonce holds the CBC IV.
type Envelope struct {
	Format     Format
	Nonce      []byte
	Ciphertext []byte
	Tag        []byte
}

// Bytes returns nonce || ciphertext [|| tag].
func (e Envelope) Bytes() []byte {
	out := make([]byte, 0, len(e.Nonce)+len(e.Ciphertext)+len(e.Tag))
	out = append(out, e.Nonce...)
	out = append(out, e.Ciphertext...)
	out = append(out, e.Tag...)
	return out
}

// String returns the base64 text encoding stored in the database and embedded in tokens.
func (e Envelope) String() string {
	return base64.StdEncoding.EncodeToString(e.Bytes())
}

// DecodeEnvelope decodes envelope text into raw bytes. It returns ErrMalformedEnvelope
// for empty text, invalid base64, or a blob shorter than the smallest envelope of any format.
func DecodeEnvelope(text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty envelope", ErrMalformedEnvelope)
	}
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64", ErrMalformedEnvelope)
	}
	if len(raw) < MinCurrentSize {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrMalformedEnvelope, len(raw))
	}
	return raw, nil
}

// SplitCurrentEnvelope splits a raw current-format blob into nonce, ciphertext and tag.
func SplitCurrentEnvelope(raw []byte) (Envelope, error) {
	if len(raw) < MinCurrentSize {
		return Envelope{}, fmt.Errorf("%w: %d bytes is too short", ErrMalformedEnvelope, len(raw))
	}
	tagStart := len(raw) - TagSize
	return Envelope{
		Format:     FormatCurrent,
		Nonce:      raw[:NonceSize],
		Ciphertext: raw[NonceSize:tagStart],
		Tag:        raw[tagStart:],
	}, nil
}

// SplitLegacyEnvelope splits a raw legacy-format blob into IV and ciphertext.
func SplitLegacyEnvelope(raw []byte) (Envelope, error) {
	if !IsLegacyShaped(raw) {
		return Envelope{}, fmt.Errorf("%w: not a legacy envelope", ErrMalformedEnvelope)
	}
	return Envelope{
		Format:     FormatLegacy,
		Nonce:      raw[:LegacyIVSize],
		Ciphertext: raw[LegacyIVSize:],
	}, nil
}

// IsLegacyShaped reports whether raw could be a legacy envelope: an IV followed by at
// least one whole AES block. Current envelopes may also have this shape, so a true result
// is a precondition for the legacy path, not proof of it.
func IsLegacyShaped(raw []byte) bool {
	return len(raw) >= MinLegacySize && len(raw)%BlockSize == 0
}
