package domain

import (
	"github.com/lumenpass/lumenpass/internal/errors"
)

// Cryptographic error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors so the HTTP
// and CLI layers can map them without knowing about cryptography.
var (
	// ErrCorruptKey indicates the persisted key exists but does not have KeySize bytes.
	//
	// This is fatal at startup. The key file is never regenerated automatically because
	// every credential issued under the old key would become undecryptable.
	ErrCorruptKey = errors.Wrap(errors.ErrInvalidInput, "corrupt key file")

	// ErrInvalidKeySize indicates key material of the wrong length was supplied.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrEmptyInput indicates an attempt to seal an empty field.
	//
	// Empty PII fields are a caller bug, not a valid credential field.
	ErrEmptyInput = errors.Wrap(errors.ErrInvalidInput, "cannot seal empty input")

	// ErrDecryptionFailed indicates an envelope could not be opened.
	//
	// Covers authentication tag mismatch (current format), invalid padding (legacy
	// format) and wrong keys. Never retried: retrying a cryptographic failure
	// cannot succeed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrMalformedEnvelope indicates the envelope text was rejected before any cipher
	// operation: empty, not base64, or too short for either format.
	ErrMalformedEnvelope = errors.Wrap(ErrDecryptionFailed, "malformed envelope")

	// ErrKeyWrapFailed indicates the key-wrapping keeper could not wrap or unwrap the
	// persisted key.
	ErrKeyWrapFailed = errors.New("key wrap failed")
)
