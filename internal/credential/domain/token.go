// Package domain defines the credential token carried inside a visitor's QR pass.
package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Token field names. Single letters keep the QR payload, and therefore the printed
// code density, as small as possible.
const (
	fieldID      = "i"
	fieldPhone   = "p"
	fieldPurpose = "r"

	// fieldLegacyID is the id key written by passes issued before the short form.
	fieldLegacyID = "id"
)

// MaxTokenBytes is the payload size tokens are expected to stay under so the rendered
// code remains easy to scan from a phone screen.
const MaxTokenBytes = 300

// Token is the decoded content of a credential QR code.
type Token struct {
	ID              int64
	PhoneEnvelope   string
	PurposeEnvelope string
}

type packedToken struct {
	ID      int64  `json:"i"`
	Phone   string `json:"p"`
	Purpose string `json:"r"`
}

// Pack serializes a token as compact JSON: {"i":7,"p":"<envelope>","r":"<envelope>"}.
func Pack(id int64, phoneEnvelope, purposeEnvelope string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a struct of an int64 and two strings cannot fail.
	_ = enc.Encode(packedToken{ID: id, Phone: phoneEnvelope, Purpose: purposeEnvelope})
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// String returns the packed form of t.
func (t Token) String() string {
	return Pack(t.ID, t.PhoneEnvelope, t.PurposeEnvelope)
}

// Unpack parses a packed token.
//
// The token is rejected as a whole with ErrMalformedToken when it is not a JSON object,
// carries keys other than the token fields, lacks an integer id, or lacks either
// envelope. Ids must be JSON integers; quoted numbers, fractions and exponents are
// rejected. The "id" key of older passes is accepted in place of "i", but not
// alongside it. A key that appears twice rejects the token.
func Unpack(token string) (Token, error) {
	fields, err := objectFields(token)
	if err != nil {
		return Token{}, err
	}

	for name := range fields {
		switch name {
		case fieldID, fieldLegacyID, fieldPhone, fieldPurpose:
		default:
			return Token{}, fmt.Errorf("%w: unexpected field %q", ErrMalformedToken, name)
		}
	}

	rawID, hasID := fields[fieldID]
	legacyID, hasLegacyID := fields[fieldLegacyID]
	switch {
	case hasID && hasLegacyID:
		return Token{}, fmt.Errorf("%w: both %q and %q present", ErrMalformedToken, fieldID, fieldLegacyID)
	case hasLegacyID:
		rawID = legacyID
	case !hasID:
		return Token{}, fmt.Errorf("%w: missing id", ErrMalformedToken)
	}

	id, err := strconv.ParseInt(string(rawID), 10, 64)
	if err != nil {
		return Token{}, fmt.Errorf("%w: id is not an integer", ErrMalformedToken)
	}

	phone, err := envelopeField(fields, fieldPhone)
	if err != nil {
		return Token{}, err
	}
	purpose, err := envelopeField(fields, fieldPurpose)
	if err != nil {
		return Token{}, err
	}

	return Token{ID: id, PhoneEnvelope: phone, PurposeEnvelope: purpose}, nil
}

func envelopeField(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrMalformedToken, name)
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("%w: %q is not a string", ErrMalformedToken, name)
	}
	if value == "" {
		return "", fmt.Errorf("%w: %q is empty", ErrMalformedToken, name)
	}
	return value, nil
}

// objectFields reads a single JSON object into its raw members, rejecting repeated keys
// and anything after the closing brace.
func objectFields(token string) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(strings.NewReader(token))

	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("%w: not a JSON object", ErrMalformedToken)
	}

	fields := make(map[string]json.RawMessage, 3)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: not a JSON object", ErrMalformedToken)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: not a JSON object", ErrMalformedToken)
		}
		if _, seen := fields[name]; seen {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrMalformedToken, name)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: not a JSON object", ErrMalformedToken)
		}
		fields[name] = raw
	}

	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return nil, fmt.Errorf("%w: not a JSON object", ErrMalformedToken)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedToken)
	}
	return fields, nil
}
