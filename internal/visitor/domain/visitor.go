// Package domain defines the visitor record and its check-in lifecycle.
package domain

import (
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/lumenpass/lumenpass/internal/validation"
)

const (
	MaxNameLength    = 255
	MaxPurposeLength = 500
)

// Status is a visitor's presence on site.
type Status string

const (
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	return s == StatusCheckedIn || s == StatusCheckedOut
}

// Visitor is a stored visitor record. Phone and purpose are kept only as sealed envelopes.
type Visitor struct {
	ID               int64
	Name             string
	EncryptedPhone   string
	EncryptedPurpose string
	Status           Status
	VerifiedBy       *string
	CreatedAt        time.Time
}

// DecryptedVisitor is a visitor with its sealed fields opened.
//
// In listings a row whose envelopes cannot be opened is kept with DecryptionFailed set
// and empty Phone and Purpose, so corruption stays visible instead of hiding the row.
type DecryptedVisitor struct {
	Visitor
	Phone            string
	Purpose          string
	DecryptionFailed bool
}

// RegisterVisitorInput carries the plaintext fields of a new registration.
type RegisterVisitorInput struct {
	Name    string
	Phone   string
	Purpose string
}

// Normalize returns a copy of the input with surrounding whitespace removed.
func (in RegisterVisitorInput) Normalize() RegisterVisitorInput {
	return RegisterVisitorInput{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Purpose: strings.TrimSpace(in.Purpose),
	}
}

// Validate checks a normalized input.
func (in *RegisterVisitorInput) Validate() error {
	err := validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required, validation.RuneLength(1, MaxNameLength)),
		validation.Field(&in.Phone, validation.Required, customValidation.Phone),
		validation.Field(&in.Purpose, validation.Required, validation.RuneLength(1, MaxPurposeLength)),
	)
	return customValidation.WrapValidationError(err)
}

// RegisteredVisitor is the result of a registration: the stored record and its pass.
type RegisteredVisitor struct {
	Visitor *Visitor
	Token   string
	PNG     []byte
}

// MigrationStats summarizes a bulk legacy-envelope migration.
type MigrationStats struct {
	TotalRows      int
	RowsMigrated   int
	FieldsMigrated int
	RowsFailed     int
}
