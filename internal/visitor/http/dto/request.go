// Package dto provides data transfer objects for visitor HTTP requests and responses.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/lumenpass/lumenpass/internal/validation"
	visitorDomain "github.com/lumenpass/lumenpass/internal/visitor/domain"
)

// MaxScanTimeoutSeconds caps the scan window a client may request.
const MaxScanTimeoutSeconds = 120

// RegisterVisitorRequest contains the parameters for registering a visitor.
type RegisterVisitorRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Purpose string `json:"purpose"`
}

// Validate checks if the register visitor request is valid.
// Phone format is checked by the use case after trimming.
func (r *RegisterVisitorRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.RuneLength(1, visitorDomain.MaxNameLength),
		),
		validation.Field(&r.Phone,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Purpose,
			validation.Required,
			customValidation.NotBlank,
			validation.RuneLength(1, visitorDomain.MaxPurposeLength),
		),
	)
}

// ToInput converts the request to the use case input.
func (r *RegisterVisitorRequest) ToInput() visitorDomain.RegisterVisitorInput {
	return visitorDomain.RegisterVisitorInput{
		Name:    r.Name,
		Phone:   r.Phone,
		Purpose: r.Purpose,
	}
}

// VerifyCredentialRequest contains a pass token typed or pasted by an operator.
type VerifyCredentialRequest struct {
	Token      string `json:"token"`
	VerifiedBy string `json:"verified_by"`
}

// Validate checks if the verify credential request is valid.
func (r *VerifyCredentialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.VerifiedBy, validation.RuneLength(0, 255)),
	)
}

// ScanRequest starts a camera scan. Both fields are optional.
type ScanRequest struct {
	VerifiedBy     string `json:"verified_by"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// Validate checks if the scan request is valid.
func (r *ScanRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.VerifiedBy, validation.RuneLength(0, 255)),
		validation.Field(&r.TimeoutSeconds, validation.Min(0), validation.Max(MaxScanTimeoutSeconds)),
	)
}
