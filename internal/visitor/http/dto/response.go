package dto

import (
	"encoding/base64"
	"fmt"
	"time"

	visitorDomain "github.com/lumenpass/lumenpass/internal/visitor/domain"
)

// VisitorResponse represents a visitor in API responses.
// Phone and purpose are omitted when the record was not decrypted.
type VisitorResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone,omitempty"`
	Purpose          string    `json:"purpose,omitempty"`
	Status           string    `json:"status"`
	VerifiedBy       *string   `json:"verified_by"`
	CreatedAt        time.Time `json:"created_at"`
	DecryptionFailed bool      `json:"decryption_failed,omitempty"`
}

// RegisterVisitorResponse is returned after a registration with the issued pass.
type RegisterVisitorResponse struct {
	VisitorResponse
	Token         string `json:"token"`
	CredentialPNG string `json:"credential_png"` // Base64-encoded PNG
	CredentialURL string `json:"credential_url"`
}

// ListVisitorsResponse represents a paginated list of visitors in API responses.
type ListVisitorsResponse struct {
	Data []VisitorResponse `json:"data"`
}

// CredentialURL returns the path serving a visitor's pass image.
func CredentialURL(id int64) string {
	return fmt.Sprintf("/v1/visitors/%d/credential.png", id)
}

// MapVisitorToResponse converts a stored visitor without its sealed fields.
func MapVisitorToResponse(visitor *visitorDomain.Visitor) VisitorResponse {
	return VisitorResponse{
		ID:         visitor.ID,
		Name:       visitor.Name,
		Status:     string(visitor.Status),
		VerifiedBy: visitor.VerifiedBy,
		CreatedAt:  visitor.CreatedAt,
	}
}

// MapDecryptedVisitorToResponse converts a decrypted visitor.
func MapDecryptedVisitorToResponse(visitor *visitorDomain.DecryptedVisitor) VisitorResponse {
	response := MapVisitorToResponse(&visitor.Visitor)
	response.Phone = visitor.Phone
	response.Purpose = visitor.Purpose
	response.DecryptionFailed = visitor.DecryptionFailed
	return response
}

// MapRegisteredVisitorToResponse converts a registration result.
func MapRegisteredVisitorToResponse(
	registered *visitorDomain.RegisteredVisitor,
	input visitorDomain.RegisterVisitorInput,
) RegisterVisitorResponse {
	response := MapVisitorToResponse(registered.Visitor)
	normalized := input.Normalize()
	response.Phone = normalized.Phone
	response.Purpose = normalized.Purpose

	return RegisterVisitorResponse{
		VisitorResponse: response,
		Token:           registered.Token,
		CredentialPNG:   base64.StdEncoding.EncodeToString(registered.PNG),
		CredentialURL:   CredentialURL(registered.Visitor.ID),
	}
}

// MapVisitorsToListResponse converts a slice of decrypted visitors to a list response.
func MapVisitorsToListResponse(visitors []*visitorDomain.DecryptedVisitor) ListVisitorsResponse {
	data := make([]VisitorResponse, 0, len(visitors))
	for _, visitor := range visitors {
		data = append(data, MapDecryptedVisitorToResponse(visitor))
	}

	return ListVisitorsResponse{
		Data: data,
	}
}
