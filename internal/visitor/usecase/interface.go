// Package usecase implements the visitor workflows: registration, lookup, check-out,
// pass verification and bulk migration of legacy envelopes.
package usecase

import (
	"context"
	"time"

	visitorDomain "github.com/lumenpass/lumenpass/internal/visitor/domain"
)

// VisitorRepository defines the interface for Visitor persistence operations.
type VisitorRepository interface {
	Create(ctx context.Context, visitor *visitorDomain.Visitor) error
	Get(ctx context.Context, id int64) (*visitorDomain.Visitor, error)
	List(ctx context.Context, offset, limit int) ([]*visitorDomain.Visitor, error)
	UpdateStatus(ctx context.Context, id int64, status visitorDomain.Status) error
	SetVerifiedBy(ctx context.Context, id int64, verifiedBy string) error
	UpdateEnvelopes(ctx context.Context, id int64, encryptedPhone, encryptedPurpose string) error
}

// VisitorUseCase defines the visitor business operations.
type VisitorUseCase interface {
	// Register validates the input, stores the visitor with sealed fields and renders its pass.
	Register(ctx context.Context, input visitorDomain.RegisterVisitorInput) (*visitorDomain.RegisteredVisitor, error)

	// Get loads and decrypts one visitor. A missing row is ErrVisitorNotFound and an
	// unreadable envelope is ErrDecryptionFailed.
	Get(ctx context.Context, id int64) (*visitorDomain.DecryptedVisitor, error)

	// List returns visitors newest first. Rows that fail to decrypt are flagged, not dropped.
	List(ctx context.Context, offset, limit int) ([]*visitorDomain.DecryptedVisitor, error)

	// CheckOut marks a visitor as checked out.
	CheckOut(ctx context.Context, id int64) (*visitorDomain.Visitor, error)

	// VerifyToken redeems a pass token, loads its visitor and records the verifier when given.
	VerifyToken(ctx context.Context, token, verifiedBy string) (*visitorDomain.DecryptedVisitor, error)

	// ScanAndVerify reads a pass from the camera and verifies it.
	ScanAndVerify(
		ctx context.Context,
		timeout time.Duration,
		verifiedBy string,
	) (*visitorDomain.DecryptedVisitor, error)

	// CredentialPNG renders the pass of a stored visitor.
	CredentialPNG(ctx context.Context, id int64) ([]byte, error)

	// MigrateLegacyEnvelopes reseals every legacy envelope, one transaction per row.
	MigrateLegacyEnvelopes(ctx context.Context) (*visitorDomain.MigrationStats, error)
}
