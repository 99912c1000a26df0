// Package usecase is the credential pipeline used by the visitor workflows: sealing
// fields, issuing QR passes, and redeeming tokens read from images or the camera.
package usecase

import (
	"context"
	"image"
	"time"

	credentialDomain "github.com/lumenpass/lumenpass/internal/credential/domain"
)

// Renderer draws tokens as QR images.
type Renderer interface {
	Render(token string) (image.Image, error)
	RenderPNG(token string) ([]byte, error)
}

// FrameDecoder reads QR text from an image.
type FrameDecoder interface {
	LocateAndDecode(frame image.Image) (string, bool)
}

// CredentialUseCase defines the credential operations exposed to the rest of the system.
type CredentialUseCase interface {
	// Seal encrypts one visitor field.
	Seal(ctx context.Context, plaintext string) (string, error)

	// Open decrypts one visitor field.
	Open(ctx context.Context, envelope string) (string, error)

	// Issue seals phone and purpose, packs them with id and renders the pass.
	Issue(ctx context.Context, id int64, phone, purpose string) (*credentialDomain.Credential, error)

	// RenderPNG renders an already packed token as a PNG image.
	RenderPNG(ctx context.Context, token string) ([]byte, error)

	// Redeem unpacks token and decrypts both fields.
	Redeem(ctx context.Context, token string) (*credentialDomain.RedeemedCredential, error)

	// DecodeImage reads a credential token from a still image.
	DecodeImage(ctx context.Context, img image.Image) (string, error)

	// RunScan reads a credential token from the camera. found is false when the scan
	// ended without a code; a missing camera is reported as ErrCameraUnavailable.
	RunScan(ctx context.Context, timeout time.Duration) (token string, found bool, err error)

	// MigrateLegacy reseals a legacy envelope. ok is false when it was already current.
	MigrateLegacy(ctx context.Context, envelope string) (migrated string, ok bool, err error)
}
