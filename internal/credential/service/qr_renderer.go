// Package service renders credential tokens as QR images and reads them back.
package service

import (
	"fmt"
	"image"

	qrcode "github.com/skip2/go-qrcode"

	credentialDomain "github.com/lumenpass/lumenpass/internal/credential/domain"
)

const (
	// PixelsPerModule is the rendered size of one QR module.
	PixelsPerModule = 10

	// QuietZoneModules is the white border around the code, in modules.
	QuietZoneModules = 4
)

// QRRenderer renders tokens at a fixed configuration: Medium recovery level, 10 pixels
// per module, a 4-module quiet zone, black on white.
type QRRenderer struct{}

// NewQRRenderer creates a renderer.
func NewQRRenderer() *QRRenderer {
	return &QRRenderer{}
}

// Render returns the QR image for token. It fails with ErrEncoding when the token does not
// fit the largest QR version at the Medium level.
func (r *QRRenderer) Render(token string) (image.Image, error) {
	code, err := r.encode(token)
	if err != nil {
		return nil, err
	}
	return code.Image(-PixelsPerModule), nil
}

// RenderPNG returns the QR image for token encoded as PNG.
func (r *QRRenderer) RenderPNG(token string) ([]byte, error) {
	code, err := r.encode(token)
	if err != nil {
		return nil, err
	}
	png, err := code.PNG(-PixelsPerModule)
	if err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return png, nil
}

func (r *QRRenderer) encode(token string) (*qrcode.QRCode, error) {
	code, err := qrcode.New(token, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", credentialDomain.ErrEncoding, err)
	}
	return code, nil
}
