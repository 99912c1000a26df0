package service

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG photos of passes
	_ "image/png"
	"io"

	credentialDomain "github.com/lumenpass/lumenpass/internal/credential/domain"
)

// MaxImageDimension bounds the width and height of an image read for decoding. A
// rendered pass is a few hundred pixels wide and phone photos stay under this.
const MaxImageDimension = 4096

// ReadImage decodes a PNG or JPEG from r. The header is checked first so an image
// declaring dimensions above MaxImageDimension is rejected before its pixels are
// allocated.
func ReadImage(r io.ReadSeeker) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", credentialDomain.ErrUnsupportedImage, err)
	}
	if cfg.Width > MaxImageDimension || cfg.Height > MaxImageDimension {
		return nil, fmt.Errorf("%w: %dx%d exceeds %dx%d", credentialDomain.ErrImageTooLarge,
			cfg.Width, cfg.Height, MaxImageDimension, MaxImageDimension)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind image: %w", err)
	}

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", credentialDomain.ErrUnsupportedImage, err)
	}
	return img, nil
}
