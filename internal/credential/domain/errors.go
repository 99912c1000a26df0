package domain

import (
	"github.com/lumenpass/lumenpass/internal/errors"
)

// Credential error definitions.
var (
	// ErrMalformedToken indicates QR content that is not a credential token.
	//
	// Camera frames routinely contain unrelated codes, so scanners treat this as
	// "keep looking" while every other caller reports it.
	ErrMalformedToken = errors.Wrap(errors.ErrInvalidInput, "malformed credential token")

	// ErrEncoding indicates the token exceeds the QR capacity at the fixed recovery level.
	ErrEncoding = errors.Wrap(errors.ErrInvalidInput, "token too large to encode")

	// ErrCodeNotFound indicates an image in which no QR code could be located.
	ErrCodeNotFound = errors.Wrap(errors.ErrInvalidInput, "no QR code found in image")

	// ErrImageTooLarge indicates an image whose dimensions exceed MaxImageDimension.
	ErrImageTooLarge = errors.Wrap(errors.ErrInvalidInput, "image dimensions too large")

	// ErrUnsupportedImage indicates an image that is not a readable PNG or JPEG.
	ErrUnsupportedImage = errors.Wrap(errors.ErrInvalidInput, "unsupported or corrupt image")
)
