// Package service runs bounded camera scan sessions that look for credential QR codes.
package service

import (
	"context"
	"image"
)

// Camera is an exclusively owned capture device.
type Camera interface {
	// ReadFrame returns the next frame. A transient miss returns domain.ErrNoFrame.
	ReadFrame(ctx context.Context) (image.Image, error)

	// Close releases the device.
	Close() error
}

// CameraOpener acquires a Camera. Failure to acquire returns domain.ErrCameraUnavailable.
type CameraOpener interface {
	Open(ctx context.Context) (Camera, error)
}

// Preview is a live aiming surface shown while capturing.
type Preview interface {
	// Show displays frame and reports whether the operator asked to quit.
	Show(frame image.Image) (quit bool)

	// Close tears the surface down.
	Close() error
}

// PreviewFactory creates a Preview for one session.
type PreviewFactory func() (Preview, error)

// FrameDecoder extracts QR text from a single frame.
type FrameDecoder interface {
	LocateAndDecode(frame image.Image) (string, bool)
}
