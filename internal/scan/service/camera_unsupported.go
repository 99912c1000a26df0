//go:build !gocv

package service

import (
	"context"
	"fmt"

	scanDomain "github.com/lumenpass/lumenpass/internal/scan/domain"
)

// CameraSupported reports whether this binary was built with a camera driver.
const CameraSupported = false

type deviceOpener struct {
	cfg DeviceConfig
}

// NewDeviceOpener returns an opener for the local video device described by cfg.
// This build has no camera driver, so Open always fails with ErrCameraUnavailable.
func NewDeviceOpener(cfg DeviceConfig) CameraOpener {
	return &deviceOpener{cfg: cfg}
}

func (o *deviceOpener) Open(ctx context.Context) (Camera, error) {
	return nil, fmt.Errorf(
		"%w: device %d: binary built without camera support, rebuild with -tags gocv",
		scanDomain.ErrCameraUnavailable,
		o.cfg.DeviceID,
	)
}

// NewWindowPreviewFactory returns a factory that always fails in builds without a
// camera driver.
func NewWindowPreviewFactory(title string) PreviewFactory {
	return func() (Preview, error) {
		return nil, fmt.Errorf("%w: preview window %q requires -tags gocv", scanDomain.ErrCameraUnavailable, title)
	}
}
