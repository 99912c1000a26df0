//go:build gocv

package service

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	scanDomain "github.com/lumenpass/lumenpass/internal/scan/domain"
)

// CameraSupported reports whether this binary was built with a camera driver.
const CameraSupported = true

type deviceOpener struct {
	cfg DeviceConfig
}

// NewDeviceOpener returns an opener for the local video device described by cfg.
func NewDeviceOpener(cfg DeviceConfig) CameraOpener {
	return &deviceOpener{cfg: cfg}
}

func (o *deviceOpener) Open(ctx context.Context) (Camera, error) {
	capture, err := gocv.OpenVideoCapture(o.cfg.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("%w: device %d: %v", scanDomain.ErrCameraUnavailable, o.cfg.DeviceID, err)
	}
	if !capture.IsOpened() {
		_ = capture.Close()
		return nil, fmt.Errorf(
			"%w: device %d could not be opened; run the scanner on a machine with camera access",
			scanDomain.ErrCameraUnavailable,
			o.cfg.DeviceID,
		)
	}

	if o.cfg.Width > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(o.cfg.Width))
	}
	if o.cfg.Height > 0 {
		capture.Set(gocv.VideoCaptureFrameHeight, float64(o.cfg.Height))
	}

	return &deviceCamera{capture: capture, frame: gocv.NewMat()}, nil
}

type deviceCamera struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
}

func (c *deviceCamera) ReadFrame(ctx context.Context) (image.Image, error) {
	if ok := c.capture.Read(&c.frame); !ok || c.frame.Empty() {
		return nil, scanDomain.ErrNoFrame
	}
	img, err := c.frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert frame: %w", err)
	}
	return img, nil
}

func (c *deviceCamera) Close() error {
	frameErr := c.frame.Close()
	if err := c.capture.Close(); err != nil {
		return err
	}
	return frameErr
}

type windowPreview struct {
	window *gocv.Window
}

// NewWindowPreviewFactory returns a factory for a desktop preview window.
func NewWindowPreviewFactory(title string) PreviewFactory {
	return func() (Preview, error) {
		return &windowPreview{window: gocv.NewWindow(title)}, nil
	}
}

func (p *windowPreview) Show(frame image.Image) bool {
	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return false
	}
	defer mat.Close()

	p.window.IMShow(mat)
	return p.window.WaitKey(1)&0xFF == 'q'
}

func (p *windowPreview) Close() error {
	return p.window.Close()
}
