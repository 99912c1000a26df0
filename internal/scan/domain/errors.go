package domain

import (
	"github.com/lumenpass/lumenpass/internal/errors"
)

// Scan error definitions.
var (
	// ErrCameraUnavailable indicates the capture device could not be opened.
	//
	// Reported separately from a scan that finds no code, so callers can point the
	// operator at the hardware instead of asking them to try again.
	ErrCameraUnavailable = errors.Wrap(errors.ErrUnavailable, "camera unavailable")

	// ErrNoFrame indicates a transient read miss. Sessions skip it and keep sampling.
	ErrNoFrame = errors.New("no frame available")

	// ErrScannerBusy indicates another scan currently owns the camera.
	ErrScannerBusy = errors.Wrap(errors.ErrConflict, "scanner busy")

	// ErrInvalidTimeout indicates a non-positive scan budget.
	ErrInvalidTimeout = errors.Wrap(errors.ErrInvalidInput, "scan timeout must be positive")
)
