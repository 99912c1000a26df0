// Package usecase exposes camera scanning to the rest of the application.
// Scans are serialized because the capture device is exclusively owned.
package usecase

import (
	"context"
	"time"

	scanDomain "github.com/lumenpass/lumenpass/internal/scan/domain"
)

// ScanUseCase runs bounded camera scans for credential tokens.
type ScanUseCase interface {
	// Scan looks for a credential token for at most timeout. Only one scan runs at a
	// time; a concurrent call fails immediately with ErrScannerBusy.
	Scan(ctx context.Context, timeout time.Duration) (scanDomain.Result, error)
}
