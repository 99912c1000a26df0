package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	credentialDomain "github.com/lumenpass/lumenpass/internal/credential/domain"
	scanDomain "github.com/lumenpass/lumenpass/internal/scan/domain"
	scanService "github.com/lumenpass/lumenpass/internal/scan/service"
)

type scanUseCase struct {
	opener  scanService.CameraOpener
	decoder scanService.FrameDecoder
	logger  *slog.Logger
	opts    []scanService.SessionOption
	device  *semaphore.Weighted
}

// NewScanUseCase creates a scan use case. opts are applied to every session.
func NewScanUseCase(
	opener scanService.CameraOpener,
	decoder scanService.FrameDecoder,
	logger *slog.Logger,
	opts ...scanService.SessionOption,
) ScanUseCase {
	return &scanUseCase{
		opener:  opener,
		decoder: decoder,
		logger:  logger,
		opts:    opts,
		device:  semaphore.NewWeighted(1),
	}
}

// Scan runs one session. Decoded codes that are not credential tokens are skipped.
func (s *scanUseCase) Scan(ctx context.Context, timeout time.Duration) (scanDomain.Result, error) {
	if !s.device.TryAcquire(1) {
		return scanDomain.Result{}, scanDomain.ErrScannerBusy
	}
	defer s.device.Release(1)

	logger := s.logger.With(slog.String("scan_id", uuid.New().String()))

	opts := make([]scanService.SessionOption, 0, len(s.opts)+1)
	opts = append(opts, s.opts...)
	opts = append(opts, scanService.WithTokenFilter(func(text string) error {
		_, err := credentialDomain.Unpack(text)
		return err
	}))

	session := scanService.NewSession(s.opener, s.decoder, logger, opts...)

	logger.Info("scan started", slog.Duration("timeout", timeout))

	result, err := session.Run(ctx, timeout)
	if err != nil {
		logger.Error("scan failed",
			slog.String("state", session.State().String()),
			slog.Int("frames", result.Frames),
			slog.Any("error", err),
		)
		return result, err
	}

	logger.Info("scan finished",
		slog.String("outcome", result.Outcome.String()),
		slog.Int("frames", result.Frames),
		slog.Int("decoded", result.Decoded),
		slog.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}
