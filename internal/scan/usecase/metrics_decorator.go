package usecase

import (
	"context"
	"time"

	"github.com/lumenpass/lumenpass/internal/metrics"
	scanDomain "github.com/lumenpass/lumenpass/internal/scan/domain"
)

// scanUseCaseWithMetrics decorates ScanUseCase with metrics instrumentation.
type scanUseCaseWithMetrics struct {
	next    ScanUseCase
	metrics metrics.BusinessMetrics
}

// NewScanUseCaseWithMetrics wraps a ScanUseCase with metrics recording.
func NewScanUseCaseWithMetrics(useCase ScanUseCase, m metrics.BusinessMetrics) ScanUseCase {
	return &scanUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Scan records the scan outcome as the operation status, or "error" when the scan failed.
func (s *scanUseCaseWithMetrics) Scan(ctx context.Context, timeout time.Duration) (scanDomain.Result, error) {
	start := time.Now()
	result, err := s.next.Scan(ctx, timeout)

	status := result.Outcome.String()
	if err != nil {
		status = metrics.StatusError
	}

	s.metrics.RecordOperation(ctx, "scan", "scan", status)
	s.metrics.RecordDuration(ctx, "scan", "scan", time.Since(start), status)

	return result, err
}
