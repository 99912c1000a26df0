package usecase

import (
	"context"
	"time"

	"github.com/lumenpass/lumenpass/internal/metrics"
	visitorDomain "github.com/lumenpass/lumenpass/internal/visitor/domain"
)

// visitorUseCaseWithMetrics decorates VisitorUseCase with metrics instrumentation.
type visitorUseCaseWithMetrics struct {
	next    VisitorUseCase
	metrics metrics.BusinessMetrics
}

// NewVisitorUseCaseWithMetrics wraps a VisitorUseCase with metrics recording.
func NewVisitorUseCaseWithMetrics(useCase VisitorUseCase, m metrics.BusinessMetrics) VisitorUseCase {
	return &visitorUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (v *visitorUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, v.metrics, "visitor", operation, start, err)
}

func (v *visitorUseCaseWithMetrics) Register(
	ctx context.Context,
	input visitorDomain.RegisterVisitorInput,
) (*visitorDomain.RegisteredVisitor, error) {
	start := time.Now()
	registered, err := v.next.Register(ctx, input)
	v.record(ctx, "visitor_register", start, err)
	return registered, err
}

func (v *visitorUseCaseWithMetrics) Get(ctx context.Context, id int64) (*visitorDomain.DecryptedVisitor, error) {
	start := time.Now()
	visitor, err := v.next.Get(ctx, id)
	v.record(ctx, "visitor_get", start, err)
	return visitor, err
}

func (v *visitorUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*visitorDomain.DecryptedVisitor, error) {
	start := time.Now()
	visitors, err := v.next.List(ctx, offset, limit)
	v.record(ctx, "visitor_list", start, err)
	return visitors, err
}

func (v *visitorUseCaseWithMetrics) CheckOut(ctx context.Context, id int64) (*visitorDomain.Visitor, error) {
	start := time.Now()
	visitor, err := v.next.CheckOut(ctx, id)
	v.record(ctx, "visitor_checkout", start, err)
	return visitor, err
}

func (v *visitorUseCaseWithMetrics) VerifyToken(
	ctx context.Context,
	token, verifiedBy string,
) (*visitorDomain.DecryptedVisitor, error) {
	start := time.Now()
	visitor, err := v.next.VerifyToken(ctx, token, verifiedBy)
	v.record(ctx, "visitor_verify", start, err)
	return visitor, err
}

func (v *visitorUseCaseWithMetrics) ScanAndVerify(
	ctx context.Context,
	timeout time.Duration,
	verifiedBy string,
) (*visitorDomain.DecryptedVisitor, error) {
	start := time.Now()
	visitor, err := v.next.ScanAndVerify(ctx, timeout, verifiedBy)
	v.record(ctx, "visitor_scan_verify", start, err)
	return visitor, err
}

func (v *visitorUseCaseWithMetrics) CredentialPNG(ctx context.Context, id int64) ([]byte, error) {
	start := time.Now()
	png, err := v.next.CredentialPNG(ctx, id)
	v.record(ctx, "visitor_credential_png", start, err)
	return png, err
}

func (v *visitorUseCaseWithMetrics) MigrateLegacyEnvelopes(ctx context.Context) (*visitorDomain.MigrationStats, error) {
	start := time.Now()
	stats, err := v.next.MigrateLegacyEnvelopes(ctx)
	v.record(ctx, "visitor_migrate_legacy", start, err)
	return stats, err
}
