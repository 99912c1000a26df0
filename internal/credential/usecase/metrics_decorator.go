package usecase

import (
	"context"
	"image"
	"time"

	credentialDomain "github.com/lumenpass/lumenpass/internal/credential/domain"
	"github.com/lumenpass/lumenpass/internal/metrics"
)

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics instrumentation.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics recording.
func NewCredentialUseCaseWithMetrics(useCase CredentialUseCase, m metrics.BusinessMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *credentialUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, c.metrics, "credential", operation, start, err)
}

func (c *credentialUseCaseWithMetrics) Seal(ctx context.Context, plaintext string) (string, error) {
	start := time.Now()
	envelope, err := c.next.Seal(ctx, plaintext)
	c.record(ctx, "credential_seal", start, err)
	return envelope, err
}

func (c *credentialUseCaseWithMetrics) Open(ctx context.Context, envelope string) (string, error) {
	start := time.Now()
	plaintext, err := c.next.Open(ctx, envelope)
	c.record(ctx, "credential_open", start, err)
	return plaintext, err
}

func (c *credentialUseCaseWithMetrics) Issue(
	ctx context.Context,
	id int64,
	phone, purpose string,
) (*credentialDomain.Credential, error) {
	start := time.Now()
	credential, err := c.next.Issue(ctx, id, phone, purpose)
	c.record(ctx, "credential_issue", start, err)
	return credential, err
}

func (c *credentialUseCaseWithMetrics) RenderPNG(ctx context.Context, token string) ([]byte, error) {
	start := time.Now()
	png, err := c.next.RenderPNG(ctx, token)
	c.record(ctx, "credential_render", start, err)
	return png, err
}

func (c *credentialUseCaseWithMetrics) Redeem(
	ctx context.Context,
	token string,
) (*credentialDomain.RedeemedCredential, error) {
	start := time.Now()
	redeemed, err := c.next.Redeem(ctx, token)
	c.record(ctx, "credential_redeem", start, err)
	return redeemed, err
}

func (c *credentialUseCaseWithMetrics) DecodeImage(ctx context.Context, img image.Image) (string, error) {
	start := time.Now()
	token, err := c.next.DecodeImage(ctx, img)
	c.record(ctx, "credential_decode_image", start, err)
	return token, err
}

// RunScan does not record: scans are instrumented by the scan use case.
func (c *credentialUseCaseWithMetrics) RunScan(
	ctx context.Context,
	timeout time.Duration,
) (string, bool, error) {
	return c.next.RunScan(ctx, timeout)
}

func (c *credentialUseCaseWithMetrics) MigrateLegacy(
	ctx context.Context,
	envelope string,
) (string, bool, error) {
	start := time.Now()
	migrated, ok, err := c.next.MigrateLegacy(ctx, envelope)
	c.record(ctx, "credential_migrate_legacy", start, err)
	return migrated, ok, err
}
