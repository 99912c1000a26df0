package usecase

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	credentialDomain "github.com/lumenpass/lumenpass/internal/credential/domain"
	cryptoService "github.com/lumenpass/lumenpass/internal/crypto/service"
	scanUseCase "github.com/lumenpass/lumenpass/internal/scan/usecase"
)

type credentialUseCase struct {
	codec    cryptoService.Codec
	renderer Renderer
	decoder  FrameDecoder
	scanner  scanUseCase.ScanUseCase
	logger   *slog.Logger
}

// NewCredentialUseCase creates a credential use case.
func NewCredentialUseCase(
	codec cryptoService.Codec,
	renderer Renderer,
	decoder FrameDecoder,
	scanner scanUseCase.ScanUseCase,
	logger *slog.Logger,
) CredentialUseCase {
	return &credentialUseCase{
		codec:    codec,
		renderer: renderer,
		decoder:  decoder,
		scanner:  scanner,
		logger:   logger,
	}
}

func (c *credentialUseCase) Seal(ctx context.Context, plaintext string) (string, error) {
	return c.codec.Seal(plaintext)
}

func (c *credentialUseCase) Open(ctx context.Context, envelope string) (string, error) {
	return c.codec.Open(envelope)
}

// Issue seals both fields under fresh nonces, packs them and renders the pass.
func (c *credentialUseCase) Issue(
	ctx context.Context,
	id int64,
	phone, purpose string,
) (*credentialDomain.Credential, error) {
	phoneEnvelope, err := c.codec.Seal(phone)
	if err != nil {
		return nil, fmt.Errorf("failed to seal phone: %w", err)
	}
	purposeEnvelope, err := c.codec.Seal(purpose)
	if err != nil {
		return nil, fmt.Errorf("failed to seal purpose: %w", err)
	}

	token := credentialDomain.Pack(id, phoneEnvelope, purposeEnvelope)
	if len(token) > credentialDomain.MaxTokenBytes {
		c.logger.WarnContext(ctx, "credential token exceeds recommended size",
			slog.Int64("visitor_id", id),
			slog.Int("bytes", len(token)),
			slog.Int("max_bytes", credentialDomain.MaxTokenBytes),
		)
	}

	img, err := c.renderer.Render(token)
	if err != nil {
		return nil, err
	}

	return &credentialDomain.Credential{Token: token, Image: img}, nil
}

func (c *credentialUseCase) RenderPNG(ctx context.Context, token string) ([]byte, error) {
	return c.renderer.RenderPNG(token)
}

// Redeem rejects foreign tokens before any decryption is attempted.
func (c *credentialUseCase) Redeem(
	ctx context.Context,
	token string,
) (*credentialDomain.RedeemedCredential, error) {
	parsed, err := credentialDomain.Unpack(token)
	if err != nil {
		return nil, err
	}

	phone, err := c.codec.Open(parsed.PhoneEnvelope)
	if err != nil {
		return nil, fmt.Errorf("failed to open phone: %w", err)
	}
	purpose, err := c.codec.Open(parsed.PurposeEnvelope)
	if err != nil {
		return nil, fmt.Errorf("failed to open purpose: %w", err)
	}

	return &credentialDomain.RedeemedCredential{
		ID:      parsed.ID,
		Phone:   phone,
		Purpose: purpose,
	}, nil
}

func (c *credentialUseCase) DecodeImage(ctx context.Context, img image.Image) (string, error) {
	text, ok := c.decoder.LocateAndDecode(img)
	if !ok {
		return "", credentialDomain.ErrCodeNotFound
	}
	if _, err := credentialDomain.Unpack(text); err != nil {
		return "", err
	}
	return text, nil
}

func (c *credentialUseCase) RunScan(ctx context.Context, timeout time.Duration) (string, bool, error) {
	result, err := c.scanner.Scan(ctx, timeout)
	if err != nil {
		return "", false, err
	}
	return result.Token, result.Found(), nil
}

func (c *credentialUseCase) MigrateLegacy(ctx context.Context, envelope string) (string, bool, error) {
	return c.codec.MigrateLegacy(envelope)
}
