package app

import (
	"fmt"

	credentialService "github.com/lumenpass/lumenpass/internal/credential/service"
	credentialUseCase "github.com/lumenpass/lumenpass/internal/credential/usecase"
	scanService "github.com/lumenpass/lumenpass/internal/scan/service"
	scanUseCase "github.com/lumenpass/lumenpass/internal/scan/usecase"
)

// UseCameraOpener replaces the local video device as the frame source.
// It only takes effect when called before the scan use case is first built.
func (c *Container) UseCameraOpener(opener scanService.CameraOpener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cameraOpener = opener
}

// ScanUseCase returns the scan use case.
func (c *Container) ScanUseCase() (scanUseCase.ScanUseCase, error) {
	var err error
	c.scanUseCaseInit.Do(func() {
		c.scanUseCase, err = c.initScanUseCase()
		if err != nil {
			c.initErrors["scanUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["scanUseCase"]; exists {
		return nil, storedErr
	}
	return c.scanUseCase, nil
}

// CredentialUseCase returns the credential use case.
func (c *Container) CredentialUseCase() (credentialUseCase.CredentialUseCase, error) {
	var err error
	c.credentialUseCaseInit.Do(func() {
		c.credentialUseCase, err = c.initCredentialUseCase()
		if err != nil {
			c.initErrors["credentialUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialUseCase"]; exists {
		return nil, storedErr
	}
	return c.credentialUseCase, nil
}

// initScanUseCase creates the scan use case on the configured frame source.
func (c *Container) initScanUseCase() (scanUseCase.ScanUseCase, error) {
	logger := c.Logger()

	c.mu.Lock()
	opener := c.cameraOpener
	c.mu.Unlock()

	if opener == nil {
		opener = scanService.NewDeviceOpener(scanService.DeviceConfig{
			DeviceID: c.config.CameraDeviceID,
			Width:    c.config.CameraWidth,
			Height:   c.config.CameraHeight,
		})
	}

	opts := []scanService.SessionOption{
		scanService.WithDecodeEvery(c.config.ScanDecodeEvery),
	}
	if c.config.ScanPreviewEnabled {
		opts = append(opts, scanService.WithPreview(scanService.NewWindowPreviewFactory(scanService.PreviewWindowTitle)))
	}

	baseUseCase := scanUseCase.NewScanUseCase(opener, credentialService.NewQRDecoder(), logger, opts...)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for scan use case: %w", err)
		}
		return scanUseCase.NewScanUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initCredentialUseCase creates the credential use case with all its dependencies.
func (c *Container) initCredentialUseCase() (credentialUseCase.CredentialUseCase, error) {
	codec, err := c.Codec()
	if err != nil {
		return nil, fmt.Errorf("failed to get codec for credential use case: %w", err)
	}

	scanner, err := c.ScanUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get scan use case for credential use case: %w", err)
	}

	baseUseCase := credentialUseCase.NewCredentialUseCase(
		codec,
		credentialService.NewQRRenderer(),
		credentialService.NewQRDecoder(),
		scanner,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for credential use case: %w", err)
		}
		return credentialUseCase.NewCredentialUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
