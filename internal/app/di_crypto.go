package app

import (
	"context"
	"fmt"
	"log/slog"

	cryptoService "github.com/lumenpass/lumenpass/internal/crypto/service"
)

// KMSService returns the KMS service used to open key-wrapping keepers.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = c.initKMSService()
	})
	return c.kmsService
}

// KeyStore returns the file-backed store of the field encryption key.
func (c *Container) KeyStore() (cryptoService.KeyStore, error) {
	var err error
	c.keyStoreInit.Do(func() {
		c.keyStore, err = c.initKeyStore()
		if err != nil {
			c.initErrors["keyStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyStore"]; exists {
		return nil, storedErr
	}
	return c.keyStore, nil
}

// Codec returns the field codec built from the active key.
// The key file is created on first access if it does not exist.
func (c *Container) Codec() (cryptoService.Codec, error) {
	var err error
	c.codecInit.Do(func() {
		c.codec, err = c.initCodec()
		if err != nil {
			c.initErrors["codec"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["codec"]; exists {
		return nil, storedErr
	}
	return c.codec, nil
}

// initKMSService creates the KMS service.
func (c *Container) initKMSService() cryptoService.KMSService {
	return cryptoService.NewKMSService()
}

// initKeyStore creates the key store, wrapping the key file with a KMS keeper when
// KEY_WRAP_URI is set.
func (c *Container) initKeyStore() (cryptoService.KeyStore, error) {
	opts := []cryptoService.FileKeyStoreOption{
		cryptoService.WithKeyStoreLogger(c.Logger()),
	}

	if c.config.KeyWrapURI != "" {
		keeper, err := c.KMSService().OpenKeeper(context.Background(), c.config.KeyWrapURI)
		if err != nil {
			return nil, fmt.Errorf("failed to open key keeper: %w", err)
		}
		c.keeper = keeper
		opts = append(opts, cryptoService.WithKeeper(keeper))
	}

	return cryptoService.NewFileKeyStore(c.config.KeyFilePath, opts...), nil
}

// initCodec loads the key and creates the field codec.
func (c *Container) initCodec() (cryptoService.Codec, error) {
	keyStore, err := c.KeyStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get key store for codec: %w", err)
	}

	key, err := keyStore.LoadOrCreate(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load field encryption key: %w", err)
	}

	codec, err := cryptoService.NewFieldCodec(key, cryptoService.WithLegacyFallback(c.config.LegacyDecryptEnabled))
	if err != nil {
		return nil, fmt.Errorf("failed to create field codec: %w", err)
	}

	c.Logger().Debug("field codec ready",
		slog.String("key_file", c.config.KeyFilePath),
		slog.String("key_fingerprint", key.Fingerprint()),
		slog.Bool("legacy_decrypt", c.config.LegacyDecryptEnabled),
	)
	return codec, nil
}
