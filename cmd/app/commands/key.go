package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	cryptoDomain "github.com/lumenpass/lumenpass/internal/crypto/domain"
	cryptoService "github.com/lumenpass/lumenpass/internal/crypto/service"
)

type keyOutput struct {
	Path        string `json:"path"`
	Fingerprint string `json:"fingerprint"`
}

func writeKey(out io.Writer, path string, key *cryptoDomain.Key, format string) error {
	if format == FormatJSON {
		return writeJSON(out, keyOutput{Path: path, Fingerprint: key.Fingerprint()})
	}
	_, err := fmt.Fprintf(out, "Key file:    %s\nFingerprint: %s\n", path, key.Fingerprint())
	return err
}

// RunCreateKey creates the field encryption key file. It refuses to replace an
// existing file since every stored envelope depends on it.
func RunCreateKey(ctx context.Context, store cryptoService.KeyStore, out io.Writer, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if _, err := os.Stat(store.Path()); err == nil {
		return fmt.Errorf("key file already exists: %s", store.Path())
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check key file: %w", err)
	}

	key, err := store.LoadOrCreate(ctx)
	if err != nil {
		return fmt.Errorf("failed to create key: %w", err)
	}

	return writeKey(out, store.Path(), key, format)
}

// RunKeyInfo prints the location and fingerprint of the existing key file.
func RunKeyInfo(ctx context.Context, store cryptoService.KeyStore, out io.Writer, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if _, err := os.Stat(store.Path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("key file not found: %s (run create-key first)", store.Path())
		}
		return fmt.Errorf("failed to check key file: %w", err)
	}

	key, err := store.LoadOrCreate(ctx)
	if err != nil {
		return fmt.Errorf("failed to load key: %w", err)
	}

	return writeKey(out, store.Path(), key, format)
}
