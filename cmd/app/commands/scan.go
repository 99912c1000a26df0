package commands

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	credentialService "github.com/lumenpass/lumenpass/internal/credential/service"
	credentialUseCase "github.com/lumenpass/lumenpass/internal/credential/usecase"
	visitorUseCase "github.com/lumenpass/lumenpass/internal/visitor/usecase"
)

var frameExtensions = []string{".png", ".jpg", ".jpeg"}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	img, err := credentialService.ReadImage(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// LoadFrames decodes every PNG and JPEG file in dir, in file name order. It feeds
// recorded frames to a scan when no camera is attached.
func LoadFrames(dir string) ([]image.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory: %w", err)
	}

	var frames []image.Image
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || !slices.Contains(frameExtensions, ext) {
			continue
		}
		img, err := decodeImageFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		frames = append(frames, img)
	}

	if len(frames) == 0 {
		return nil, fmt.Errorf("no PNG or JPEG frames found in %s", dir)
	}
	return frames, nil
}

// RunDecodeImage reads a pass from an image file, verifies it and prints its visitor.
func RunDecodeImage(
	ctx context.Context,
	credentialUseCase credentialUseCase.CredentialUseCase,
	visitorUseCase visitorUseCase.VisitorUseCase,
	out io.Writer,
	path, verifiedBy, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	img, err := decodeImageFile(path)
	if err != nil {
		return err
	}

	token, err := credentialUseCase.DecodeImage(ctx, img)
	if err != nil {
		return fmt.Errorf("failed to read credential: %w", err)
	}

	visitor, err := visitorUseCase.VerifyToken(ctx, token, verifiedBy)
	if err != nil {
		return fmt.Errorf("failed to verify credential: %w", err)
	}
	return writeVisitor(out, visitor, format)
}
