package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	cryptoDomain "github.com/lumenpass/lumenpass/internal/crypto/domain"
)

// keyFileMode restricts the key file to its owner.
const keyFileMode os.FileMode = 0o600

// FileKeyStore persists the single active key in one file and caches it in memory.
//
// The first LoadOrCreate reads the file, creating it with fresh random material if it
// does not exist. Later calls return the cached key without touching the disk. A file of
// the wrong length is reported as ErrCorruptKey and is never rewritten.
type FileKeyStore struct {
	path   string
	keeper Keeper
	logger *slog.Logger
	random io.Reader

	mu  sync.Mutex
	key *cryptoDomain.Key
}

// FileKeyStoreOption configures a FileKeyStore.
type FileKeyStoreOption func(*FileKeyStore)

// WithKeeper wraps the persisted key with keeper. The file then holds the keeper's
// ciphertext instead of raw key bytes.
func WithKeeper(keeper Keeper) FileKeyStoreOption {
	return func(s *FileKeyStore) {
		s.keeper = keeper
	}
}

// WithKeyStoreLogger sets the logger used to report key creation.
func WithKeyStoreLogger(logger *slog.Logger) FileKeyStoreOption {
	return func(s *FileKeyStore) {
		s.logger = logger
	}
}

// NewFileKeyStore creates a key store backed by the file at path.
func NewFileKeyStore(path string, opts ...FileKeyStoreOption) *FileKeyStore {
	s := &FileKeyStore{
		path:   path,
		logger: slog.New(slog.DiscardHandler),
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the key file location.
func (s *FileKeyStore) Path() string {
	return s.path
}

// LoadOrCreate returns the active key.
func (s *FileKeyStore) LoadOrCreate(ctx context.Context) (*cryptoDomain.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key != nil {
		return s.key, nil
	}

	blob, err := os.ReadFile(s.path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		blob, err = s.create(ctx)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	key, err := s.decode(ctx, blob)
	if err != nil {
		return nil, err
	}

	s.key = key
	return key, nil
}

// create writes a new key file exclusively. If another process wins the race, the
// winner's file is read back instead.
func (s *FileKeyStore) create(ctx context.Context) ([]byte, error) {
	material := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(s.random, material); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	defer cryptoDomain.Zero(material)

	blob, err := s.encode(ctx, material)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create key directory: %w", err)
		}
	}

	// The key is written to a private temp file and hard-linked into place, so the
	// final path appears exclusively and never holds a partial key.
	tmpPath, err := writeTempKeyFile(filepath.Dir(s.path), blob)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	err = os.Link(tmpPath, s.path)
	if errors.Is(err, os.ErrExist) {
		existing, readErr := os.ReadFile(s.path)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read key file: %w", readErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create key file: %w", err)
	}

	s.logger.Info("key file created",
		slog.String("path", s.path),
		slog.Bool("wrapped", s.keeper != nil),
	)
	return blob, nil
}

func writeTempKeyFile(dir string, blob []byte) (string, error) {
	f, err := os.CreateTemp(dir, ".key-*")
	if err != nil {
		return "", fmt.Errorf("failed to create key file: %w", err)
	}
	path := f.Name()

	fail := func(op string, err error) (string, error) {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to %s key file: %w", op, err)
	}

	if err := f.Chmod(keyFileMode); err != nil {
		return fail("chmod", err)
	}
	if _, err := f.Write(blob); err != nil {
		return fail("write", err)
	}
	if err := f.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to close key file: %w", err)
	}
	return path, nil
}

func (s *FileKeyStore) encode(ctx context.Context, material []byte) ([]byte, error) {
	if s.keeper == nil {
		out := make([]byte, len(material))
		copy(out, material)
		return out, nil
	}
	wrapped, err := s.keeper.Encrypt(ctx, material)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyWrapFailed, err)
	}
	return wrapped, nil
}

func (s *FileKeyStore) decode(ctx context.Context, blob []byte) (*cryptoDomain.Key, error) {
	material := blob
	if s.keeper != nil {
		unwrapped, err := s.keeper.Decrypt(ctx, blob)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyWrapFailed, err)
		}
		material = unwrapped
	}
	defer cryptoDomain.Zero(material)

	if len(material) != cryptoDomain.KeySize {
		return nil, fmt.Errorf(
			"%w: expected %d bytes, got %d",
			cryptoDomain.ErrCorruptKey,
			cryptoDomain.KeySize,
			len(material),
		)
	}
	return cryptoDomain.NewKey(material)
}
