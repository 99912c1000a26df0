// Package mocks provides mock implementations of the credential use case for testing.
package mocks

import (
	"context"
	"image"
	"time"

	"github.com/stretchr/testify/mock"

	credentialDomain "github.com/lumenpass/lumenpass/internal/credential/domain"
)

// MockCredentialUseCase is a mock implementation of CredentialUseCase for testing.
type MockCredentialUseCase struct {
	mock.Mock
}

// Seal mocks the Seal method of CredentialUseCase.
func (m *MockCredentialUseCase) Seal(ctx context.Context, plaintext string) (string, error) {
	args := m.Called(ctx, plaintext)
	return args.String(0), args.Error(1)
}

// Open mocks the Open method of CredentialUseCase.
func (m *MockCredentialUseCase) Open(ctx context.Context, envelope string) (string, error) {
	args := m.Called(ctx, envelope)
	return args.String(0), args.Error(1)
}

// Issue mocks the Issue method of CredentialUseCase.
func (m *MockCredentialUseCase) Issue(
	ctx context.Context,
	id int64,
	phone, purpose string,
) (*credentialDomain.Credential, error) {
	args := m.Called(ctx, id, phone, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.Credential), args.Error(1)
}

// RenderPNG mocks the RenderPNG method of CredentialUseCase.
func (m *MockCredentialUseCase) RenderPNG(ctx context.Context, token string) ([]byte, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Redeem mocks the Redeem method of CredentialUseCase.
func (m *MockCredentialUseCase) Redeem(
	ctx context.Context,
	token string,
) (*credentialDomain.RedeemedCredential, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.RedeemedCredential), args.Error(1)
}

// DecodeImage mocks the DecodeImage method of CredentialUseCase.
func (m *MockCredentialUseCase) DecodeImage(ctx context.Context, img image.Image) (string, error) {
	args := m.Called(ctx, img)
	return args.String(0), args.Error(1)
}

// RunScan mocks the RunScan method of CredentialUseCase.
func (m *MockCredentialUseCase) RunScan(ctx context.Context, timeout time.Duration) (string, bool, error) {
	args := m.Called(ctx, timeout)
	return args.String(0), args.Bool(1), args.Error(2)
}

// MigrateLegacy mocks the MigrateLegacy method of CredentialUseCase.
func (m *MockCredentialUseCase) MigrateLegacy(ctx context.Context, envelope string) (string, bool, error) {
	args := m.Called(ctx, envelope)
	return args.String(0), args.Bool(1), args.Error(2)
}
