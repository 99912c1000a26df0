package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	visitorDomain "github.com/lumenpass/lumenpass/internal/visitor/domain"
)

// MockVisitorUseCase is a mock implementation of VisitorUseCase for testing.
type MockVisitorUseCase struct {
	mock.Mock
}

func (m *MockVisitorUseCase) decrypted(args mock.Arguments) (*visitorDomain.DecryptedVisitor, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*visitorDomain.DecryptedVisitor), args.Error(1)
}

// Register mocks the Register method.
func (m *MockVisitorUseCase) Register(
	ctx context.Context,
	input visitorDomain.RegisterVisitorInput,
) (*visitorDomain.RegisteredVisitor, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*visitorDomain.RegisteredVisitor), args.Error(1)
}

// Get mocks the Get method.
func (m *MockVisitorUseCase) Get(ctx context.Context, id int64) (*visitorDomain.DecryptedVisitor, error) {
	return m.decrypted(m.Called(ctx, id))
}

// List mocks the List method.
func (m *MockVisitorUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*visitorDomain.DecryptedVisitor, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*visitorDomain.DecryptedVisitor), args.Error(1)
}

// CheckOut mocks the CheckOut method.
func (m *MockVisitorUseCase) CheckOut(ctx context.Context, id int64) (*visitorDomain.Visitor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*visitorDomain.Visitor), args.Error(1)
}

// VerifyToken mocks the VerifyToken method.
func (m *MockVisitorUseCase) VerifyToken(
	ctx context.Context,
	token, verifiedBy string,
) (*visitorDomain.DecryptedVisitor, error) {
	return m.decrypted(m.Called(ctx, token, verifiedBy))
}

// ScanAndVerify mocks the ScanAndVerify method.
func (m *MockVisitorUseCase) ScanAndVerify(
	ctx context.Context,
	timeout time.Duration,
	verifiedBy string,
) (*visitorDomain.DecryptedVisitor, error) {
	return m.decrypted(m.Called(ctx, timeout, verifiedBy))
}

// CredentialPNG mocks the CredentialPNG method.
func (m *MockVisitorUseCase) CredentialPNG(ctx context.Context, id int64) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MigrateLegacyEnvelopes mocks the MigrateLegacyEnvelopes method.
func (m *MockVisitorUseCase) MigrateLegacyEnvelopes(ctx context.Context) (*visitorDomain.MigrationStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*visitorDomain.MigrationStats), args.Error(1)
}
