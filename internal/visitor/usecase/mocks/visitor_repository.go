// Package mocks provides mock implementations of the visitor use case and its repository for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	visitorDomain "github.com/lumenpass/lumenpass/internal/visitor/domain"
)

// MockVisitorRepository is a mock implementation of VisitorRepository for testing.
type MockVisitorRepository struct {
	mock.Mock
}

// Create mocks the Create method. An optional int64 second return value is assigned
// as the generated ID.
func (m *MockVisitorRepository) Create(ctx context.Context, visitor *visitorDomain.Visitor) error {
	args := m.Called(ctx, visitor)
	if len(args) > 1 {
		if id, ok := args.Get(1).(int64); ok {
			visitor.ID = id
		}
	}
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockVisitorRepository) Get(ctx context.Context, id int64) (*visitorDomain.Visitor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*visitorDomain.Visitor), args.Error(1)
}

// List mocks the List method.
func (m *MockVisitorRepository) List(ctx context.Context, offset, limit int) ([]*visitorDomain.Visitor, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*visitorDomain.Visitor), args.Error(1)
}

// UpdateStatus mocks the UpdateStatus method.
func (m *MockVisitorRepository) UpdateStatus(ctx context.Context, id int64, status visitorDomain.Status) error {
	return m.Called(ctx, id, status).Error(0)
}

// SetVerifiedBy mocks the SetVerifiedBy method.
func (m *MockVisitorRepository) SetVerifiedBy(ctx context.Context, id int64, verifiedBy string) error {
	return m.Called(ctx, id, verifiedBy).Error(0)
}

// UpdateEnvelopes mocks the UpdateEnvelopes method.
func (m *MockVisitorRepository) UpdateEnvelopes(
	ctx context.Context,
	id int64,
	encryptedPhone, encryptedPurpose string,
) error {
	return m.Called(ctx, id, encryptedPhone, encryptedPurpose).Error(0)
}
