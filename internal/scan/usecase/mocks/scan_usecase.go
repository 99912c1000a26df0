// Package mocks provides mock implementations of the scan use case for testing.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	scanDomain "github.com/lumenpass/lumenpass/internal/scan/domain"
)

// MockScanUseCase is a mock implementation of ScanUseCase for testing.
type MockScanUseCase struct {
	mock.Mock
}

// Scan mocks the Scan method of ScanUseCase.
func (m *MockScanUseCase) Scan(ctx context.Context, timeout time.Duration) (scanDomain.Result, error) {
	args := m.Called(ctx, timeout)
	return args.Get(0).(scanDomain.Result), args.Error(1)
}
