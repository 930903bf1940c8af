package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"larder/internal/domain"
	"larder/internal/port"
)

// MockDocumentAnalyzer is a mock implementation of port.DocumentAnalyzer.
type MockDocumentAnalyzer struct {
	mock.Mock
}

func (m *MockDocumentAnalyzer) Analyze(ctx context.Context, input port.AnalyzeInput) (*domain.OCRResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OCRResult), args.Error(1)
}

// MockItemFilter is a mock implementation of service.ItemFilter.
type MockItemFilter struct {
	mock.Mock
}

func (m *MockItemFilter) Apply(ctx context.Context, items []domain.InvoiceItem) ([]domain.InvoiceItem, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceItem), args.Error(1)
}

// MockItemClassifier is a mock implementation of port.ItemClassifier.
type MockItemClassifier struct {
	mock.Mock
}

func (m *MockItemClassifier) ItemsToRemove(ctx context.Context, items []domain.InvoiceItem) ([]domain.InvoiceItem, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceItem), args.Error(1)
}
