package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"larder/internal/domain"
	"larder/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, input service.LoginInput) (*service.LoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginOutput), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Parse(ctx context.Context, userID uuid.UUID, input service.ParseInput) (*service.ParseOutput, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ParseOutput), args.Error(1)
}

func (m *MockInvoiceService) Get(ctx context.Context, userID, invoiceID uuid.UUID) (*service.InvoiceDetail, error) {
	args := m.Called(ctx, userID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InvoiceDetail), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]domain.Invoice, int, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Int(1), args.Error(2)
}

func (m *MockInvoiceService) Delete(ctx context.Context, userID, invoiceID uuid.UUID) error {
	args := m.Called(ctx, userID, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceService) PageImageURLs(ctx context.Context, userID, invoiceID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockShoppingListService is a mock implementation of service.ShoppingListService.
type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) Share(ctx context.Context, granterID, listID uuid.UUID, input service.ShareInput) (*domain.ShoppingListRole, error) {
	args := m.Called(ctx, granterID, listID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShoppingListRole), args.Error(1)
}

func (m *MockShoppingListService) Roles(ctx context.Context, requesterID, listID uuid.UUID) ([]domain.ShoppingListRole, error) {
	args := m.Called(ctx, requesterID, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShoppingListRole), args.Error(1)
}
