package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"larder/internal/domain"
)

// MockInvoiceRepo is a mock implementation of port.InvoiceRepository.
type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) Create(ctx context.Context, inv *domain.Invoice, items []domain.StoredItem) error {
	args := m.Called(ctx, inv, items)
	return args.Error(0)
}

func (m *MockInvoiceRepo) GetByID(ctx context.Context, userID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, userID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Int(1), args.Error(2)
}

func (m *MockInvoiceRepo) ListItems(ctx context.Context, invoiceID uuid.UUID) ([]domain.StoredItem, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StoredItem), args.Error(1)
}

func (m *MockInvoiceRepo) Delete(ctx context.Context, userID, invoiceID uuid.UUID) error {
	args := m.Called(ctx, userID, invoiceID)
	return args.Error(0)
}

// MockUserRepo is a mock implementation of port.UserRepository.
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockShoppingListRepo is a mock implementation of port.ShoppingListRepository.
type MockShoppingListRepo struct {
	mock.Mock
}

func (m *MockShoppingListRepo) GetByID(ctx context.Context, listID uuid.UUID) (*domain.ShoppingList, error) {
	args := m.Called(ctx, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShoppingList), args.Error(1)
}

func (m *MockShoppingListRepo) CreateRole(ctx context.Context, role *domain.ShoppingListRole) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockShoppingListRepo) ListRoles(ctx context.Context, listID uuid.UUID) ([]domain.ShoppingListRole, error) {
	args := m.Called(ctx, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShoppingListRole), args.Error(1)
}

func (m *MockShoppingListRepo) HasRole(ctx context.Context, listID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, listID, userID)
	return args.Bool(0), args.Error(1)
}
