package port

import (
	"context"

	"github.com/google/uuid"

	"larder/internal/domain"
)

// InvoiceRepository persists parsed invoices and their line items.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice, items []domain.StoredItem) error
	GetByID(ctx context.Context, userID, invoiceID uuid.UUID) (*domain.Invoice, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error)
	ListItems(ctx context.Context, invoiceID uuid.UUID) ([]domain.StoredItem, error)
	// Delete removes an invoice and its items. The invoice must belong to
	// userID; a foreign invoice yields domain.ErrForbidden.
	Delete(ctx context.Context, userID, invoiceID uuid.UUID) error
}

// UserRepository looks up restaurant accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ShoppingListRepository persists shopping lists and share roles.
type ShoppingListRepository interface {
	GetByID(ctx context.Context, listID uuid.UUID) (*domain.ShoppingList, error)
	CreateRole(ctx context.Context, role *domain.ShoppingListRole) error
	ListRoles(ctx context.Context, listID uuid.UUID) ([]domain.ShoppingListRole, error)
	HasRole(ctx context.Context, listID, userID uuid.UUID) (bool, error)
}
