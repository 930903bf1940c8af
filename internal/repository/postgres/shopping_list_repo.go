package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"larder/internal/domain"
	"larder/internal/port"
)

type shoppingListRepo struct {
	db *sqlx.DB
}

// NewShoppingListRepo creates a new PostgreSQL-backed ShoppingListRepository.
func NewShoppingListRepo(db *sqlx.DB) port.ShoppingListRepository {
	return &shoppingListRepo{db: db}
}

func (r *shoppingListRepo) GetByID(ctx context.Context, listID uuid.UUID) (*domain.ShoppingList, error) {
	var list domain.ShoppingList
	err := r.db.GetContext(ctx, &list, "SELECT * FROM shopping_lists WHERE id = $1", listID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("shoppingListRepo.GetByID: %w", err)
	}
	return &list, nil
}

func (r *shoppingListRepo) CreateRole(ctx context.Context, role *domain.ShoppingListRole) error {
	role.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO shopping_list_roles (list_id, user_id, role, granted_by, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		role.ListID, role.UserID, role.Role, role.GrantedBy, role.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateShare
		}
		return fmt.Errorf("shoppingListRepo.CreateRole: %w", err)
	}
	return nil
}

func (r *shoppingListRepo) ListRoles(ctx context.Context, listID uuid.UUID) ([]domain.ShoppingListRole, error) {
	var roles []domain.ShoppingListRole
	err := r.db.SelectContext(ctx, &roles,
		"SELECT * FROM shopping_list_roles WHERE list_id = $1 ORDER BY created_at", listID)
	if err != nil {
		return nil, fmt.Errorf("shoppingListRepo.ListRoles: %w", err)
	}
	return roles, nil
}

func (r *shoppingListRepo) HasRole(ctx context.Context, listID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM shopping_list_roles WHERE list_id = $1 AND user_id = $2)",
		listID, userID)
	if err != nil {
		return false, fmt.Errorf("shoppingListRepo.HasRole: %w", err)
	}
	return exists, nil
}
