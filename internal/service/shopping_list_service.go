package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"larder/internal/domain"
	"larder/internal/port"
)

// ShareInput is the DTO for list sharing requests.
type ShareInput struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// ShoppingListService defines the shopping list sharing contract.
type ShoppingListService interface {
	Share(ctx context.Context, granterID, listID uuid.UUID, input ShareInput) (*domain.ShoppingListRole, error)
	Roles(ctx context.Context, requesterID, listID uuid.UUID) ([]domain.ShoppingListRole, error)
}

type shoppingListService struct {
	listRepo port.ShoppingListRepository
	userRepo port.UserRepository
	email    port.EmailSender
}

// NewShoppingListService creates a new ShoppingListService implementation.
func NewShoppingListService(
	listRepo port.ShoppingListRepository,
	userRepo port.UserRepository,
	email port.EmailSender,
) ShoppingListService {
	return &shoppingListService{listRepo: listRepo, userRepo: userRepo, email: email}
}

// Share grants a user access to a shopping list by email. The granter must
// already have a role on the list; sharing twice with the same user is a
// conflict.
func (s *shoppingListService) Share(ctx context.Context, granterID, listID uuid.UUID, input ShareInput) (*domain.ShoppingListRole, error) {
	role := domain.ListPermission(input.Role)
	if !domain.ValidListPermissions[role] {
		return nil, domain.ErrInvalidPermission
	}

	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrListNotFound
		}
		return nil, fmt.Errorf("shoppinglist.Share: %w", err)
	}

	granted, err := s.listRepo.HasRole(ctx, listID, granterID)
	if err != nil {
		return nil, fmt.Errorf("shoppinglist.Share: %w", err)
	}
	if !granted {
		return nil, domain.ErrForbidden
	}

	target, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("shoppinglist.Share: %w", err)
	}

	exists, err := s.listRepo.HasRole(ctx, listID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("shoppinglist.Share: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateShare
	}

	listRole := &domain.ShoppingListRole{
		ListID:    listID,
		UserID:    target.ID,
		Role:      role,
		GrantedBy: granterID,
	}
	if err := s.listRepo.CreateRole(ctx, listRole); err != nil {
		return nil, fmt.Errorf("shoppinglist.Share: %w", err)
	}

	// Notification failures never undo the share.
	msg := port.EmailMessage{
		To:       target.Email,
		Subject:  fmt.Sprintf("A shopping list was shared with you: %s", list.Name),
		TextBody: fmt.Sprintf("You now have %s access to the shopping list %q.", role, list.Name),
		HTMLBody: fmt.Sprintf("<p>You now have <b>%s</b> access to the shopping list <b>%s</b>.</p>", role, list.Name),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		log.Printf("shoppinglist.Share: failed to send notification to %s: %v", target.Email, err)
	}

	return listRole, nil
}

func (s *shoppingListService) Roles(ctx context.Context, requesterID, listID uuid.UUID) ([]domain.ShoppingListRole, error) {
	if _, err := s.listRepo.GetByID(ctx, listID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrListNotFound
		}
		return nil, fmt.Errorf("shoppinglist.Roles: %w", err)
	}

	allowed, err := s.listRepo.HasRole(ctx, listID, requesterID)
	if err != nil {
		return nil, fmt.Errorf("shoppinglist.Roles: %w", err)
	}
	if !allowed {
		return nil, domain.ErrForbidden
	}

	roles, err := s.listRepo.ListRoles(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("shoppinglist.Roles: %w", err)
	}
	return roles, nil
}
