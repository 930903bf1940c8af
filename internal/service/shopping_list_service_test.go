package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"larder/internal/domain"
	"larder/internal/port"
	"larder/internal/service"
	"larder/mocks"
)

func TestShare_GrantsRoleAndNotifies(t *testing.T) {
	granterID, listID, targetID := uuid.New(), uuid.New(), uuid.New()

	listRepo := &mocks.MockShoppingListRepo{}
	listRepo.On("GetByID", mock.Anything, listID).
		Return(&domain.ShoppingList{ID: listID, Name: "Weekly Order"}, nil)
	listRepo.On("HasRole", mock.Anything, listID, granterID).Return(true, nil)
	listRepo.On("HasRole", mock.Anything, listID, targetID).Return(false, nil)
	listRepo.On("CreateRole", mock.Anything, mock.MatchedBy(func(r *domain.ShoppingListRole) bool {
		return r.ListID == listID && r.UserID == targetID &&
			r.Role == domain.ListPermissionEditor && r.GrantedBy == granterID
	})).Return(nil)

	userRepo := &mocks.MockUserRepo{}
	userRepo.On("GetByEmail", mock.Anything, "chef@example.com").
		Return(&domain.User{ID: targetID, Email: "chef@example.com"}, nil)

	email := &mocks.MockEmailSender{}
	email.On("Send", mock.Anything, mock.MatchedBy(func(msg port.EmailMessage) bool {
		return msg.To == "chef@example.com"
	})).Return(nil)

	svc := service.NewShoppingListService(listRepo, userRepo, email)
	role, err := svc.Share(context.Background(), granterID, listID, service.ShareInput{
		Email: "chef@example.com",
		Role:  "editor",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ListPermissionEditor, role.Role)
	listRepo.AssertExpectations(t)
	email.AssertExpectations(t)
}

func TestShare_InvalidRole(t *testing.T) {
	svc := service.NewShoppingListService(&mocks.MockShoppingListRepo{}, &mocks.MockUserRepo{}, &mocks.MockEmailSender{})
	_, err := svc.Share(context.Background(), uuid.New(), uuid.New(), service.ShareInput{Email: "a@b.c", Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrInvalidPermission)
}

func TestShare_UnknownList(t *testing.T) {
	listRepo := &mocks.MockShoppingListRepo{}
	listRepo.On("GetByID", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	svc := service.NewShoppingListService(listRepo, &mocks.MockUserRepo{}, &mocks.MockEmailSender{})
	_, err := svc.Share(context.Background(), uuid.New(), uuid.New(), service.ShareInput{Email: "a@b.c", Role: "editor"})
	assert.ErrorIs(t, err, domain.ErrListNotFound)
}

func TestShare_GranterWithoutRole(t *testing.T) {
	granterID, listID := uuid.New(), uuid.New()

	listRepo := &mocks.MockShoppingListRepo{}
	listRepo.On("GetByID", mock.Anything, listID).Return(&domain.ShoppingList{ID: listID}, nil)
	listRepo.On("HasRole", mock.Anything, listID, granterID).Return(false, nil)

	svc := service.NewShoppingListService(listRepo, &mocks.MockUserRepo{}, &mocks.MockEmailSender{})
	_, err := svc.Share(context.Background(), granterID, listID, service.ShareInput{Email: "a@b.c", Role: "editor"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestShare_UnknownEmail(t *testing.T) {
	granterID, listID := uuid.New(), uuid.New()

	listRepo := &mocks.MockShoppingListRepo{}
	listRepo.On("GetByID", mock.Anything, listID).Return(&domain.ShoppingList{ID: listID}, nil)
	listRepo.On("HasRole", mock.Anything, listID, granterID).Return(true, nil)

	userRepo := &mocks.MockUserRepo{}
	userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)

	svc := service.NewShoppingListService(listRepo, userRepo, &mocks.MockEmailSender{})
	_, err := svc.Share(context.Background(), granterID, listID, service.ShareInput{Email: "ghost@example.com", Role: "editor"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestShare_Duplicate(t *testing.T) {
	granterID, listID, targetID := uuid.New(), uuid.New(), uuid.New()

	listRepo := &mocks.MockShoppingListRepo{}
	listRepo.On("GetByID", mock.Anything, listID).Return(&domain.ShoppingList{ID: listID}, nil)
	listRepo.On("HasRole", mock.Anything, listID, granterID).Return(true, nil)
	listRepo.On("HasRole", mock.Anything, listID, targetID).Return(true, nil)

	userRepo := &mocks.MockUserRepo{}
	userRepo.On("GetByEmail", mock.Anything, "chef@example.com").
		Return(&domain.User{ID: targetID, Email: "chef@example.com"}, nil)

	svc := service.NewShoppingListService(listRepo, userRepo, &mocks.MockEmailSender{})
	_, err := svc.Share(context.Background(), granterID, listID, service.ShareInput{Email: "chef@example.com", Role: "editor"})
	assert.ErrorIs(t, err, domain.ErrDuplicateShare)
}

func TestShare_EmailFailureDoesNotUndoShare(t *testing.T) {
	granterID, listID, targetID := uuid.New(), uuid.New(), uuid.New()

	listRepo := &mocks.MockShoppingListRepo{}
	listRepo.On("GetByID", mock.Anything, listID).Return(&domain.ShoppingList{ID: listID, Name: "Weekly"}, nil)
	listRepo.On("HasRole", mock.Anything, listID, granterID).Return(true, nil)
	listRepo.On("HasRole", mock.Anything, listID, targetID).Return(false, nil)
	listRepo.On("CreateRole", mock.Anything, mock.Anything).Return(nil)

	userRepo := &mocks.MockUserRepo{}
	userRepo.On("GetByEmail", mock.Anything, "chef@example.com").
		Return(&domain.User{ID: targetID, Email: "chef@example.com"}, nil)

	email := &mocks.MockEmailSender{}
	email.On("Send", mock.Anything, mock.Anything).Return(assert.AnError)

	svc := service.NewShoppingListService(listRepo, userRepo, email)
	role, err := svc.Share(context.Background(), granterID, listID, service.ShareInput{Email: "chef@example.com", Role: "owner"})

	require.NoError(t, err)
	assert.Equal(t, domain.ListPermissionOwner, role.Role)
}

func TestRoles_RequiresMembership(t *testing.T) {
	requesterID, listID := uuid.New(), uuid.New()

	listRepo := &mocks.MockShoppingListRepo{}
	listRepo.On("GetByID", mock.Anything, listID).Return(&domain.ShoppingList{ID: listID}, nil)
	listRepo.On("HasRole", mock.Anything, listID, requesterID).Return(false, nil)

	svc := service.NewShoppingListService(listRepo, &mocks.MockUserRepo{}, &mocks.MockEmailSender{})
	_, err := svc.Roles(context.Background(), requesterID, listID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
