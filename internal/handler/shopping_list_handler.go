package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"larder/internal/service"
)

// ShoppingListHandler handles shopping list sharing endpoints.
type ShoppingListHandler struct {
	lists service.ShoppingListService
}

// NewShoppingListHandler creates a new ShoppingListHandler.
func NewShoppingListHandler(lists service.ShoppingListService) *ShoppingListHandler {
	return &ShoppingListHandler{lists: lists}
}

// Share grants another user access to a shopping list by email.
func (h *ShoppingListHandler) Share(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	listID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input service.ShareInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	role, err := h.lists.Share(c.Request.Context(), userID, listID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, role)
}

// Roles lists who has access to a shopping list.
func (h *ShoppingListHandler) Roles(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	listID, ok := parseIDParam(c)
	if !ok {
		return
	}

	roles, err := h.lists.Roles(c.Request.Context(), userID, listID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, roles)
}
