package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"larder/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	auth service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login authenticates a restaurant account and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	out, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, out)
}
